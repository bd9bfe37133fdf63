// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package envfile reads and writes NAME=value files in the shape
// Parser.ParseProvided and Parser.ParseEnv accept.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
)

// Parse reads NAME=value pairs from r, one per line, in file order.
// Blank lines and lines starting with '#' are skipped.
func Parse(r io.Reader) ([]string, error) {
	var pairs []string
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, _, ok := strings.Cut(line, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("line %d: not a NAME=value pair", n)
		}
		pairs = append(pairs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %v", err)
	}
	return pairs, nil
}

// Load reads the pairs of the named env file.
func Load(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file: %v", err)
	}
	defer f.Close()
	pairs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return pairs, nil
}

// Write writes an environment file with the given name and content. e
// is a struct (or pointer to one) whose fields carry env tags naming
// each pair; zero fields are skipped.
func Write(name string, e any) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := marshalEnv(f, e); err != nil {
		return fmt.Errorf("failed to marshal env: %v", err)
	}
	return f.Close()
}

func marshalEnv(o io.Writer, e any) error {
	re := reflect.ValueOf(e)
	if re.Kind() == reflect.Ptr {
		re = re.Elem()
	}
	if re.Kind() != reflect.Struct {
		return fmt.Errorf("env content must be a struct, got %s", re.Kind())
	}
	ret := re.Type()
	for i := 0; i < re.NumField(); i++ {
		field := re.Field(i)
		tag := ret.Field(i).Tag.Get("env")
		if tag == "" {
			continue
		}
		if field.IsZero() {
			continue
		}
		fmt.Fprintf(o, "%s=%v\n", tag, field.Interface())
	}
	return nil
}
