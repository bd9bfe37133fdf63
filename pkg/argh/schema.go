// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argh

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"
)

// resMarker matches every instantiation of Res.
type resMarker interface{ argRes() }

var resMarkerType = reflect.TypeOf((*resMarker)(nil)).Elem()

type fieldShape int

const (
	shapeMust fieldShape = iota // plain T: panics when absent or failed
	shapePtr                    // *T: nil when absent or failed
	shapeRes                    // Res[T]: error-preserving
)

type fieldBinding struct {
	field int
	shape fieldShape
	arg   int
}

// ParseStruct declares an argument per tagged field of T, parses the
// process command line and environment, and returns the populated
// struct with the remainder. See ParseStructProvided.
func ParseStruct[T any](opts ...Option) (T, []string, error) {
	return ParseStructProvided[T](os.Args, os.Environ(), opts...)
}

// ParseStructProvided is ParseStruct over explicit CLI tokens and
// NAME=value environment pairs.
//
// Every exported field of T declares one argument of a built-in kind.
// The long form defaults to the kebab-cased field name (EnvVar becomes
// --env-var) and the struct tags adjust the declaration:
//
//	Verbose bool   `arg:"verbose" short:"v"`      // long and short form
//	Workers int    `default:"4"`                  // raw default text
//	Token   string `env:"API_TOKEN"`              // environment form
//	Ignored string `arg:"-"`                      // not an argument
//
// The field's type selects the retrieval policy: a plain field panics
// at population when its argument is absent or failed to convert, a
// pointer field is nil in both cases, and a Res field preserves the
// conversion error. Bool fields never panic (an absent flag reads
// false) and string fields cannot fail conversion.
func ParseStructProvided[T any](argv, env []string, opts ...Option) (T, []string, error) {
	var out T
	t := reflect.TypeOf(&out).Elem()
	if t.Kind() != reflect.Struct {
		return out, nil, fmt.Errorf("argument schema must be a struct type, got %s", t)
	}
	p := New(opts...)
	bindings, err := declareFields(p, t)
	if err != nil {
		return out, nil, err
	}
	remainder, err := p.ParseProvided(argv, env)
	if err != nil {
		return out, nil, err
	}
	populate(reflect.ValueOf(&out).Elem(), bindings, p)
	return out, remainder, nil
}

func declareFields(p *Parser, t reflect.Type) ([]fieldBinding, error) {
	var out []fieldBinding
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("arg") == "-" {
			continue
		}
		tag, err := fieldTag(f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		vt := f.Type
		shape := shapeMust
		switch {
		case vt.Kind() == reflect.Pointer:
			vt, shape = vt.Elem(), shapePtr
		case vt.Implements(resMarkerType):
			shape = shapeRes
			value, _ := vt.FieldByName("Value")
			vt = value.Type
		}
		conv, err := converterForType(vt)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		var argOpts []ArgOption
		if d, ok := f.Tag.Lookup("default"); ok {
			argOpts = append(argOpts, Default(d))
		}
		idx, err := p.register(tag, vt, conv, false, argOpts)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		out = append(out, fieldBinding{field: i, shape: shape, arg: idx})
	}
	return out, nil
}

func fieldTag(f reflect.StructField) (Tag, error) {
	long := f.Tag.Get("arg")
	if long == "" {
		long = kebabCase(f.Name)
	}
	tag := Long(long)
	if s, ok := f.Tag.Lookup("short"); ok {
		rs := []rune(s)
		if len(rs) != 1 {
			return Tag{}, fmt.Errorf("short tag %q must be a single character", s)
		}
		tag = tag.WithShort(rs[0])
	}
	if e, ok := f.Tag.Lookup("env"); ok {
		tag = tag.WithEnv(e)
	}
	return tag, nil
}

func populate(v reflect.Value, bindings []fieldBinding, p *Parser) {
	for _, b := range bindings {
		res, tag := p.resolutionAt(b.arg)
		f := v.Field(b.field)
		switch b.shape {
		case shapeMust:
			if res.err != nil {
				panic(fmt.Sprintf("argh: %v", res.err))
			}
			if !res.supplied {
				panic(fmt.Sprintf("argh: %s: %v", tag, ErrNotSupplied))
			}
			f.Set(reflect.ValueOf(res.val))
		case shapePtr:
			if res.err != nil || !res.supplied {
				continue
			}
			np := reflect.New(f.Type().Elem())
			np.Elem().Set(reflect.ValueOf(res.val))
			f.Set(np)
		case shapeRes:
			rv := reflect.New(f.Type()).Elem()
			if res.supplied {
				rv.FieldByName("Value").Set(reflect.ValueOf(res.val))
			}
			if res.err != nil {
				rv.FieldByName("Err").Set(reflect.ValueOf(res.err))
			}
			rv.FieldByName("Present").SetBool(res.supplied)
			f.Set(rv)
		}
	}
}

// kebabCase converts a Go field name to its long form: EnvVar becomes
// env-var, HTTPPort becomes http-port.
func kebabCase(name string) string {
	var b strings.Builder
	rs := []rune(name)
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(rs[i-1]) || (i+1 < len(rs) && unicode.IsLower(rs[i+1]))) {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
