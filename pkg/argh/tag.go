// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argh

import (
	"strings"
)

// Tag names a declared argument. It combines up to three forms: a short
// rune matched as -x, a long name matched as --name, and an environment
// variable name matched against environment pairs. A Tag needs at least
// one form to be registered. Matching is exact and case-sensitive.
//
// Tags are plain values; the With* builders return modified copies.
type Tag struct {
	short rune
	long  string
	env   string
}

// Short returns a Tag matched by -r.
func Short(r rune) Tag { return Tag{short: r} }

// Long returns a Tag matched by --name.
func Long(name string) Tag { return Tag{long: name} }

// Both returns a Tag matched by -r or --name.
func Both(r rune, name string) Tag { return Tag{short: r, long: name} }

// Env returns a Tag resolved from the environment pair called name.
func Env(name string) Tag { return Tag{env: name} }

// WithShort returns a copy of t also matched by -r.
func (t Tag) WithShort(r rune) Tag {
	t.short = r
	return t
}

// WithLong returns a copy of t also matched by --name.
func (t Tag) WithLong(name string) Tag {
	t.long = name
	return t
}

// WithEnv returns a copy of t that also resolves from the environment
// pair called name.
func (t Tag) WithEnv(name string) Tag {
	t.env = name
	return t
}

// HasCLI reports whether t has a short or long form.
func (t Tag) HasCLI() bool { return t.short != 0 || t.long != "" }

// HasEnv reports whether t has an environment form.
func (t Tag) HasEnv() bool { return t.env != "" }

func (t Tag) matchesShort(r rune) bool { return t.short != 0 && t.short == r }

func (t Tag) matchesLong(name string) bool { return t.long != "" && t.long == name }

// String renders every form of t, e.g. "-p/--port/$PORT".
func (t Tag) String() string {
	var parts []string
	if t.short != 0 {
		parts = append(parts, "-"+string(t.short))
	}
	if t.long != "" {
		parts = append(parts, "--"+t.long)
	}
	if t.env != "" {
		parts = append(parts, "$"+t.env)
	}
	if len(parts) == 0 {
		return "(no tag)"
	}
	return strings.Join(parts, "/")
}

// validate reports why t cannot be registered, or nil.
func (t Tag) validate() error {
	if t.short == 0 && t.long == "" && t.env == "" {
		return &TagError{Tag: t, Reason: "no short, long, or env form"}
	}
	if t.short == '-' || t.short == '=' {
		return &TagError{Tag: t, Reason: "short form must not be '-' or '='"}
	}
	if strings.HasPrefix(t.long, "-") {
		return &TagError{Tag: t, Reason: "long form must not include the dash prefix"}
	}
	if strings.Contains(t.long, "=") {
		return &TagError{Tag: t, Reason: "long form must not contain '='"}
	}
	if strings.Contains(t.env, "=") {
		return &TagError{Tag: t, Reason: "env form must not contain '='"}
	}
	return nil
}
