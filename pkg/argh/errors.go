// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argh

import (
	"errors"
	"fmt"
)

// ErrNotSupplied reports that an argument resolved to no value at all:
// no CLI token matched, no environment pair matched, and no default was
// registered. Ref.Get wraps it with the tag; test with errors.Is.
//
// A ConvertFunc may also return it (or an error wrapping it) to report
// a matched occurrence as "not supplied" instead of as a conversion
// failure; the built-in value-consuming kinds do that for occurrences
// with no attached text.
var ErrNotSupplied = errors.New("argument not supplied")

// TagError is returned when a registration is given an unusable Tag.
type TagError struct {
	Tag    Tag
	Reason string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("invalid tag %s: %s", e.Tag, e.Reason)
}

// DuplicateTagError is returned when a registration reuses a short,
// long, or environment form already claimed by an earlier registration.
type DuplicateTagError struct {
	Form  string // "short", "long", or "env"
	Value string // the colliding name, without prefix
}

func (e *DuplicateTagError) Error() string {
	switch e.Form {
	case "short":
		return fmt.Sprintf("duplicate short tag: -%s", e.Value)
	case "long":
		return fmt.Sprintf("duplicate long tag: --%s", e.Value)
	}
	return fmt.Sprintf("duplicate env tag: %s", e.Value)
}

// UnknownTagError aborts a parse pass under StrictTags when a token
// that looks like a tag matches no declared argument.
type UnknownTagError struct {
	Token string // the unmatched tag as it appeared, e.g. "--wat" or "-w"
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag: %s", e.Token)
}

// ConsumedValueError aborts a parse pass when a short group wants more
// values than the token stream offers it: two runes in one group both
// consume a value, or an inline value is attached and a rune before the
// last one consumes.
type ConsumedValueError struct {
	Group string // the full token, e.g. "-ovx"
	Short rune   // the rune left without a value
}

func (e *ConsumedValueError) Error() string {
	return fmt.Sprintf("short group %s: value for -%c already consumed", e.Group, e.Short)
}

// ValueError reports that an argument's raw text could not be converted
// to its declared kind. It is preserved through the parse pass and
// returned by Get; Unwrap exposes the underlying cause.
type ValueError struct {
	Tag Tag
	Raw string // the raw text that failed, "" when none was attached
	Err error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %v", e.Tag, e.Raw, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
