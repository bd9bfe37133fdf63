// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argh

import (
	"fmt"
)

// Ref is a typed handle to one declared argument. It is a small value
// carrying no data of its own; copies address the same declaration, and
// a handle stays valid across parse passes. The zero Ref belongs to no
// Parser and panics on use.
type Ref[T any] struct {
	p   *Parser
	idx int
}

func (r Ref[T]) resolution() (resolution, Tag) {
	if r.p == nil {
		panic("argh: use of zero Ref")
	}
	return r.p.resolutionAt(r.idx)
}

// Get returns the resolved value. An absent argument yields an error
// matching ErrNotSupplied; a failed conversion yields the *ValueError
// preserved from the parse pass.
func (r Ref[T]) Get() (T, error) {
	res, tag := r.resolution()
	var zero T
	if res.err != nil {
		return zero, res.err
	}
	if !res.supplied {
		return zero, fmt.Errorf("%s: %w", tag, ErrNotSupplied)
	}
	return res.val.(T), nil
}

// Lookup returns the resolved value, reporting absent arguments and
// failed conversions alike as ok=false.
func (r Ref[T]) Lookup() (T, bool) {
	res, _ := r.resolution()
	if res.err != nil || !res.supplied {
		var zero T
		return zero, false
	}
	return res.val.(T), true
}

// MustGet returns the resolved value, panicking when the argument is
// absent or its conversion failed.
func (r Ref[T]) MustGet() T {
	v, err := r.Get()
	if err != nil {
		panic(fmt.Sprintf("argh: %v", err))
	}
	return v
}

// Res is the materialized, error-preserving resolution of one schema
// field: the value when conversion succeeded, the conversion error when
// it failed, or neither when the argument was not supplied.
type Res[T any] struct {
	Value   T
	Err     error
	Present bool
}

// argRes marks Res for schema field detection across instantiations.
func (Res[T]) argRes() {}

// Get returns the value, the preserved conversion error, or an error
// matching ErrNotSupplied.
func (r Res[T]) Get() (T, error) {
	var zero T
	if r.Err != nil {
		return zero, r.Err
	}
	if !r.Present {
		return zero, ErrNotSupplied
	}
	return r.Value, nil
}

// Lookup returns the value, reporting absent and failed alike as
// ok=false.
func (r Res[T]) Lookup() (T, bool) {
	if r.Err != nil || !r.Present {
		var zero T
		return zero, false
	}
	return r.Value, true
}

// MustGet returns the value, panicking when absent or failed.
func (r Res[T]) MustGet() T {
	v, err := r.Get()
	if err != nil {
		panic(fmt.Sprintf("argh: %v", err))
	}
	return v
}
