// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argh parses command-line tokens and environment pairs into
// typed values declared by tags.
//
// An argument is declared against a Tag carrying any combination of a
// short form (-x), a long form (--name), and an environment variable
// name. A parse pass scans the tokens once, fills in environment and
// default values, converts everything to the declared kinds, and
// returns the remainder: every token it did not consume, in original
// order. Values come back through typed handles.
//
// The design follows a few rules:
//   - Type-safe declaration and retrieval using Go generics
//   - CLI values always beat environment values; defaults fill last
//   - Bad values never fail the pass; each argument carries its own
//     conversion result
//   - Unknown tags pass through to the remainder unless StrictTags is on
//
// # Declaring And Parsing
//
// Declare arguments on a Parser, parse, then read the handles:
//
//	p := argh.New()
//	port := argh.MustAdd[int](p, argh.Both('p', "port").WithEnv("PORT"), argh.Default("8080"))
//	verbose := argh.MustAdd[bool](p, argh.Long("verbose"))
//	tags := argh.MustAdd[[]string](p, argh.Long("tag"))
//
//	rest, err := p.Parse() // os.Args and os.Environ()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(port.MustGet(), verbose.MustGet())
//
// ParseArgs, ParseEnv, and ParseProvided take explicit inputs instead
// of the process state; each pass re-resolves every argument from
// scratch. The environment is an ordered []string of NAME=value
// entries, so os.Environ() can be passed straight through, and for a
// given name the first entry wins.
//
// # Retrieval
//
// A handle offers three policies:
//
//	v, err := port.Get()    // error preserved: ErrNotSupplied or *ValueError
//	v, ok := port.Lookup()  // absent and failed both read as ok=false
//	v := port.MustGet()     // panics when absent or failed
//
// # Struct Schema
//
// ParseStruct declares a whole argument set from struct tags:
//
//	type flags struct {
//	    Verbose bool              `short:"v"`
//	    Name    string            `arg:"name" env:"APP_NAME" default:"app"`
//	    Retry   *int              `arg:"retry"`       // nil when absent or failed
//	    Rate    argh.Res[float64] `arg:"rate"`        // conversion error preserved
//	}
//
//	fl, rest, err := argh.ParseStruct[flags]()
//
// The long form defaults to the kebab-cased field name. Plain fields
// panic at population when absent or failed, pointer fields stay nil,
// and Res fields keep the error.
//
// # Value Kinds
//
// Built-in kinds: bool, string, int/int8/int16/int32/int64, uint and
// its widths, float32/float64, time.Duration, and slices of any of
// those. A slice argument splits each raw text on "," and accumulates
// elements across repeated occurrences:
//
//	--baz 1,2,3 --baz 7,8,9   // []uint64{1, 2, 3, 7, 8, 9}
//
// Bool arguments are flags: absent reads false, a bare --flag reads
// true, and an attached value reads false only for "0" or "false" in
// any case. Flags never take the next token, so "--flag value" leaves
// "value" in the remainder.
//
// # Tag Syntax
//
// Long form: --name, --name=value, --name value. Short form: -x,
// -x=value, -x value. Short tags combine into groups: -vx applies -v
// and -x, an inline -vx=8 hands 8 to the last rune, and one rune per
// group may consume the next token. A value-consuming tag takes the
// next token unconditionally, even one starting with a dash. The
// tokens "-" and "--" are plain positionals.
//
// # Custom Kinds
//
// AddFunc declares an argument converted by any function:
//
//	level := argh.MustAddFunc(p, argh.Long("level"), func(raw *string) (slog.Level, error) {
//	    if raw == nil {
//	        return 0, argh.ErrNotSupplied
//	    }
//	    var l slog.Level
//	    err := l.UnmarshalText([]byte(*raw))
//	    return l, err
//	})
//
// The function sees nil when the tag matched without attached text;
// returning ErrNotSupplied reports that occurrence as absent. NoValue
// makes a custom argument flag-like, and DefaultFunc supplies a typed
// fallback when nothing else resolved.
package argh
