// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argh

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ConvertFunc turns the raw text of one argument occurrence into a T.
// raw is nil when the tag matched without any attached text (a bare
// --flag, or a value-consuming tag at the very end of the token list).
// Returning an error matching ErrNotSupplied reports the occurrence as
// absent rather than as a conversion failure.
type ConvertFunc[T any] func(raw *string) (T, error)

// converter adapts one value kind for the parse pass.
type converter struct {
	// consumes reports whether a CLI match takes a value: inline =text
	// or the next token. Bool and NoValue custom kinds do not, so they
	// never eat a following token.
	consumes bool

	// list kinds accumulate raw texts across occurrences.
	list bool

	// convert turns the final raw state into a value. texts holds every
	// raw text in occurrence order (scalar kinds keep only the last);
	// bare is set when the tag matched with no attached text, in which
	// case texts is nil.
	convert func(texts []string, bare bool) (any, error)

	// fallback supplies the kind's intrinsic value for an argument that
	// resolved nothing at all (bool reads as false). ok=false means the
	// kind has none.
	fallback func() (any, bool)
}

var durationType = reflect.TypeOf(time.Duration(0))

// converterForType builds the converter for a built-in kind: bool,
// string, the signed/unsigned integer and float widths, time.Duration,
// or a slice of any of those. Named types with those underlying kinds
// work too.
func converterForType(t reflect.Type) (converter, error) {
	if t.Kind() == reflect.Slice {
		elem, err := scalarConverter(t.Elem())
		if err != nil {
			return converter{}, fmt.Errorf("unsupported list element type %s", t.Elem())
		}
		return listConverter(t, elem), nil
	}
	return scalarConverter(t)
}

func scalarConverter(t reflect.Type) (converter, error) {
	if t == durationType {
		return textConverter(t, func(s string) (any, error) {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			return d, nil
		}), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return converter{
			convert: func(texts []string, bare bool) (any, error) {
				if bare {
					return asType(true, t), nil
				}
				return asType(parseBoolText(texts[len(texts)-1]), t), nil
			},
			fallback: func() (any, bool) { return asType(false, t), true },
		}, nil

	case reflect.String:
		return textConverter(t, func(s string) (any, error) {
			return s, nil
		}), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits := t.Bits()
		return textConverter(t, func(s string) (any, error) {
			i, err := strconv.ParseInt(s, 10, bits)
			if err != nil {
				return nil, fmt.Errorf("invalid int value %q: %w", s, err)
			}
			return i, nil
		}), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bits := t.Bits()
		return textConverter(t, func(s string) (any, error) {
			u, err := strconv.ParseUint(s, 10, bits)
			if err != nil {
				return nil, fmt.Errorf("invalid uint value %q: %w", s, err)
			}
			return u, nil
		}), nil

	case reflect.Float32, reflect.Float64:
		bits := t.Bits()
		return textConverter(t, func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, bits)
			if err != nil {
				return nil, fmt.Errorf("invalid float value %q: %w", s, err)
			}
			return f, nil
		}), nil
	}
	return converter{}, fmt.Errorf("unsupported argument type %s", t)
}

// textConverter adapts a consuming scalar kind whose conversion needs
// raw text. A bare occurrence resolves to not-supplied.
func textConverter(t reflect.Type, parse func(s string) (any, error)) converter {
	return converter{
		consumes: true,
		convert: func(texts []string, bare bool) (any, error) {
			if bare {
				return nil, ErrNotSupplied
			}
			v, err := parse(texts[len(texts)-1])
			if err != nil {
				return nil, err
			}
			return asType(v, t), nil
		},
	}
}

// listConverter adapts []T. Each raw text splits on "," and every
// element converts by the element kind's rule; occurrences accumulate
// in order. One bad element fails the whole argument.
func listConverter(t reflect.Type, elem converter) converter {
	return converter{
		consumes: true,
		list:     true,
		convert: func(texts []string, bare bool) (any, error) {
			if bare {
				return nil, ErrNotSupplied
			}
			out := reflect.MakeSlice(t, 0, len(texts))
			for _, text := range texts {
				for _, part := range strings.Split(text, ",") {
					v, err := elem.convert([]string{part}, false)
					if err != nil {
						return nil, err
					}
					out = reflect.Append(out, reflect.ValueOf(v))
				}
			}
			return out.Interface(), nil
		},
	}
}

// funcConverter adapts a ConvertFunc-backed kind.
func funcConverter[T any](fn ConvertFunc[T]) converter {
	return converter{
		consumes: true,
		convert: func(texts []string, bare bool) (any, error) {
			var raw *string
			if !bare {
				s := texts[len(texts)-1]
				raw = &s
			}
			v, err := fn(raw)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// asType converts v to the declared Go type so that named types and
// widths below 64 bits round-trip through Ref with their exact type.
// Range was already checked at the declared width by the parse.
func asType(v any, t reflect.Type) any {
	return reflect.ValueOf(v).Convert(t).Interface()
}

// parseBoolText maps raw flag text to its value: "0" and "false"
// (case-insensitive) mean false, anything else means true.
func parseBoolText(s string) bool {
	return s != "0" && !strings.EqualFold(s, "false")
}
