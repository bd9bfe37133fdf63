// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argh

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
)

// Parser holds declared arguments and, after a parse pass, their
// resolved values. Registration and retrieval lock internally, so
// handles may be used from different parts of a program without caller
// locking; concurrent parse passes against one Parser are not supported
// and their ordering is undefined.
type Parser struct {
	mu        sync.Mutex
	args      []*argument
	binary    string
	hasBinary bool
	strict    bool
}

// Option configures a Parser.
type Option func(*Parser)

// StrictTags makes a parse pass fail with an *UnknownTagError when a
// token that looks like a tag (-x or --x) matches no declared argument,
// instead of passing the token through to the remainder.
func StrictTags() Option {
	return func(p *Parser) { p.strict = true }
}

// New returns an empty Parser.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, o := range opts {
		o(p)
	}
	return p
}

// argument is one declared tag with its kind and per-pass state.
type argument struct {
	tag      Tag
	typ      reflect.Type // declared Go type of the value
	conv     converter
	custom   bool // registered through AddFunc
	defRaw   string
	hasDef   bool
	fallback func() any // registered typed default provider

	// raw state gathered by the current pass, and its outcome
	texts []string
	bare  bool
	res   resolution
}

// resolution is the outcome of one parse pass for one argument: a
// value, a conversion error, or neither (not supplied).
type resolution struct {
	val      any
	err      error
	supplied bool
}

// addText records one occurrence carrying raw text. Scalar kinds keep
// the last occurrence; list kinds accumulate.
func (a *argument) addText(s string) {
	if a.conv.list {
		a.texts = append(a.texts, s)
	} else {
		a.texts = []string{s}
	}
	a.bare = false
}

// addBare records one occurrence with no attached text. For scalar
// kinds it supersedes earlier text, keeping last-occurrence-wins.
func (a *argument) addBare() {
	if !a.conv.list {
		a.texts = nil
	}
	a.bare = true
}

// ArgOption adjusts a single argument declaration.
type ArgOption func(*argument) error

// Default registers raw text applied when neither CLI tokens nor
// environment pairs supplied any for the argument. It runs through the
// same conversion as real input; for list kinds it replaces an empty
// accumulation and never appends to one that came from actual input.
func Default(raw string) ArgOption {
	return func(a *argument) error {
		a.defRaw, a.hasDef = raw, true
		return nil
	}
}

// DefaultFunc registers a typed fallback invoked when no raw text
// exists from any source. The func's type must match the declaration.
func DefaultFunc[T any](fn func() T) ArgOption {
	return func(a *argument) error {
		if want := reflect.TypeOf((*T)(nil)).Elem(); a.typ != want {
			return fmt.Errorf("default value type %s does not match argument type %s", want, a.typ)
		}
		a.fallback = func() any { return fn() }
		return nil
	}
}

// NoValue marks an AddFunc argument as non-consuming: like a bool flag
// it never takes the next token as its value, though an inline =text
// still reaches its ConvertFunc.
func NoValue() ArgOption {
	return func(a *argument) error {
		if !a.custom {
			return fmt.Errorf("NoValue applies only to AddFunc arguments")
		}
		a.conv.consumes = false
		return nil
	}
}

// Add declares an argument of a built-in kind on p and returns its
// handle. T may be bool, string, any signed/unsigned integer or float
// width, time.Duration, or a slice of those; other types fail.
func Add[T any](p *Parser, tag Tag, opts ...ArgOption) (Ref[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	conv, err := converterForType(t)
	if err != nil {
		return Ref[T]{}, err
	}
	idx, err := p.register(tag, t, conv, false, opts)
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{p: p, idx: idx}, nil
}

// MustAdd is Add, panicking on registration failure.
func MustAdd[T any](p *Parser, tag Tag, opts ...ArgOption) Ref[T] {
	r, err := Add[T](p, tag, opts...)
	if err != nil {
		panic(fmt.Sprintf("argh: %v", err))
	}
	return r
}

// AddFunc declares an argument converted by fn. See ConvertFunc for the
// raw-text protocol. The argument consumes a value unless NoValue is
// given.
func AddFunc[T any](p *Parser, tag Tag, fn ConvertFunc[T], opts ...ArgOption) (Ref[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	idx, err := p.register(tag, t, funcConverter(fn), true, opts)
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{p: p, idx: idx}, nil
}

// MustAddFunc is AddFunc, panicking on registration failure.
func MustAddFunc[T any](p *Parser, tag Tag, fn ConvertFunc[T], opts ...ArgOption) Ref[T] {
	r, err := AddFunc[T](p, tag, fn, opts...)
	if err != nil {
		panic(fmt.Sprintf("argh: %v", err))
	}
	return r
}

// register validates the declaration against the existing set and
// appends it. Re-registering a declaration identical to an earlier one
// returns the earlier handle; any partial collision of a short, long,
// or env form fails with a *DuplicateTagError.
func (p *Parser) register(tag Tag, typ reflect.Type, conv converter, custom bool, opts []ArgOption) (int, error) {
	if err := tag.validate(); err != nil {
		return 0, err
	}
	a := &argument{tag: tag, typ: typ, conv: conv, custom: custom}
	for _, o := range opts {
		if err := o(a); err != nil {
			return 0, err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, b := range p.args {
		if b.tag == tag && !custom && !b.custom && b.typ == typ &&
			b.hasDef == a.hasDef && b.defRaw == a.defRaw &&
			b.fallback == nil && a.fallback == nil {
			return i, nil
		}
		if tag.short != 0 && tag.short == b.tag.short {
			return 0, &DuplicateTagError{Form: "short", Value: string(tag.short)}
		}
		if tag.long != "" && tag.long == b.tag.long {
			return 0, &DuplicateTagError{Form: "long", Value: tag.long}
		}
		if tag.env != "" && tag.env == b.tag.env {
			return 0, &DuplicateTagError{Form: "env", Value: tag.env}
		}
	}
	p.args = append(p.args, a)
	return len(p.args) - 1, nil
}

// Parse resolves every declared argument from the process command line
// and environment. See ParseProvided.
func (p *Parser) Parse() ([]string, error) {
	return p.ParseProvided(os.Args, os.Environ())
}

// ParseArgs resolves every declared argument from the given CLI tokens
// alone; no environment pairs are consulted. See ParseProvided.
func (p *Parser) ParseArgs(argv []string) ([]string, error) {
	return p.ParseProvided(argv, nil)
}

// ParseEnv resolves every declared argument from environment pairs
// alone. Arguments without an env form resolve to their defaults or to
// not-supplied. See ParseProvided.
func (p *Parser) ParseEnv(env []string) error {
	_, err := p.ParseProvided(nil, env)
	return err
}

// ParseProvided resolves every declared argument from the given CLI
// tokens and NAME=value environment pairs, returning the remainder:
// every token not consumed as a tag name or as a tag's value, in
// original order. The first token is recorded as the binary name,
// never matches a tag, and leads the remainder.
//
// A CLI value always beats an environment value for the same argument;
// registered defaults apply only when neither source supplied raw
// text. Each call re-resolves from scratch. Conversion failures never
// fail the pass; they surface through the argument's handle. The pass
// itself fails only on an unknown tag under StrictTags or on a short
// group needing more values than it can take.
func (p *Parser) ParseProvided(argv, env []string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()

	var remainder []string
	if len(argv) > 0 {
		p.binary, p.hasBinary = argv[0], true
		remainder = append(remainder, argv[0])
		rest := argv[1:]
		for i := 0; i < len(rest); i++ {
			tok := rest[i]
			var (
				consumed int
				matched  bool
				err      error
			)
			switch {
			case tok == "-" || tok == "--":
				// plain positionals under either policy
			case strings.HasPrefix(tok, "--"):
				consumed, matched, err = p.applyLong(tok, rest[i+1:])
			case strings.HasPrefix(tok, "-"):
				consumed, matched, err = p.applyShortGroup(tok, rest[i+1:])
			}
			if err != nil {
				return nil, err
			}
			if !matched {
				remainder = append(remainder, tok)
				continue
			}
			i += consumed
		}
	}
	p.applyEnv(env)
	for _, a := range p.args {
		a.res = resolve(a)
	}
	return remainder, nil
}

// Binary reports the first CLI token of the most recent parse pass.
func (p *Parser) Binary() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.binary, p.hasBinary
}

func (p *Parser) resetLocked() {
	p.binary, p.hasBinary = "", false
	for _, a := range p.args {
		a.texts, a.bare, a.res = nil, false, resolution{}
	}
}

// applyLong handles one --name or --name=value token. matched=false
// sends the token to the remainder.
func (p *Parser) applyLong(tok string, next []string) (consumed int, matched bool, err error) {
	name, inline, hasInline := strings.Cut(tok[2:], "=")
	if name == "" {
		return 0, false, nil
	}
	a := p.findLong(name)
	if a == nil {
		if p.strict {
			return 0, false, &UnknownTagError{Token: "--" + name}
		}
		return 0, false, nil
	}
	switch {
	case hasInline:
		a.addText(inline)
	case a.conv.consumes && len(next) > 0:
		a.addText(next[0])
		consumed = 1
	default:
		a.addBare()
	}
	return consumed, true, nil
}

// applyShortGroup handles one -x, -xy, -x=v, or -xy=v token. Every rune
// must name a declared short tag or the whole token falls through to
// the unknown-token policy. An inline value attaches to the last rune
// and every earlier rune must be non-consuming; without an inline
// value at most one rune may consume the next token.
func (p *Parser) applyShortGroup(tok string, next []string) (consumed int, matched bool, err error) {
	names, inline, hasInline := strings.Cut(tok[1:], "=")
	runes := []rune(names)
	if len(runes) == 0 {
		return 0, false, nil
	}
	group := make([]*argument, len(runes))
	for i, r := range runes {
		a := p.findShort(r)
		if a == nil {
			if p.strict {
				return 0, false, &UnknownTagError{Token: "-" + string(r)}
			}
			return 0, false, nil
		}
		group[i] = a
	}
	if hasInline {
		for i, a := range group[:len(group)-1] {
			if a.conv.consumes {
				return 0, false, &ConsumedValueError{Group: tok, Short: runes[i]}
			}
		}
		for _, a := range group[:len(group)-1] {
			a.addBare()
		}
		group[len(group)-1].addText(inline)
		return 0, true, nil
	}
	taker := -1
	for i, a := range group {
		if !a.conv.consumes {
			continue
		}
		if taker != -1 {
			return 0, false, &ConsumedValueError{Group: tok, Short: runes[i]}
		}
		taker = i
	}
	for i, a := range group {
		if i == taker && len(next) > 0 {
			a.addText(next[0])
			consumed = 1
		} else {
			a.addBare()
		}
	}
	return consumed, true, nil
}

// applyEnv fills env-form arguments that CLI tokens did not satisfy: a
// bare match of a non-consuming kind counts as satisfied, raw text
// always does. For one name the first pair wins.
func (p *Parser) applyEnv(env []string) {
	for _, a := range p.args {
		if !a.tag.HasEnv() || len(a.texts) > 0 {
			continue
		}
		if a.bare && !a.conv.consumes {
			continue
		}
		if v, ok := lookupPair(env, a.tag.env); ok {
			a.addText(v)
		}
	}
}

// lookupPair finds the first NAME=value entry called name. Entries
// without '=' are skipped.
func lookupPair(env []string, name string) (string, bool) {
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == name {
			return v, true
		}
	}
	return "", false
}

func (p *Parser) findLong(name string) *argument {
	for _, a := range p.args {
		if a.tag.matchesLong(name) {
			return a
		}
	}
	return nil
}

func (p *Parser) findShort(r rune) *argument {
	for _, a := range p.args {
		if a.tag.matchesShort(r) {
			return a
		}
	}
	return nil
}

// resolve converts one argument's gathered raw state. Raw text beats a
// meaningful bare match beats the registered raw default beats the
// typed fallback; a conversion declining with ErrNotSupplied on a bare
// match falls through to the typed fallback.
func resolve(a *argument) resolution {
	texts := a.texts
	bare := false
	switch {
	case len(a.texts) > 0:
	case a.bare && !a.conv.consumes:
		bare = true
	case a.hasDef:
		texts = []string{a.defRaw}
	case a.bare:
		bare = true
	default:
		return fallback(a)
	}
	v, err := a.conv.convert(texts, bare)
	if err != nil {
		if errors.Is(err, ErrNotSupplied) {
			if bare {
				return fallback(a)
			}
			return resolution{}
		}
		return resolution{err: &ValueError{Tag: a.tag, Raw: strings.Join(texts, ","), Err: err}}
	}
	return resolution{val: v, supplied: true}
}

func fallback(a *argument) resolution {
	if a.fallback != nil {
		return resolution{val: a.fallback(), supplied: true}
	}
	if a.conv.fallback != nil {
		if v, ok := a.conv.fallback(); ok {
			return resolution{val: v, supplied: true}
		}
	}
	return resolution{}
}

// resolutionAt copies one argument's outcome under the lock.
func (p *Parser) resolutionAt(idx int) (resolution, Tag) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a := p.args[idx]
	return a.res, a.tag
}
