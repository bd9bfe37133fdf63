// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/yeetrun/argh/pkg/argh"
	"github.com/yeetrun/argh/pkg/envfile"
)

func version(raw *string) (*semver.Version, error) {
	if raw == nil {
		return nil, argh.ErrNotSupplied
	}
	return semver.NewVersion(*raw)
}

func main() {
	boot := argh.New()
	envFile := argh.MustAdd[string](boot, argh.Long("env-file"))
	if _, err := boot.ParseArgs(os.Args); err != nil {
		fatal(err)
	}
	env := os.Environ()
	if path, ok := envFile.Lookup(); ok {
		pairs, err := envfile.Load(path)
		if err != nil {
			fatal(err)
		}
		// The process environment is listed first, so it wins over
		// file pairs of the same name.
		env = append(env, pairs...)
	}

	p := argh.New()
	min := argh.MustAddFunc(p, argh.Long("min").WithEnv("RELVER_MIN"), version)
	ver := argh.MustAddFunc(p, argh.Both('v', "version").WithEnv("RELVER_VERSION"), version,
		argh.DefaultFunc(func() *semver.Version { return semver.MustParse("0.0.0") }))
	quiet := argh.MustAdd[bool](p, argh.Both('q', "quiet"))
	argh.MustAdd[string](p, argh.Long("env-file")) // declared again so its path token is consumed

	if _, err := p.ParseProvided(os.Args, env); err != nil {
		fatal(err)
	}
	minVer, err := min.Get()
	if err != nil {
		fatal(err)
	}
	v := ver.MustGet()
	if v.LessThan(minVer) {
		if !quiet.MustGet() {
			fmt.Println(color.RedString("%s is below the required %s", v, minVer))
		}
		os.Exit(1)
	}
	if !quiet.MustGet() {
		fmt.Println(color.GreenString("%s satisfies %s", v, minVer))
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "relver: %v\n", err)
	os.Exit(2)
}
