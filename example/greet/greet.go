// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/yeetrun/argh/pkg/argh"
)

type args struct {
	Name    string `short:"n" env:"GREET_NAME" default:"world"`
	Excited bool   `short:"e"`
	Times   int    `default:"1"`
	Accent  *string
	Pause   time.Duration `default:"0s"`
}

func main() {
	a, rest, err := argh.ParseStruct[args]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "greet: %v\n", err)
		os.Exit(2)
	}
	greeting := "Hello"
	if a.Accent != nil && *a.Accent == "pirate" {
		greeting = "Ahoy"
	}
	msg := fmt.Sprintf("%s, %s", greeting, a.Name)
	if a.Excited {
		msg = strings.ToUpper(msg) + "!"
	}
	for i := 0; i < a.Times; i++ {
		fmt.Println(color.GreenString(msg))
		time.Sleep(a.Pause)
	}
	if len(rest) > 1 {
		fmt.Println(color.YellowString("ignored: %s", strings.Join(rest[1:], " ")))
	}
}
