// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package common

import (
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gofabric"
)

type GlobalFlags struct {
	Flagset     *flag.FlagSet
	File        string
	Hex         bool
	Debug       bool
	StrategyArg string
	Strategy    gofabric.Strategy
	FormatArg   string
	Format      gofabric.Format
}

func NewGlobalFlags() *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.File,
		"file",
		"",
		"block file to decode (defaults to stdin)",
	)
	f.Flagset.BoolVar(&f.Hex, "hex", false, "input is hex encoded")
	f.Flagset.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	f.Flagset.StringVar(
		&f.StrategyArg,
		"strategy",
		gofabric.StrategyExplicit.String(),
		"decode strategy (explicit or heuristic)",
	)
	f.Flagset.StringVar(
		&f.FormatArg,
		"format",
		string(gofabric.FormatJSON),
		"output format (json, yaml or cbor)",
	)
	return f
}

func (f *GlobalFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	strategy, err := gofabric.ParseStrategy(f.StrategyArg)
	if err != nil {
		fmt.Printf("Invalid strategy specified: %s\n", f.StrategyArg)
		os.Exit(1)
	}
	f.Strategy = strategy
	format, err := gofabric.ParseFormat(f.FormatArg)
	if err != nil {
		fmt.Printf("Invalid format specified: %s\n", f.FormatArg)
		os.Exit(1)
	}
	f.Format = format
}
