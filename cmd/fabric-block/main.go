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
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	"github.com/blinklabs-io/gofabric"
	"github.com/blinklabs-io/gofabric/cmd/common"
	"github.com/blinklabs-io/gofabric/ledger"
	"github.com/blinklabs-io/gofabric/utils"
)

type fabricBlockFlags struct {
	*common.GlobalFlags
	query   string
	dump    bool
	hash    bool
	summary bool
	workers int
}

func main() {
	// Parse commandline
	f := fabricBlockFlags{
		GlobalFlags: common.NewGlobalFlags(),
	}
	f.Flagset.StringVar(&f.query, "query", "", "only output the value at this path, such as data.data.0.payload.header")
	f.Flagset.BoolVar(&f.dump, "dump", false, "output an indented structure dump instead of a document")
	f.Flagset.BoolVar(&f.hash, "hash", false, "output the block header hash")
	f.Flagset.BoolVar(&f.summary, "summary", false, "output a block summary")
	f.Flagset.IntVar(&f.workers, "workers", runtime.NumCPU(), "number of blocks to decode in parallel")
	f.Parse()
	logger := common.NewLogger(f.GlobalFlags)

	blocks, err := common.ReadBlocks(f.GlobalFlags)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}

	if f.hash || f.summary {
		decoder := ledger.NewDecoder(ledger.WithLogger(logger))
		for _, block := range blocks {
			summary, err := decoder.Summarize(block)
			if err != nil {
				fmt.Printf("ERROR: failed to decode block: %s\n", err)
				os.Exit(1)
			}
			if f.hash {
				fmt.Printf("block_number = %d, hash = %s\n", summary.Number, hex.EncodeToString(summary.Hash))
				continue
			}
			output(summary, f)
		}
		return
	}

	decoder := gofabric.New(
		gofabric.WithStrategy(f.Strategy),
		gofabric.WithLogger(logger),
	)
	results, err := gofabric.DecodeBlocks(context.Background(), decoder, blocks, f.workers)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	failed := false
	for idx, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: failed to decode block %d: %s\n", idx, res.Err)
			failed = true
			continue
		}
		if f.dump {
			fmt.Print(utils.DumpStructure(res.Document, ""))
			continue
		}
		var doc any = res.Document
		if f.query != "" {
			val, ok, err := gofabric.Query(res.Document, f.query)
			if err != nil {
				fmt.Printf("ERROR: failed to query block %d: %s\n", idx, err)
				os.Exit(1)
			}
			if !ok {
				fmt.Fprintf(os.Stderr, "block %d: nothing found at %s\n", idx, f.query)
				continue
			}
			doc = val
		}
		output(doc, f)
	}
	if failed {
		os.Exit(1)
	}
}

func output(doc any, f fabricBlockFlags) {
	data, err := gofabric.EncodeDocument(doc, f.Format)
	if err != nil {
		fmt.Printf("ERROR: failed to encode document: %s\n", err)
		os.Exit(1)
	}
	_, _ = os.Stdout.Write(data)
	if f.Format != gofabric.FormatCBOR {
		fmt.Println()
	}
}
