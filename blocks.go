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
package gofabric

import (
	"context"
	"errors"

	"github.com/blinklabs-io/gofabric/object"
	"github.com/blinklabs-io/gofabric/pipeline"
)

// errNotDecoded marks blocks which were never decoded because the context
// ended first
var errNotDecoded = errors.New("block was not decoded")

// BlockResult is the outcome of decoding one block
type BlockResult struct {
	Document object.Object
	Err      error
}

// DecodeBlocks decodes independent blocks in parallel on up to workers
// goroutines and returns one result per block in input order. Cancelling the
// context stops new blocks from being decoded; their results carry the
// context error, which is also returned.
func DecodeBlocks(
	ctx context.Context,
	decoder BlockDecoder,
	blocks [][]byte,
	workers int,
) ([]BlockResult, error) {
	results := make([]BlockResult, len(blocks))
	if len(blocks) == 0 {
		return results, nil
	}
	p := pipeline.NewBlockPipeline(
		decoder,
		pipeline.WithDecodeWorkers(workers),
		pipeline.WithBufferSize(len(blocks)),
		pipeline.WithOrderedResults(),
	)
	if err := p.Start(ctx); err != nil {
		return nil, err
	}
	go func() {
		defer func() {
			_ = p.Close()
		}()
		for _, block := range blocks {
			if err := p.Submit(ctx, block); err != nil {
				return
			}
		}
	}()
	// Results arrive in input order, apart from blocks skipped by cancellation
	decoded := make([]bool, len(blocks))
	for item := range p.Results() {
		seq := item.SequenceNumber()
		results[seq] = BlockResult{
			Document: item.Document(),
			Err:      item.DecodeError(),
		}
		decoded[seq] = true
	}
	for i := range results {
		if !decoded[i] {
			results[i].Err = errNotDecoded
			if ctx.Err() != nil {
				results[i].Err = ctx.Err()
			}
		}
	}
	return results, ctx.Err()
}
