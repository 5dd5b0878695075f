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
package pipeline
package pipeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

// DecodePool decodes block items on a fixed number of workers. Decoded items
// are forwarded in completion order, or in submission order when the pool is
// ordered. Submission order is the item sequence number, starting from 0.
type DecodePool struct {
	stage      *DecodeStage
	numWorkers int
	ordered    bool
	input      <-chan *BlockItem
	output     chan<- *BlockItem
	metrics    *PipelineMetrics

	// Items leave the workers here and are forwarded by the collector
	decoded  chan *BlockItem
	inFlight atomic.Int64
	wg       sync.WaitGroup
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// DecodePoolConfig holds configuration for creating a DecodePool.
type DecodePoolConfig struct {
	// Stage decodes each block (required, panics if nil).
	Stage *DecodeStage
	// NumWorkers is the number of parallel workers; defaults to 1 if <= 0.
	NumWorkers int
	// Ordered forwards items in sequence number order
	Ordered bool
	// Input is the channel to receive block items from.
	Input <-chan *BlockItem
	// Output is the channel to send decoded items to.
	Output chan<- *BlockItem
	// Metrics records every decode attempt. If nil, nothing is recorded.
	Metrics *PipelineMetrics
}

// NewDecodePool creates a new decode pool.
func NewDecodePool(config DecodePoolConfig) *DecodePool {
	if config.Stage == nil {
		panic(ErrNilStage)
	}
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &DecodePool{
		stage:      config.Stage,
		numWorkers: numWorkers,
		ordered:    config.Ordered,
		input:      config.Input,
		output:     config.Output,
		metrics:    config.Metrics,
		decoded:    make(chan *BlockItem, numWorkers),
		done:       make(chan struct{}),
	}
}

// Start starts the workers and the collector. Calling it more than once has
// no effect.
func (p *DecodePool) Start(ctx context.Context) {
	if p.started.Swap(true) {
		return
	}
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	go p.collect(ctx)
}

// Stop waits for the workers to finish and for every decoded item to be
// forwarded. The input channel must be closed or the context cancelled first.
func (p *DecodePool) Stop() {
	if !p.started.Load() {
		return
	}
	p.stopOnce.Do(func() {
		p.wg.Wait()
		close(p.decoded)
	})
	<-p.done
}

// InFlight returns the number of items taken from the input which have not
// yet been forwarded
func (p *DecodePool) InFlight() int {
	return int(p.inFlight.Load())
}

func (p *DecodePool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-p.input:
			if !ok {
				return
			}
			p.inFlight.Add(1)
			err := p.stage.Process(ctx, item)
			// Blocks skipped because of cancellation were never decoded
			if p.metrics != nil &&
				!errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded) {
				p.metrics.RecordDecode(item.DecodeDuration(), err)
			}
			// The collector always drains this channel
			p.decoded <- item
		}
	}
}

// collect forwards decoded items to the output. In ordered mode an item is
// held until every item before it has been forwarded. Items still held once
// the workers finish are those behind a block skipped by cancellation, and
// are flushed in order.
func (p *DecodePool) collect(ctx context.Context) {
	defer close(p.done)

	var next uint64
	held := map[uint64]*BlockItem{}
	dropping := false
	forward := func(item *BlockItem) {
		defer p.inFlight.Add(-1)
		if dropping {
			return
		}
		select {
		case p.output <- item:
		case <-ctx.Done():
			// Nobody is reading results after a stop
			dropping = true
		}
	}

	for item := range p.decoded {
		if !p.ordered {
			forward(item)
			continue
		}
		held[item.SequenceNumber()] = item
		for {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			forward(ready)
		}
	}

	seqs := lo.Keys(held)
	slices.Sort(seqs)
	for _, seq := range seqs {
		forward(held[seq])
	}
}
