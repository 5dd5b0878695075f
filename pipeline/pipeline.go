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

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrPipelineStopped is returned when trying to submit to a stopped pipeline.
var ErrPipelineStopped = errors.New("pipeline is stopped")

// ErrPipelineNotStarted is returned when trying to use a pipeline that hasn't been started.
var ErrPipelineNotStarted = errors.New("pipeline not started")

// closedResultsChan is a closed channel returned by Results() before Start() is called.
// This prevents callers from blocking indefinitely on a nil channel.
var closedResultsChan = func() <-chan *BlockItem {
	ch := make(chan *BlockItem)
	close(ch)
	return ch
}()

// BlockPipeline decodes submitted blocks on a pool of workers. Results are
// delivered in completion order unless ordered results were requested;
// BlockItem.SequenceNumber is the submission order either way.
type BlockPipeline struct {
	config  PipelineConfig
	decoder Decoder

	decodeStage *DecodeStage
	decodePool  *DecodePool

	// Channels
	submitChan  chan *BlockItem
	resultsChan chan *BlockItem

	// Metrics
	metrics *PipelineMetrics

	// State
	sequenceCounter uint64
	ctx             context.Context
	cancel          context.CancelFunc
	started         atomic.Bool
	stopped         atomic.Bool
	wg              sync.WaitGroup
	mu              sync.Mutex   // protects Start/Stop
	submitMu        sync.RWMutex // protects Submit against concurrent Stop
}

// NewBlockPipeline creates a new BlockPipeline using functional options.
//
// Example:
//
//	p := NewBlockPipeline(
//	    ledger.NewDecoder(),
//	    WithDecodeWorkers(4),
//	)
func NewBlockPipeline(decoder Decoder, opts ...PipelineOption) *BlockPipeline {
	config := DefaultPipelineConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &BlockPipeline{
		config:  config,
		decoder: decoder,
		metrics: NewPipelineMetrics(),
	}
}

// Start starts the pipeline processing.
func (p *BlockPipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped.Load() {
		return ErrPipelineStopped
	}

	if p.started.Load() {
		return nil // Already started
	}

	if p.decoder == nil {
		return ErrNilDecoder
	}

	// Create cancellable context
	p.ctx, p.cancel = context.WithCancel(ctx)

	// Create channels
	p.submitChan = make(chan *BlockItem, p.config.BufferSize)
	p.resultsChan = make(chan *BlockItem, p.config.BufferSize)

	p.decodeStage = NewDecodeStage(p.decoder)
	p.decodePool = NewDecodePool(DecodePoolConfig{
		Stage:      p.decodeStage,
		NumWorkers: p.config.DecodeWorkers,
		Ordered:    p.config.OrderedResults,
		Input:      p.submitChan,
		Output:     p.resultsChan,
		Metrics:    p.metrics,
	})

	// Note: p.ctx is derived from the passed ctx via context.WithCancel above
	p.decodePool.Start(p.ctx) //nolint:contextcheck

	// Start metrics collection goroutine
	p.wg.Add(1)
	go p.metricsCollector()

	p.started.Store(true)
	return nil
}

// Submit submits a new block for processing.
// This method is safe to call concurrently with Stop().
// The context allows callers to handle timeouts or cancellations when the
// pipeline is full and applying backpressure.
func (p *BlockPipeline) Submit(ctx context.Context, raw []byte) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}

	// RLock allows concurrent submits while preventing races with Stop().
	// Stop() waits until all in-flight submits complete before closing the channel.
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.stopped.Load() {
		return ErrPipelineStopped
	}

	item := NewBlockItem(raw, atomic.AddUint64(&p.sequenceCounter, 1)-1)

	select {
	case p.submitChan <- item:
		p.metrics.RecordSubmit()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPipelineStopped
	}
}

// Results returns a channel of processed block items, including items which
// failed to decode. The channel is closed once the pipeline is closed or
// stopped. If the pipeline has not been started, returns a closed channel.
func (p *BlockPipeline) Results() <-chan *BlockItem {
	if !p.started.Load() {
		return closedResultsChan
	}
	return p.resultsChan
}

// Close stops accepting blocks and waits for every submitted block to be
// decoded. Results must be consumed concurrently or Close may block.
func (p *BlockPipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started.Load() || p.stopped.Load() {
		return nil
	}

	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitChan)
	p.submitMu.Unlock()

	// Workers exit once the submit channel is drained, and the pool returns
	// once every decoded block has been delivered
	p.decodePool.Stop()
	close(p.resultsChan)

	p.cancel()
	p.wg.Wait()
	return nil
}

// Stop stops the pipeline without waiting for queued blocks to be decoded.
func (p *BlockPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started.Load() || p.stopped.Load() {
		return nil
	}

	// Cancel context FIRST to unblock any Submit() calls waiting on channel send.
	// Submit() holds RLock while blocking on channel, and we need it to unblock
	// via ctx.Done() before we can acquire the write lock.
	p.cancel()

	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitChan)
	p.submitMu.Unlock()

	p.decodePool.Stop()
	close(p.resultsChan)

	p.wg.Wait()
	return nil
}

// Stats returns the current pipeline statistics.
func (p *BlockPipeline) Stats() PipelineStats {
	return p.metrics.Stats()
}

// PendingCount returns the approximate number of submitted blocks whose
// results have not yet been delivered.
func (p *BlockPipeline) PendingCount() int {
	if !p.started.Load() {
		return 0
	}
	return len(p.submitChan) + p.decodePool.InFlight()
}

// metricsCollector tracks the queue depth of the pipeline.
func (p *BlockPipeline) metricsCollector() {
	defer p.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.metrics.UpdateQueueDepth(len(p.submitChan))
		}
	}
}
