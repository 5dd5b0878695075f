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
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blinklabs-io/gofabric/object"
)

var errTestDecode = errors.New("decode failed")

// testDecoder decodes a block to a document holding its bytes as a string and
// fails for empty blocks
type testDecoder struct {
	calls atomic.Int64
	delay time.Duration
}

func (d *testDecoder) DecodeBlock(data []byte) (object.Object, error) {
	d.calls.Add(1)
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if len(data) == 0 {
		return nil, errTestDecode
	}
	return object.Object{"raw": string(data)}, nil
}

// ============================================================================
// BlockItem tests
// ============================================================================

func TestBlockItem_NewBlockItem(t *testing.T) {
	raw := []byte{0x0a, 0x00}
	item := NewBlockItem(raw, 42)

	assert.Equal(t, raw, item.Raw())
	assert.Equal(t, uint64(42), item.SequenceNumber())
	assert.False(t, item.ReceivedAt().IsZero())

	// The item owns its data
	raw[0] = 0xff
	assert.Equal(t, byte(0x0a), item.Raw()[0])
}

func TestBlockItem_SetDocument(t *testing.T) {
	item := NewBlockItem([]byte{0x01}, 1)

	assert.Nil(t, item.Document())
	assert.False(t, item.IsDecoded())

	item.SetDecodeError(errTestDecode, time.Millisecond)
	item.SetDocument(object.Object{"a": 1}, 50*time.Millisecond)

	assert.True(t, item.IsDecoded())
	assert.NoError(t, item.DecodeError())
	assert.Equal(t, 50*time.Millisecond, item.DecodeDuration())
}

func TestBlockItem_SetDecodeError(t *testing.T) {
	item := NewBlockItem([]byte{0x01}, 1)
	item.SetDocument(object.Object{"a": 1}, time.Millisecond)
	item.SetDecodeError(errTestDecode, 10*time.Millisecond)

	assert.False(t, item.IsDecoded())
	assert.Nil(t, item.Document())
	assert.Equal(t, errTestDecode, item.DecodeError())
	assert.Equal(t, 10*time.Millisecond, item.DecodeDuration())
}

// ============================================================================
// Stage tests
// ============================================================================

func TestDecodeStage_Process(t *testing.T) {
	stage := NewDecodeStage(&testDecoder{})
	assert.Equal(t, "decode", stage.Name())

	item := NewBlockItem([]byte("block"), 0)
	require.NoError(t, stage.Process(context.Background(), item))
	assert.Equal(t, object.Object{"raw": "block"}, item.Document())

	failed := NewBlockItem(nil, 1)
	err := stage.Process(context.Background(), failed)
	assert.ErrorIs(t, err, errTestDecode)
	assert.ErrorIs(t, failed.DecodeError(), errTestDecode)
}

func TestDecodeStage_CancelledContext(t *testing.T) {
	decoder := &testDecoder{}
	stage := NewDecodeStage(decoder)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	item := NewBlockItem([]byte("block"), 0)
	err := stage.Process(ctx, item)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, item.DecodeError(), context.Canceled)
	assert.Equal(t, int64(0), decoder.calls.Load())
}

func TestNewDecodeStage_NilDecoderPanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilDecoder, func() {
		NewDecodeStage(nil)
	})
}

// ============================================================================
// Worker pool tests
// ============================================================================

// seqDecoder decodes blocks holding their sequence number and takes longer
// for earlier blocks, so blocks finish in reverse submission order
type seqDecoder struct {
	total int
}

func (d *seqDecoder) DecodeBlock(data []byte) (object.Object, error) {
	seq, err := strconv.Atoi(string(data))
	if err != nil {
		return nil, err
	}
	time.Sleep(time.Duration(d.total-seq) * 5 * time.Millisecond)
	return object.Object{"seq": seq}, nil
}

func TestDecodePool(t *testing.T) {
	defer goleak.VerifyNone(t)

	input := make(chan *BlockItem, 10)
	output := make(chan *BlockItem, 10)
	metrics := NewPipelineMetrics()
	pool := NewDecodePool(DecodePoolConfig{
		Stage:      NewDecodeStage(&testDecoder{}),
		NumWorkers: 3,
		Input:      input,
		Output:     output,
		Metrics:    metrics,
	})
	pool.Start(context.Background())
	// Start is idempotent
	pool.Start(context.Background())

	for i := 0; i < 5; i++ {
		input <- NewBlockItem([]byte("block"), uint64(i))
	}
	input <- NewBlockItem(nil, 5)
	close(input)
	pool.Stop()
	close(output)

	count := 0
	for range output {
		count++
	}
	assert.Equal(t, 6, count)
	assert.Equal(t, 0, pool.InFlight())
	stats := metrics.Stats()
	assert.Equal(t, uint64(5), stats.BlocksDecoded)
	assert.Equal(t, uint64(1), stats.DecodeErrors)
}

func TestDecodePool_Ordered(t *testing.T) {
	defer goleak.VerifyNone(t)

	const numBlocks = 8
	input := make(chan *BlockItem, numBlocks)
	output := make(chan *BlockItem, numBlocks)
	pool := NewDecodePool(DecodePoolConfig{
		Stage:      NewDecodeStage(&seqDecoder{total: numBlocks}),
		NumWorkers: numBlocks,
		Ordered:    true,
		Input:      input,
		Output:     output,
	})
	pool.Start(context.Background())
	for i := 0; i < numBlocks; i++ {
		input <- NewBlockItem([]byte(strconv.Itoa(i)), uint64(i))
	}
	close(input)
	pool.Stop()
	close(output)

	var seqs []uint64
	for item := range output {
		require.NoError(t, item.DecodeError())
		assert.Equal(t, int(item.SequenceNumber()), item.Document()["seq"])
		seqs = append(seqs, item.SequenceNumber())
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7}, seqs)
}

func TestDecodePool_OrderedFlushesAfterGap(t *testing.T) {
	defer goleak.VerifyNone(t)

	input := make(chan *BlockItem, 3)
	output := make(chan *BlockItem, 3)
	pool := NewDecodePool(DecodePoolConfig{
		Stage:   NewDecodeStage(&testDecoder{}),
		Ordered: true,
		Input:   input,
		Output:  output,
	})
	pool.Start(context.Background())
	// Block 0 never arrives
	input <- NewBlockItem([]byte("b"), 2)
	input <- NewBlockItem([]byte("a"), 1)
	close(input)
	pool.Stop()
	close(output)

	var seqs []uint64
	for item := range output {
		seqs = append(seqs, item.SequenceNumber())
	}
	assert.Equal(t, []uint64{1, 2}, seqs)
}

func TestNewDecodePool_NilStagePanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilStage, func() {
		NewDecodePool(DecodePoolConfig{})
	})
}

func TestDecodePool_StopBeforeStart(t *testing.T) {
	pool := NewDecodePool(DecodePoolConfig{Stage: NewDecodeStage(&testDecoder{})})
	pool.Stop()
	assert.Equal(t, 0, pool.InFlight())
}

// ============================================================================
// Pipeline tests
// ============================================================================

func TestBlockPipeline_DecodesAllBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewBlockPipeline(&testDecoder{}, WithDecodeWorkers(4), WithBufferSize(8))
	require.NoError(t, p.Start(context.Background()))

	const numBlocks = 50
	go func() {
		defer func() { _ = p.Close() }()
		for i := 0; i < numBlocks; i++ {
			if err := p.Submit(context.Background(), []byte(strconv.Itoa(i))); err != nil {
				return
			}
		}
	}()

	docs := make([]object.Object, numBlocks)
	for item := range p.Results() {
		require.NoError(t, item.DecodeError())
		docs[item.SequenceNumber()] = item.Document()
	}
	for i, doc := range docs {
		assert.Equal(t, strconv.Itoa(i), doc["raw"])
	}
	stats := p.Stats()
	assert.Equal(t, uint64(numBlocks), stats.BlocksSubmitted)
	assert.Equal(t, uint64(numBlocks), stats.BlocksDecoded)
	assert.Equal(t, uint64(0), stats.DecodeErrors)
}

func TestBlockPipeline_OrderedResults(t *testing.T) {
	defer goleak.VerifyNone(t)

	const numBlocks = 6
	p := NewBlockPipeline(
		&seqDecoder{total: numBlocks},
		WithDecodeWorkers(numBlocks),
		WithOrderedResults(),
	)
	require.NoError(t, p.Start(context.Background()))
	go func() {
		defer func() { _ = p.Close() }()
		for i := 0; i < numBlocks; i++ {
			if err := p.Submit(context.Background(), []byte(strconv.Itoa(i))); err != nil {
				return
			}
		}
	}()

	next := uint64(0)
	for item := range p.Results() {
		assert.Equal(t, next, item.SequenceNumber())
		next++
	}
	assert.Equal(t, uint64(numBlocks), next)
	assert.Equal(t, 0, p.PendingCount())
}

func TestBlockPipeline_NotStarted(t *testing.T) {
	p := NewBlockPipeline(&testDecoder{})
	assert.ErrorIs(t, p.Submit(context.Background(), []byte{0x01}), ErrPipelineNotStarted)
	_, ok := <-p.Results()
	assert.False(t, ok)
	assert.Equal(t, 0, p.PendingCount())
	assert.NoError(t, p.Stop())
}

func TestBlockPipeline_NilDecoder(t *testing.T) {
	p := NewBlockPipeline(nil)
	assert.ErrorIs(t, p.Start(context.Background()), ErrNilDecoder)
}

func TestBlockPipeline_SubmitAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewBlockPipeline(&testDecoder{})
	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Stop())
	// Stop is idempotent
	require.NoError(t, p.Stop())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Submit(context.Background(), []byte{0x01}), ErrPipelineStopped)
	assert.ErrorIs(t, p.Start(context.Background()), ErrPipelineStopped)
}

func TestBlockPipeline_SubmitContextCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	// A single slow worker and a single buffer slot fill up quickly
	p := NewBlockPipeline(
		&testDecoder{delay: 50 * time.Millisecond},
		WithDecodeWorkers(1),
		WithBufferSize(1),
	)
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	var err error
	for i := 0; i < 10 && err == nil; i++ {
		err = p.Submit(ctx, []byte{0x01})
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ============================================================================
// Options and metrics tests
// ============================================================================

func TestPipelineOptions(t *testing.T) {
	config := DefaultPipelineConfig()
	assert.Positive(t, config.DecodeWorkers)
	assert.Equal(t, DefaultBufferSize, config.BufferSize)

	WithDecodeWorkers(0)(&config)
	WithBufferSize(-1)(&config)
	assert.Positive(t, config.DecodeWorkers)
	assert.Equal(t, DefaultBufferSize, config.BufferSize)

	WithConfig(PipelineConfig{DecodeWorkers: 2, BufferSize: 3})(&config)
	assert.Equal(t, PipelineConfig{DecodeWorkers: 2, BufferSize: 3}, config)

	WithOrderedResults()(&config)
	assert.True(t, config.OrderedResults)
}

func TestPipelineMetrics(t *testing.T) {
	m := NewPipelineMetrics()
	m.RecordSubmit()
	m.RecordSubmit()
	m.RecordDecode(time.Millisecond, nil)
	m.RecordDecode(2*time.Millisecond, errTestDecode)
	m.UpdateQueueDepth(5)
	m.UpdateQueueDepth(2)

	stats := m.Stats()
	assert.Equal(t, uint64(2), stats.BlocksSubmitted)
	assert.Equal(t, uint64(1), stats.BlocksDecoded)
	assert.Equal(t, uint64(1), stats.DecodeErrors)
	assert.Equal(t, 3*time.Millisecond, stats.DecodeTime)
	assert.Equal(t, 2, stats.CurrentQueueDepth)
	assert.Equal(t, 5, stats.PeakQueueDepth)
	assert.False(t, stats.LastBlockTime.IsZero())

	m.Reset()
	stats = m.Stats()
	assert.Equal(t, uint64(0), stats.BlocksSubmitted)
	assert.Equal(t, 0, stats.PeakQueueDepth)
	assert.True(t, stats.LastBlockTime.IsZero())
}
