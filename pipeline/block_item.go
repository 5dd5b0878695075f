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
	"sync"
	"time"

	"github.com/blinklabs-io/gofabric/object"
)

// BlockItem represents a block as it moves through the pipeline.
// It is thread-safe and tracks the result of the decode stage.
type BlockItem struct {
	// Immutable fields (set at construction, never modified)
	// These are unexported to prevent modification; use getter methods.
	raw            []byte
	sequenceNumber uint64
	receivedAt     time.Time

	// Mutable fields protected by mutex
	mu sync.RWMutex

	// Decode stage results
	document       object.Object
	decodeError    error
	decodeDuration time.Duration
}

// NewBlockItem creates a new BlockItem with the given immutable fields.
// The raw slice is copied so the item owns its data.
func NewBlockItem(raw []byte, seq uint64) *BlockItem {
	return &BlockItem{
		raw:            object.Bytes(raw),
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// Raw returns the serialized block.
// The returned slice should not be modified.
func (b *BlockItem) Raw() []byte {
	return b.raw
}

// SequenceNumber returns the sequence number assigned to this block, which is
// its position in submission order
func (b *BlockItem) SequenceNumber() uint64 {
	return b.sequenceNumber
}

// ReceivedAt returns the time when this block was submitted.
func (b *BlockItem) ReceivedAt() time.Time {
	return b.receivedAt
}

// Document returns the decoded block, or nil if not yet decoded or decode failed.
func (b *BlockItem) Document() object.Object {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.document
}

// SetDocument sets the decoded block and decode duration.
// Clears any previously set decode error for consistency.
func (b *BlockItem) SetDocument(doc object.Object, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.document = doc
	b.decodeError = nil
	b.decodeDuration = duration
}

// DecodeError returns the decode error, if any.
func (b *BlockItem) DecodeError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.decodeError
}

// SetDecodeError sets the decode error and duration.
// Clears any previously set document for consistency.
func (b *BlockItem) SetDecodeError(err error, duration time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.document = nil
	b.decodeError = err
	b.decodeDuration = duration
}

// DecodeDuration returns the time spent in the decode stage.
func (b *BlockItem) DecodeDuration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.decodeDuration
}

// IsDecoded returns true if the block has been successfully decoded.
func (b *BlockItem) IsDecoded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.document != nil
}

// TotalDuration returns the total processing time from submission to now.
func (b *BlockItem) TotalDuration() time.Duration {
	return time.Since(b.receivedAt)
}
