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
// Package pipeline provides a concurrent block decoding pipeline.
// Blocks are independent, so any number of them may be decoded in parallel
// as long as each decode uses its own document.
package pipeline

import (
	"time"

	"github.com/blinklabs-io/gofabric/object"
)

// Decoder is the block decoding capability used by the decode stage
type Decoder interface {
	DecodeBlock(data []byte) (object.Object, error)
}

// PipelineStats contains statistics about pipeline performance.
type PipelineStats struct {
	// BlocksSubmitted is the total number of blocks submitted to the pipeline.
	BlocksSubmitted uint64
	// BlocksDecoded is the total number of blocks successfully decoded.
	BlocksDecoded uint64
	// DecodeErrors is the total number of decode errors.
	DecodeErrors uint64
	// DecodeTime is the total time spent decoding across all workers.
	DecodeTime time.Duration

	// CurrentQueueDepth is the current number of blocks waiting to be decoded.
	CurrentQueueDepth int
	// PeakQueueDepth is the maximum queue depth observed.
	PeakQueueDepth int

	// LastBlockTime is the time the last block was decoded.
	LastBlockTime time.Time
	// StartTime is when the pipeline was started.
	StartTime time.Time
}
