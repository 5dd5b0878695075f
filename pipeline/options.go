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
	"runtime"
)

// DefaultBufferSize is the default buffer size for the pipeline channels
const DefaultBufferSize = 64

// PipelineConfig holds configuration for a BlockPipeline.
type PipelineConfig struct {
	// DecodeWorkers is the number of parallel decode workers.
	DecodeWorkers int
	// BufferSize is the buffer size for the submit and results channels.
	BufferSize int
	// OrderedResults delivers results in submission order.
	OrderedResults bool
}

// DefaultPipelineConfig returns a PipelineConfig with one decode worker per CPU.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		DecodeWorkers: runtime.NumCPU(),
		BufferSize:    DefaultBufferSize,
	}
}

// PipelineOption is a functional option for configuring a BlockPipeline.
type PipelineOption func(*PipelineConfig)

// WithConfig applies a complete PipelineConfig, replacing all default values.
//
// Note: Options applied after WithConfig will still override the config values.
func WithConfig(config PipelineConfig) PipelineOption {
	return func(c *PipelineConfig) {
		*c = config
	}
}

// WithDecodeWorkers sets the number of decode workers.
func WithDecodeWorkers(n int) PipelineOption {
	return func(c *PipelineConfig) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

// WithBufferSize sets the buffer size for the submit and results channels.
func WithBufferSize(size int) PipelineOption {
	return func(c *PipelineConfig) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

// WithOrderedResults delivers results in submission order. A decoded block is
// held back until every block submitted before it has been delivered.
func WithOrderedResults() PipelineOption {
	return func(c *PipelineConfig) {
		c.OrderedResults = true
	}
}
