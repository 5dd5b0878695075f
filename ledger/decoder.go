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

// Package ledger implements the typed Fabric block decoder. Each message
// along the block, envelope, payload and config tree is decoded with its
// generated type, and config values are dispatched by their map key.
package ledger

import (
	"log/slog"

	"github.com/blinklabs-io/gofabric/registry"
)

// Decoder decodes Fabric blocks into normalized documents. It holds no
// per-block state and is safe for concurrent use.
type Decoder struct {
	logger   *slog.Logger
	registry *registry.Registry
}

type DecoderOptionFunc func(*Decoder)

// WithLogger specifies the logger for decode diagnostics
func WithLogger(logger *slog.Logger) DecoderOptionFunc {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// WithRegistry specifies the schema registry used for config values with no
// built-in decoder
func WithRegistry(reg *registry.Registry) DecoderOptionFunc {
	return func(d *Decoder) {
		d.registry = reg
	}
}

// NewDecoder returns a typed block decoder
func NewDecoder(opts ...DecoderOptionFunc) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.registry == nil {
		d.registry = registry.Default()
	}
	d.logger = d.logger.With("component", "ledger")
	return d
}
