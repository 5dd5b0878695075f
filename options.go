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
	"log/slog"

	"github.com/blinklabs-io/gofabric/registry"
)

type config struct {
	strategy Strategy
	logger   *slog.Logger
	registry *registry.Registry
}

type OptionFunc func(*config)

// WithStrategy specifies the decoder implementation. The default is StrategyExplicit
func WithStrategy(strategy Strategy) OptionFunc {
	return func(c *config) {
		c.strategy = strategy
	}
}

// WithLogger specifies the logger for decode diagnostics
func WithLogger(logger *slog.Logger) OptionFunc {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRegistry specifies the schema registry
func WithRegistry(reg *registry.Registry) OptionFunc {
	return func(c *config) {
		c.registry = reg
	}
}
