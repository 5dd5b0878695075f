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
// Package gofabric decodes Hyperledger Fabric blocks into self-describing
// documents.
//
// Two decoders share a BlockDecoder interface. The explicit decoder in package
// ledger follows a fixed table of Fabric message types and produces snake_case
// documents. The heuristic decoder in package heuristic infers the type of each
// undecoded field from its name and context and produces documents shaped like
// configtxlator output.
//
// Decoding is best effort: fields which cannot be decoded keep their bytes and
// the remainder of the block is still decoded. The only error a block decode
// returns for a well formed block is common.ErrMissingBlockData.
package gofabric

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/gofabric/heuristic"
	"github.com/blinklabs-io/gofabric/ledger"
	"github.com/blinklabs-io/gofabric/object"
	"github.com/blinklabs-io/gofabric/registry"
)

// BlockDecoder decodes a serialized block into a document
type BlockDecoder interface {
	DecodeBlock(data []byte) (object.Object, error)
}

// Strategy selects the block decoder implementation
type Strategy int

const (
	// StrategyExplicit decodes with the fixed Fabric type table
	StrategyExplicit Strategy = iota
	// StrategyHeuristic decodes by inferring field types at runtime
	StrategyHeuristic
)

var strategyNames = map[Strategy]string{
	StrategyExplicit:  "explicit",
	StrategyHeuristic: "heuristic",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy returns the strategy with the given name
func ParseStrategy(name string) (Strategy, error) {
	for strategy, strategyName := range strategyNames {
		if strategyName == name {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("unknown decode strategy: %s", name)
}

// New returns a block decoder for the configured strategy
func New(opts ...OptionFunc) BlockDecoder {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.registry == nil {
		c.registry = registry.Default()
	}
	if c.strategy == StrategyHeuristic {
		return heuristic.NewDecoder(
			heuristic.WithLogger(c.logger),
			heuristic.WithRegistry(c.registry),
		)
	}
	return ledger.NewDecoder(
		ledger.WithLogger(c.logger),
		ledger.WithRegistry(c.registry),
	)
}
