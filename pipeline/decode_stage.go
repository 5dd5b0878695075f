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
	"time"
)

// ErrNilStage is returned when a decode pool is created without a stage.
var ErrNilStage = errors.New("pipeline: nil decode stage")

// ErrNilDecoder is returned when a decode stage is created without a decoder.
var ErrNilDecoder = errors.New("pipeline: nil decoder")

// DecodeStage decodes serialized blocks into documents.
type DecodeStage struct {
	decoder Decoder
}

// NewDecodeStage creates a new DecodeStage.
func NewDecodeStage(decoder Decoder) *DecodeStage {
	if decoder == nil {
		panic(ErrNilDecoder)
	}
	return &DecodeStage{
		decoder: decoder,
	}
}

// Name returns the stage name.
func (s *DecodeStage) Name() string {
	return "decode"
}

// Process decodes the serialized block in the block item. A cancelled context
// stops new blocks from being decoded but does not interrupt a decode in
// progress.
func (s *DecodeStage) Process(ctx context.Context, item *BlockItem) error {
	select {
	case <-ctx.Done():
		item.SetDecodeError(ctx.Err(), 0)
		return ctx.Err()
	default:
	}

	start := time.Now()
	doc, err := s.decoder.DecodeBlock(item.Raw())
	duration := time.Since(start)

	if err != nil {
		item.SetDecodeError(err, duration)
		return err
	}

	item.SetDocument(doc, duration)
	return nil
}
