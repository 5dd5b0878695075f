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

// Package heuristic implements a block decoder which infers the schema of
// every undecoded binary field at runtime instead of hard-coding it.
//
// The decoder visits every field of a shallowly decoded block. A field still
// holding bytes is resolved to a message type by a small table of
// context-sensitive overrides, then by searching the schema registry for a
// message named after the field. Bytes which cannot be resolved are left as
// base64 text, so decoding always completes.
//
// Output uses proto field names, native maps and enum value names, with
// sequence, version and migration_context rendered as decimal strings to
// match configtxlator.
package heuristic

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
	"github.com/blinklabs-io/gofabric/registry"
)

const blockMessageName protoreflect.FullName = "common.Block"

// Decoder decodes Fabric blocks by schema inference. It holds no per-block
// state and is safe for concurrent use.
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

// WithRegistry specifies the schema registry used to resolve field types
func WithRegistry(reg *registry.Registry) DecoderOptionFunc {
	return func(d *Decoder) {
		d.registry = reg
	}
}

// NewDecoder returns a heuristic block decoder
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
	d.logger = d.logger.With("component", "heuristic")
	return d
}

// DecodeBlock decodes a serialized block into a document. A block without a
// data section returns common.ErrMissingBlockData.
func (d *Decoder) DecodeBlock(data []byte) (object.Object, error) {
	msg, err := d.registry.NewMessage(blockMessageName)
	if err != nil {
		return nil, err
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to decode block: %w", err)
	}
	blockFields := msg.ProtoReflect().Descriptor().Fields()
	if !msg.ProtoReflect().Has(blockFields.ByName("data")) {
		return nil, common.ErrMissingBlockData
	}
	block := object.FromMessage(msg, object.StyleProto)
	d.FindBinary(block, "")
	return block, nil
}

// FindBinary decodes every binary field found in v, which is modified in
// place. The path is the dot separated location of v within the document.
func (d *Decoder) FindBinary(v any, path string) {
	w := &walker{decoder: d}
	w.walk(v, path, 0)
}

type walker struct {
	decoder *Decoder
	tripped bool
}

func (w *walker) walk(v any, path string, depth int) {
	if depth > common.MaxHeuristicDepth {
		if !w.tripped {
			w.decoder.logger.Error(
				"maximum decode depth exceeded, leaving remainder undecoded",
				"path", path,
				"depth", depth,
			)
			w.tripped = true
		}
		return
	}
	switch t := v.(type) {
	case map[string]any:
		for _, key := range fieldOrder(t) {
			fieldPath := joinPath(path, key)
			switch val := t[key].(type) {
			case []byte:
				t[key] = w.resolve(key, val, t, fieldPath, depth)
			case []any:
				for i, item := range val {
					itemPath := joinPath(fieldPath, strconv.Itoa(i))
					if raw, ok := item.([]byte); ok {
						val[i] = w.resolve(key, raw, t, itemPath, depth)
						continue
					}
					w.walk(item, itemPath, depth+1)
				}
			default:
				w.walk(val, fieldPath, depth+1)
			}
			coerce(t, key)
		}
	case []any:
		for i, item := range t {
			w.walk(item, joinPath(path, strconv.Itoa(i)), depth+1)
		}
	}
}

// resolve decodes the bytes held by a field and returns its replacement value
func (w *walker) resolve(
	field string,
	raw []byte,
	parent object.Object,
	path string,
	depth int,
) any {
	if len(raw) == 0 {
		return ""
	}
	res := w.decoder.FindMatchingMessageName(field, parent, path)
	switch res.Action {
	case ActionText:
		return asText(raw)
	case ActionDecode:
		msg, err := w.decoder.registry.Unmarshal(res.Message, raw)
		if err != nil {
			w.decoder.logger.Debug(
				"failed to decode field, leaving as base64",
				"path", path,
				"message", res.Message,
				"error", err,
			)
			return base64.StdEncoding.EncodeToString(raw)
		}
		decoded := object.FromMessage(msg, object.StyleProto)
		w.walk(decoded, path, depth+1)
		return decoded
	}
	return base64.StdEncoding.EncodeToString(raw)
}

// fieldOrder returns the keys of an object with "header" first, as the type of
// a payload's data depends on its decoded header
func fieldOrder(obj object.Object) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == "header":
			return -1
		case b == "header":
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

func joinPath(path string, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// coerce renders the numeric fields configtxlator emits as strings
func coerce(obj object.Object, key string) {
	switch key {
	case "sequence", "migration_context":
	case "version":
		// The version of a signature policy envelope stays numeric
		if _, ok := obj["rule"]; ok {
			return
		}
	default:
		return
	}
	switch obj[key].(type) {
	case int32, int64, uint32, uint64:
		obj[key] = cast.ToString(obj[key])
	}
}
