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

// Package object provides the generic document tree produced by the block
// decoders, along with conversion from protobuf messages and normalization
// into the canonical snake_case form.
//
// Decoders build documents in two stages. The intermediate form mirrors the
// classic protoc object layout: lowerCamel field names, repeated fields keyed
// with a "List" suffix and map fields keyed with a "Map" suffix holding
// ordered key/value Pairs. Normalize rewrites that into the final form.
package object

import (
	"strings"
	"unicode"
)

const (
	// MapSuffix marks a key holding protobuf map entries as Pairs
	MapSuffix = "Map"
	// ListSuffix marks a key holding a repeated field
	ListSuffix = "List"
)

// Object is a decoded message. It is an alias so that documents which were
// round-tripped through encoding/json are handled the same way.
type Object = map[string]any

// Pair is a single protobuf map entry in wire form
type Pair struct {
	Key   string
	Value any
}

// Pairs holds the entries of a protobuf map field before reassembly
type Pairs []Pair

// Get returns the value for the last entry with the given key
func (p Pairs) Get(key string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// Bytes returns a non-nil copy of b, so that empty byte fields render as an
// empty string rather than null
func Bytes(b []byte) []byte {
	ret := make([]byte, len(b))
	copy(ret, b)
	return ret
}

// TitleCase converts a field or map key name to the form used for protobuf
// message names: "channel_header" becomes "ChannelHeader" and "orderers"
// becomes "Orderers"
func TitleCase(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Clone returns a deep copy of v with nil object entries dropped. Values
// which are not part of a document tree are returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return nil
		}
		ret := make(map[string]any, len(t))
		for key, val := range t {
			if isNil(val) {
				continue
			}
			ret[key] = Clone(val)
		}
		return ret
	case Pairs:
		ret := make(Pairs, 0, len(t))
		for _, pair := range t {
			if isNil(pair.Value) {
				continue
			}
			ret = append(ret, Pair{Key: pair.Key, Value: Clone(pair.Value)})
		}
		return ret
	case []any:
		ret := make([]any, len(t))
		for i, item := range t {
			ret[i] = Clone(item)
		}
		return ret
	case []byte:
		return Bytes(t)
	default:
		return v
	}
}

func isNil(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return t == nil
	case []any:
		return t == nil
	case []byte:
		return t == nil
	}
	return false
}
