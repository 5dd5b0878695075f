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
// Package cbor provides CBOR encoding and decoding of decoded block documents.
//
// It wraps github.com/fxamacker/cbor/v2 with a fixed configuration so that the
// same document always encodes to the same bytes.
//
// # Encoding Rules
//
//  1. Map keys are sorted using the core deterministic ordering
//  2. Byte slices are encoded as CBOR byte strings
//  3. Maps decode to map[string]any, so a decoded document has the same shape
//     as the one that was encoded
package cbor
