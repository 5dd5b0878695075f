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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/blinklabs-io/gofabric/cbor"
)

// Format is a document serialization format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat returns the format with the given name
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown document format: %s", name)
}

// EncodeDocument serializes a decoded document. JSON is indented and renders
// bytes as base64. YAML is rendered from the JSON form so both agree on the
// representation of bytes and numbers. CBOR keeps bytes as byte strings.
func EncodeDocument(doc any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		tmp, err := jsonValue(doc)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(tmp)
	case FormatCBOR:
		return cbor.Encode(doc)
	}
	return nil, fmt.Errorf("unknown document format: %s", format)
}

// jsonValue converts a document to its generic JSON form
func jsonValue(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	// Keep 64-bit integers exact
	dec.UseNumber()
	var ret any
	if err := dec.Decode(&ret); err != nil {
		return nil, err
	}
	return numberValues(ret), nil
}

// numberValues replaces every json.Number in a generic JSON value with the
// narrowest of int64, uint64 or float64 that holds it, which YAML renders as
// a plain number rather than a string
func numberValues(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = numberValues(item)
		}
	case []any:
		for i, item := range v {
			v[i] = numberValues(item)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return n
		}
		if n, err := v.Float64(); err == nil {
			return n
		}
		return v.String()
	}
	return v
}

// Query returns the value at a gjson path within the JSON form of a document,
// such as "data.data.0.payload.header.channel_header.tx_id". The second return
// value is false if nothing exists at the path.
func Query(doc any, path string) (any, bool, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, false, err
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, false, nil
	}
	return res.Value(), true, nil
}
