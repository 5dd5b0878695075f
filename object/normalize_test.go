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
package object_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/gofabric/internal/test"
	"github.com/blinklabs-io/gofabric/object"
)

func TestSnakeCase(t *testing.T) {
	testDefs := []struct {
		key      string
		expected string
	}{
		{key: "channelHeader", expected: "channel_header"},
		{key: "txId", expected: "tx_id"},
		{key: "nOutOf", expected: "n_out_of"},
		{key: "data", expected: "data"},
		{key: "Org1MSP", expected: "Org1MSP"},
		{key: "BatchSize", expected: "BatchSize"},
		{key: "already_snake", expected: "already_snake"},
		{key: "", expected: ""},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, object.SnakeCase(testDef.key), "key %q", testDef.key)
	}
}

func TestNormalize(t *testing.T) {
	src := object.Object{
		"channelHeader": object.Object{"txId": "abc", "tlsCertHash": []byte{}},
		"groupsMap": object.Pairs{
			{Key: "Org1MSP", Value: object.Object{"modPolicy": "Admins"}},
			{Key: "Org2MSP", Value: object.Object{"modPolicy": "Readers"}},
		},
		"writesList": []any{object.Object{"isDelete": false}},
		"lastUpdate": nil,
		"List":       []any{},
	}
	expected := map[string]any{
		"channel_header": map[string]any{"tx_id": "abc", "tls_cert_hash": []byte{}},
		"groups": map[string]any{
			"Org1MSP": map[string]any{"mod_policy": "Admins"},
			"Org2MSP": map[string]any{"mod_policy": "Readers"},
		},
		"writes":      []any{map[string]any{"is_delete": false}},
		"last_update": nil,
		"List":        []any{},
	}
	normalized := object.Normalize(src, nil)
	assert.Equal(t, expected, normalized)
	// Normalizing twice changes nothing
	assert.Equal(t, normalized, object.Normalize(normalized, nil))
}

func TestNormalizeSuffixOnlyWithMatchingValue(t *testing.T) {
	src := object.Object{
		"fooList": "not a list",
		"barMap":  object.Object{"a": int32(1)},
	}
	assert.Equal(
		t,
		map[string]any{
			"foo_list": "not a list",
			"bar_map":  map[string]any{"a": int32(1)},
		},
		object.Normalize(src, nil),
	)
}

func TestNormalizeDuplicatePairs(t *testing.T) {
	src := object.Object{
		"valuesMap": object.Pairs{
			{Key: "key", Value: "first"},
			{Key: "key", Value: "second"},
		},
	}
	assert.Equal(
		t,
		map[string]any{"values": map[string]any{"key": "second"}},
		object.Normalize(src, nil),
	)
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, object.Normalize(nil, nil))
	var nilMap map[string]any
	assert.Nil(t, object.Normalize(nilMap, nil))
	var nilList []any
	assert.Nil(t, object.Normalize(nilList, nil))
}

func TestNormalizeDepthLimit(t *testing.T) {
	logger, logs := test.NewBufferLogger()
	root := object.Object{}
	cur := root
	for range object.MaxFormatDepth + 10 {
		next := object.Object{}
		cur["childValue"] = next
		cur = next
	}
	normalized, ok := object.Normalize(root, logger).(map[string]any)
	require.True(t, ok)
	assert.Contains(t, normalized, "child_value")
	assert.Equal(
		t,
		1,
		strings.Count(logs.String(), "maximum structure depth exceeded"),
	)
	assert.Contains(t, logs.String(), "level=ERROR")
}
