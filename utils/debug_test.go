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
package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blinklabs-io/gofabric/utils"
)

func TestDumpStructure(t *testing.T) {
	doc := map[string]any{
		"number": uint64(5),
		"data": []any{
			[]byte{0x01, 0x02},
			"put",
		},
	}
	expected := "{\n" +
		"  \"data\" =>\n" +
		"    [\n" +
		"      <bytes> (length 2),\n" +
		"      \"put\",\n" +
		"    ],\n" +
		"  \"number\" =>\n" +
		"    0x5 (5),\n" +
		"},\n"
	assert.Equal(t, expected, utils.DumpStructure(doc, ""))
}

func TestDumpStructureScalar(t *testing.T) {
	assert.Equal(t, "> true,\n", utils.DumpStructure(true, "> "))
}
