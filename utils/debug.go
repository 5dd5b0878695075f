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
// Package utils provides debugging helpers for decoded block documents
package utils

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// DumpStructure generates an indented string representing a decoded document
// for debugging purposes. Map keys are printed in sorted order.
func DumpStructure(data any, prefix string) string {
	var ret bytes.Buffer
	switch v := data.(type) {
	case int, uint, int32, uint32, int64, uint64:
		return fmt.Sprintf("%s0x%x (%d),\n", prefix, v, v)
	case []byte:
		return fmt.Sprintf("%s<bytes> (length %d),\n", prefix, len(v))
	case []any:
		ret.WriteString(prefix + "[\n")
		newPrefix := childPrefix(prefix)
		for _, val := range v {
			ret.WriteString(DumpStructure(val, newPrefix))
		}
		ret.WriteString(prefix + "],\n")
	case map[string]any:
		ret.WriteString(prefix + "{\n")
		newPrefix := childPrefix(prefix)
		keys := lo.Keys(v)
		slices.Sort(keys)
		for _, key := range keys {
			ret.WriteString(fmt.Sprintf("%s%q =>\n", newPrefix, key))
			ret.WriteString(DumpStructure(v[key], "  "+newPrefix))
		}
		ret.WriteString(prefix + "},\n")
	default:
		return fmt.Sprintf("%s%#v,\n", prefix, v)
	}
	return ret.String()
}

func childPrefix(prefix string) string {
	newPrefix := prefix
	// Override original user-provided prefix
	// This assumes the original prefix won't start with a space
	if len(newPrefix) > 1 && newPrefix[0] != ' ' {
		newPrefix = ""
	}
	// Add 2 more spaces to the new prefix
	return "  " + newPrefix
}
