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

package object

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFormatDepth bounds recursion in Normalize on pathological input
const MaxFormatDepth = 10000

// Normalize rewrites a document in the intermediate protoc layout into its
// canonical form:
//   - lowerCamel keys become snake_case, keys starting with an upper case
//     letter are kept verbatim
//   - "Map" keys holding Pairs become plain objects, "List" suffixes are dropped
//   - nil leaves are kept as explicit nils
//
// Normalizing an already normalized document returns an equal document.
// Descent stops at MaxFormatDepth, leaving the remainder as-is.
func Normalize(v any, logger *slog.Logger) any {
	if logger == nil {
		logger = slog.Default()
	}
	n := &normalizer{logger: logger}
	return n.format(v, 0)
}

type normalizer struct {
	logger  *slog.Logger
	tripped bool
}

func (n *normalizer) format(v any, depth int) any {
	if depth > MaxFormatDepth {
		if !n.tripped {
			n.logger.Error(
				"maximum structure depth exceeded, leaving remainder unformatted",
				"component", "normalize",
				"depth", depth,
			)
			n.tripped = true
		}
		return v
	}
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		if t == nil {
			return nil
		}
		ret := make(map[string]any, len(t))
		for key, val := range t {
			ret[normalizeKey(key, val)] = n.format(val, depth+1)
		}
		return ret
	case Pairs:
		ret := make(map[string]any, len(t))
		for _, pair := range t {
			// Later entries win on duplicate keys
			ret[SnakeCase(pair.Key)] = n.format(pair.Value, depth+1)
		}
		return ret
	case []any:
		if t == nil {
			return nil
		}
		ret := make([]any, len(t))
		for i, item := range t {
			ret[i] = n.format(item, depth+1)
		}
		return ret
	case []byte:
		if t == nil {
			return nil
		}
		return t
	default:
		return v
	}
}

func normalizeKey(key string, val any) string {
	switch val.(type) {
	case Pairs:
		if trimmed, ok := strings.CutSuffix(key, MapSuffix); ok && trimmed != "" {
			key = trimmed
		}
	case []any:
		if trimmed, ok := strings.CutSuffix(key, ListSuffix); ok && trimmed != "" {
			key = trimmed
		}
	}
	return SnakeCase(key)
}

// SnakeCase converts a lowerCamel key to snake_case. Keys starting with an
// upper case letter, such as organization names, are returned unchanged.
func SnakeCase(key string) string {
	first, _ := utf8.DecodeRuneInString(key)
	if first == utf8.RuneError || unicode.IsUpper(first) {
		return key
	}
	var sb strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			sb.WriteByte('_')
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
