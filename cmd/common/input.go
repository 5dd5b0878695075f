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
package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text logger writing to stderr
func NewLogger(f *GlobalFlags) *slog.Logger {
	level := slog.LevelInfo
	if f.Debug {
		level = slog.LevelDebug
	}
	return slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	)
}

// ReadBlocks reads the blocks named by the -file flag and any remaining
// arguments, or a single block from stdin when neither is given
func ReadBlocks(f *GlobalFlags) ([][]byte, error) {
	var paths []string
	if f.File != "" {
		paths = append(paths, f.File)
	}
	paths = append(paths, f.Flagset.Args()...)
	var ret [][]byte
	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		block, err := decodeInput(data, f.Hex)
		if err != nil {
			return nil, err
		}
		return append(ret, block), nil
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		block, err := decodeInput(data, f.Hex)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ret = append(ret, block)
	}
	return ret, nil
}

func decodeInput(data []byte, isHex bool) ([]byte, error) {
	if !isHex {
		return data, nil
	}
	ret, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex input: %w", err)
	}
	return ret, nil
}
