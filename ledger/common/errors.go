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
	"errors"
	"fmt"
)

// ErrMissingBlockData is returned when a block has no data section. It is the
// only condition which fails a block decode outright.
var ErrMissingBlockData = errors.New("block has no data section")

// DecodeError indicates that bytes could not be decoded as the given message
type DecodeError struct {
	Message string
	Err     error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Message, e.Err)
}

func (e DecodeError) Unwrap() error { return e.Err }

// UnsupportedError indicates a recognized value which is deliberately not decoded
type UnsupportedError struct {
	Kind  string
	Value string
}

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Kind, e.Value)
}

// ErrUnsupported is the sentinel matched by every UnsupportedError
var ErrUnsupported = errors.New("unsupported")

func (UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
