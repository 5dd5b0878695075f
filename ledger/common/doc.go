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

// Package common holds the pieces shared by the typed and heuristic block
// decoders: config value keys and their message types, recursion ceilings,
// and the error types.
//
// # Error handling
//
// Only ErrMissingBlockData fails a block decode. Every other failure is
// local: the decoders log it and keep the value in its last known form (raw
// bytes in the typed decoder, base64 text in the heuristic decoder), so a
// decoded document may mix decoded structures with undecoded leaves.
package common
