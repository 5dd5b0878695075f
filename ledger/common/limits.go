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

// Recursion ceilings. They bound the work done on malformed or adversarial
// input and are not meant to be tuned.
const (
	// MaxMapDepth bounds map reassembly in the typed decoder
	MaxMapDepth = 10000
	// MaxHeuristicDepth bounds the schema inference decoder
	MaxHeuristicDepth = 100
)
