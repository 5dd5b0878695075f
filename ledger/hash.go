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

package ledger

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// BlockHeaderHash computes the hash of a block header, which is the SHA-256
// of the DER encoding of SEQUENCE { number, previous hash, data hash }. This
// is the value the next block carries as its previous hash.
func BlockHeaderHash(number uint64, previousHash []byte, dataHash []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Uint64(number)
		b.AddASN1OctetString(previousHash)
		b.AddASN1OctetString(dataHash)
	})
	headerBytes, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode block header: %w", err)
	}
	sum := sha256.Sum256(headerBytes)
	return sum[:], nil
}
