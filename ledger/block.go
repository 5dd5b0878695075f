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
	"fmt"

	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	"google.golang.org/protobuf/proto"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

// DecodeBlock decodes a serialized block into a normalized document.
//
// A block without a data section returns common.ErrMissingBlockData. Any
// other failure below the block level is logged and the affected value is
// left undecoded.
func (d *Decoder) DecodeBlock(data []byte) (object.Object, error) {
	var block cb.Block
	if err := proto.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to decode block: %w", err)
	}
	if block.GetData() == nil {
		return nil, common.ErrMissingBlockData
	}
	envelopes := make([]any, 0, len(block.GetData().GetData()))
	for idx, envData := range block.GetData().GetData() {
		env, err := d.DecodeEnvelope(envData)
		if err != nil {
			d.logger.Warn(
				"failed to decode envelope, leaving undecoded",
				"index", idx,
				"error", err,
			)
			envelopes = append(envelopes, object.Bytes(envData))
			continue
		}
		envelopes = append(envelopes, env)
	}
	ret := object.Object{
		"header": decodeBlockHeader(block.GetHeader()),
		"data": object.Object{
			"dataList": envelopes,
		},
		"metadata": object.Object{
			"metadataList": d.decodeBlockMetadata(block.GetMetadata()),
		},
	}
	d.DecodeMapValueKeys(ret)
	doc, _ := object.Normalize(ret, d.logger).(object.Object)
	return doc, nil
}

func decodeBlockHeader(header *cb.BlockHeader) object.Object {
	if header == nil {
		return nil
	}
	return object.Object{
		"number":       header.GetNumber(),
		"previousHash": object.Bytes(header.GetPreviousHash()),
		"dataHash":     object.Bytes(header.GetDataHash()),
	}
}

// decodeBlockMetadata decodes the metadata slots by position. Slots past the
// last config pointer are passed through as raw bytes.
func (d *Decoder) decodeBlockMetadata(metadata *cb.BlockMetadata) []any {
	ret := make([]any, 0, len(metadata.GetMetadata()))
	for idx, raw := range metadata.GetMetadata() {
		switch idx {
		case common.MetadataSignatures, common.MetadataLastConfig:
			entry, err := d.decodeMetadataEntry(idx, raw)
			if err != nil {
				d.logger.Warn(
					"failed to decode block metadata, leaving undecoded",
					"index", idx,
					"error", err,
				)
				ret = append(ret, object.Bytes(raw))
				continue
			}
			ret = append(ret, entry)
		default:
			ret = append(ret, object.Bytes(raw))
		}
	}
	return ret
}

func (d *Decoder) decodeMetadataEntry(idx int, data []byte) (object.Object, error) {
	var md cb.Metadata
	if err := proto.Unmarshal(data, &md); err != nil {
		return nil, common.DecodeError{Message: "block metadata", Err: err}
	}
	signatures := make([]any, 0, len(md.GetSignatures()))
	for _, sig := range md.GetSignatures() {
		sigHeader, err := DecodeSignatureHeader(sig.GetSignatureHeader())
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, object.Object{
			"signatureHeader": sigHeader,
			"signature":       object.Bytes(sig.GetSignature()),
		})
	}
	var value any = object.Bytes(md.GetValue())
	if idx == common.MetadataLastConfig {
		var lastConfig cb.LastConfig
		if err := proto.Unmarshal(md.GetValue(), &lastConfig); err != nil {
			return nil, common.DecodeError{Message: "last config", Err: err}
		}
		value = object.Object{
			"index": lastConfig.GetIndex(),
		}
	}
	return object.Object{
		"value":      value,
		"signatures": signatures,
	}, nil
}
