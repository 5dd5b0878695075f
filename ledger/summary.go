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
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	pb "github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"github.com/jinzhu/copier"
	"google.golang.org/protobuf/proto"

	"github.com/blinklabs-io/gofabric/ledger/common"
)

// Block metadata slot holding one validation code per transaction
const metadataTransactionsFilter = 2

// BlockSummary is a flat view of a block, for listing blocks without the full
// decoded document
type BlockSummary struct {
	Number       uint64                `json:"block_number"`
	PreviousHash []byte                `json:"previous_hash"`
	DataHash     []byte                `json:"data_hash"`
	Hash         []byte                `json:"hash"`
	Transactions []*TransactionSummary `json:"transactions"`
}

// TransactionSummary describes a single envelope of a block
type TransactionSummary struct {
	Type           int32  `json:"type"`
	TypeName       string `json:"type_name"`
	ChannelId      string `json:"channel_id"`
	TxId           string `json:"tx_id"`
	Epoch          uint64 `json:"epoch"`
	Time           string `json:"timestamp"`
	CreatorMspId   string `json:"creator_msp_id"`
	ValidationCode string `json:"validation_code,omitempty"`
}

// Summarize builds a BlockSummary from a serialized block. Envelopes which
// cannot be decoded are skipped.
func (d *Decoder) Summarize(data []byte) (*BlockSummary, error) {
	var block cb.Block
	if err := proto.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to decode block: %w", err)
	}
	if block.GetData() == nil {
		return nil, common.ErrMissingBlockData
	}
	ret := &BlockSummary{}
	if block.GetHeader() != nil {
		if err := copier.Copy(ret, block.GetHeader()); err != nil {
			return nil, fmt.Errorf("failed to copy block header: %w", err)
		}
	}
	hash, err := BlockHeaderHash(ret.Number, ret.PreviousHash, ret.DataHash)
	if err != nil {
		return nil, err
	}
	ret.Hash = hash
	var txFilter []byte
	if metadata := block.GetMetadata().GetMetadata(); len(metadata) > metadataTransactionsFilter {
		txFilter = metadata[metadataTransactionsFilter]
	}
	for idx, envData := range block.GetData().GetData() {
		tx, err := summarizeEnvelope(envData)
		if err != nil {
			d.logger.Warn(
				"failed to summarize envelope, skipping",
				"index", idx,
				"error", err,
			)
			continue
		}
		if idx < len(txFilter) {
			tx.ValidationCode = pb.TxValidationCode(txFilter[idx]).String()
		}
		ret.Transactions = append(ret.Transactions, tx)
	}
	return ret, nil
}

func summarizeEnvelope(data []byte) (*TransactionSummary, error) {
	var env cb.Envelope
	if err := proto.Unmarshal(data, &env); err != nil {
		return nil, common.DecodeError{Message: "envelope", Err: err}
	}
	var payload cb.Payload
	if err := proto.Unmarshal(env.GetPayload(), &payload); err != nil {
		return nil, common.DecodeError{Message: "payload", Err: err}
	}
	if payload.GetHeader() == nil {
		return nil, errMissingHeader
	}
	var channelHeader cb.ChannelHeader
	if err := proto.Unmarshal(payload.GetHeader().GetChannelHeader(), &channelHeader); err != nil {
		return nil, common.DecodeError{Message: "channel header", Err: err}
	}
	ret := &TransactionSummary{}
	if err := copier.Copy(ret, &channelHeader); err != nil {
		return nil, fmt.Errorf("failed to copy channel header: %w", err)
	}
	ret.TypeName = cb.HeaderType(channelHeader.GetType()).String()
	if ts, ok := DecodeTimestamp(channelHeader.GetTimestamp()).(string); ok {
		ret.Time = ts
	}
	var sigHeader cb.SignatureHeader
	if err := proto.Unmarshal(payload.GetHeader().GetSignatureHeader(), &sigHeader); err != nil {
		return nil, common.DecodeError{Message: "signature header", Err: err}
	}
	var creator mspb.SerializedIdentity
	if err := proto.Unmarshal(sigHeader.GetCreator(), &creator); err != nil {
		return nil, common.DecodeError{Message: "identity", Err: err}
	}
	ret.CreatorMspId = creator.GetMspid()
	return ret, nil
}
