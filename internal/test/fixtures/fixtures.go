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
// Package fixtures builds serialized Fabric blocks for tests
package fixtures

import (
	"fmt"
	"time"

	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	"github.com/hyperledger/fabric-protos-go-apiv2/ledger/rwset"
	"github.com/hyperledger/fabric-protos-go-apiv2/ledger/rwset/kvrwset"
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	pb "github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Common fixture values
const (
	ChannelID = "mychannel"
	MSPID     = "Org1MSP"
	TxID      = "a0b1c2d3e4f5"
)

// Timestamp is the channel header timestamp of every fixture envelope
var Timestamp = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// Marshal serializes a message and panics on failure
func Marshal(msg proto.Message) []byte {
	data, err := proto.Marshal(msg)
	if err != nil {
		panic(fmt.Sprintf("failed to marshal %T: %s", msg, err))
	}
	return data
}

// Identity returns a serialized identity
func Identity(mspID string, cert string) []byte {
	return Marshal(&mspb.SerializedIdentity{
		Mspid:   mspID,
		IdBytes: []byte(cert),
	})
}

// Envelope returns a serialized envelope carrying the payload data
func Envelope(headerType cb.HeaderType, txID string, data []byte) []byte {
	return Marshal(EnvelopeMessage(headerType, txID, data))
}

// EnvelopeMessage returns an envelope carrying the payload data
func EnvelopeMessage(headerType cb.HeaderType, txID string, data []byte) *cb.Envelope {
	channelHeader := Marshal(&cb.ChannelHeader{
		Type:      int32(headerType),
		Version:   1,
		Timestamp: timestamppb.New(Timestamp),
		ChannelId: ChannelID,
		TxId:      txID,
		Epoch:     0,
	})
	signatureHeader := Marshal(&cb.SignatureHeader{
		Creator: Identity(MSPID, "creator-cert"),
		Nonce:   []byte{0x01, 0x02, 0x03},
	})
	payload := Marshal(&cb.Payload{
		Header: &cb.Header{
			ChannelHeader:   channelHeader,
			SignatureHeader: signatureHeader,
		},
		Data: data,
	})
	return &cb.Envelope{
		Payload:   payload,
		Signature: []byte{0xaa, 0xbb},
	}
}

// Block returns a serialized block holding the envelopes. The metadata holds
// a signature, the last config index and a transaction filter marking every
// envelope valid.
func Block(number uint64, envelopes ...[]byte) []byte {
	return Marshal(BlockMessage(number, envelopes...))
}

// BlockMessage returns a block holding the envelopes
func BlockMessage(number uint64, envelopes ...[]byte) *cb.Block {
	signatures := Marshal(&cb.Metadata{
		Signatures: []*cb.MetadataSignature{
			{
				SignatureHeader: Marshal(&cb.SignatureHeader{
					Creator: Identity("OrdererMSP", "orderer-cert"),
					Nonce:   []byte{0x04},
				}),
				Signature: []byte{0xcc},
			},
		},
	})
	lastConfig := Marshal(&cb.Metadata{
		Value: Marshal(&cb.LastConfig{Index: number}),
	})
	txFilter := make([]byte, len(envelopes))
	return &cb.Block{
		Header: &cb.BlockHeader{
			Number:       number,
			PreviousHash: []byte{0x01, 0x02},
			DataHash:     []byte{0x03, 0x04},
		},
		Data: &cb.BlockData{
			Data: envelopes,
		},
		Metadata: &cb.BlockMetadata{
			Metadata: [][]byte{signatures, lastConfig, txFilter},
		},
	}
}

// ConfigValue returns a config value holding the message
func ConfigValue(msg proto.Message) *cb.ConfigValue {
	return &cb.ConfigValue{
		Value:     Marshal(msg),
		ModPolicy: "Admins",
	}
}

// ImplicitMetaPolicy returns a config policy with an implicit meta rule
func ImplicitMetaPolicy(rule cb.ImplicitMetaPolicy_Rule, subPolicy string) *cb.ConfigPolicy {
	return &cb.ConfigPolicy{
		Policy: &cb.Policy{
			Type: int32(cb.Policy_IMPLICIT_META),
			Value: Marshal(&cb.ImplicitMetaPolicy{
				SubPolicy: subPolicy,
				Rule:      rule,
			}),
		},
		ModPolicy: "Admins",
	}
}

// SignaturePolicy returns a config policy requiring a signature from a
// member of the MSP
func SignaturePolicy(mspID string) *cb.ConfigPolicy {
	return &cb.ConfigPolicy{
		Policy: &cb.Policy{
			Type:  int32(cb.Policy_SIGNATURE),
			Value: Marshal(SignaturePolicyEnvelope(mspID)),
		},
		ModPolicy: "Admins",
	}
}

// SignaturePolicyEnvelope returns a policy envelope requiring a signature
// from a member of the MSP
func SignaturePolicyEnvelope(mspID string) *cb.SignaturePolicyEnvelope {
	return &cb.SignaturePolicyEnvelope{
		Version: 0,
		Rule: &cb.SignaturePolicy{
			Type: &cb.SignaturePolicy_NOutOf_{
				NOutOf: &cb.SignaturePolicy_NOutOf{
					N: 1,
					Rules: []*cb.SignaturePolicy{
						{Type: &cb.SignaturePolicy_SignedBy{SignedBy: 0}},
					},
				},
			},
		},
		Identities: []*mspb.MSPPrincipal{
			{
				PrincipalClassification: mspb.MSPPrincipal_ROLE,
				Principal: Marshal(&mspb.MSPRole{
					MspIdentifier: mspID,
					Role:          mspb.MSPRole_MEMBER,
				}),
			},
		},
	}
}

// Principal returns a policy principal holding the message
func Principal(
	classification mspb.MSPPrincipal_Classification,
	msg proto.Message,
) *mspb.MSPPrincipal {
	return &mspb.MSPPrincipal{
		PrincipalClassification: classification,
		Principal:               Marshal(msg),
	}
}

// PrincipalPolicy returns a config policy requiring a signature from any one
// of the principals
func PrincipalPolicy(principals ...*mspb.MSPPrincipal) *cb.ConfigPolicy {
	rules := make([]*cb.SignaturePolicy, 0, len(principals))
	for i := range principals {
		rules = append(rules, &cb.SignaturePolicy{
			Type: &cb.SignaturePolicy_SignedBy{SignedBy: int32(i)},
		})
	}
	return &cb.ConfigPolicy{
		Policy: &cb.Policy{
			Type: int32(cb.Policy_SIGNATURE),
			Value: Marshal(&cb.SignaturePolicyEnvelope{
				Rule: &cb.SignaturePolicy{
					Type: &cb.SignaturePolicy_NOutOf_{
						NOutOf: &cb.SignaturePolicy_NOutOf{N: 1, Rules: rules},
					},
				},
				Identities: principals,
			}),
		},
		ModPolicy: "Admins",
	}
}

// ConfigEnvelope returns serialized config envelope payload data for the
// channel group
func ConfigEnvelope(group *cb.ConfigGroup) []byte {
	return Marshal(&cb.ConfigEnvelope{
		Config: &cb.Config{
			Sequence:     3,
			ChannelGroup: group,
		},
	})
}

// ConfigBlock returns a serialized config block for the channel group
func ConfigBlock(number uint64, group *cb.ConfigGroup) []byte {
	return Block(number, Envelope(cb.HeaderType_CONFIG, "", ConfigEnvelope(group)))
}

// EndorserTransaction returns serialized transaction payload data invoking
// the chaincode with the arguments. The chaincode writes each key in writes.
func EndorserTransaction(chaincode string, args []string, writes map[string]string) []byte {
	argBytes := make([][]byte, 0, len(args))
	for _, arg := range args {
		argBytes = append(argBytes, []byte(arg))
	}
	kvWrites := make([]*kvrwset.KVWrite, 0, len(writes))
	for key, value := range writes {
		kvWrites = append(kvWrites, &kvrwset.KVWrite{
			Key:   key,
			Value: []byte(value),
		})
	}
	results := Marshal(&rwset.TxReadWriteSet{
		DataModel: rwset.TxReadWriteSet_KV,
		NsRwset: []*rwset.NsReadWriteSet{
			{
				Namespace: chaincode,
				Rwset:     Marshal(&kvrwset.KVRWSet{Writes: kvWrites}),
			},
		},
	})
	chaincodeID := &pb.ChaincodeID{Name: chaincode, Version: "1.0"}
	extension := Marshal(&pb.ChaincodeAction{
		Results: results,
		Events: Marshal(&pb.ChaincodeEvent{
			ChaincodeId: chaincode,
			TxId:        TxID,
			EventName:   "updated",
			Payload:     []byte("event-payload"),
		}),
		Response: &pb.Response{
			Status:  200,
			Payload: []byte("ok"),
		},
		ChaincodeId: chaincodeID,
	})
	proposalPayload := Marshal(&pb.ChaincodeProposalPayload{
		Input: Marshal(&pb.ChaincodeInvocationSpec{
			ChaincodeSpec: &pb.ChaincodeSpec{
				Type:        pb.ChaincodeSpec_GOLANG,
				ChaincodeId: &pb.ChaincodeID{Name: chaincode},
				Input:       &pb.ChaincodeInput{Args: argBytes},
			},
		}),
	})
	actionPayload := Marshal(&pb.ChaincodeActionPayload{
		ChaincodeProposalPayload: proposalPayload,
		Action: &pb.ChaincodeEndorsedAction{
			ProposalResponsePayload: Marshal(&pb.ProposalResponsePayload{
				ProposalHash: []byte{0x0f},
				Extension:    extension,
			}),
			Endorsements: []*pb.Endorsement{
				{
					Endorser:  Identity(MSPID, "peer-cert"),
					Signature: []byte{0xdd},
				},
			},
		},
	})
	return Marshal(&pb.Transaction{
		Actions: []*pb.TransactionAction{
			{
				Header: Marshal(&cb.SignatureHeader{
					Creator: Identity(MSPID, "creator-cert"),
					Nonce:   []byte{0x05},
				}),
				Payload: actionPayload,
			},
		},
	})
}

// EndorserBlock returns a serialized block holding a single endorser
// transaction
func EndorserBlock(number uint64, chaincode string, args ...string) []byte {
	return Block(
		number,
		Envelope(
			cb.HeaderType_ENDORSER_TRANSACTION,
			TxID,
			EndorserTransaction(chaincode, args, map[string]string{"k1": "v1"}),
		),
	)
}
