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
	"unicode/utf8"

	"github.com/hyperledger/fabric-protos-go-apiv2/ledger/rwset"
	"github.com/hyperledger/fabric-protos-go-apiv2/ledger/rwset/kvrwset"
	pb "github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"google.golang.org/protobuf/proto"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

func (d *Decoder) decodeTransaction(data []byte) (object.Object, error) {
	var tx pb.Transaction
	if err := proto.Unmarshal(data, &tx); err != nil {
		return nil, common.DecodeError{Message: "transaction", Err: err}
	}
	actions := make([]any, 0, len(tx.GetActions()))
	for idx, action := range tx.GetActions() {
		decoded, err := d.decodeTransactionAction(action)
		if err != nil {
			d.logger.Warn(
				"failed to decode transaction action, leaving undecoded",
				"index", idx,
				"error", err,
			)
			actions = append(actions, object.FromMessage(action, object.StyleProtoc))
			continue
		}
		actions = append(actions, decoded)
	}
	return object.Object{
		"actions": actions,
	}, nil
}

func (d *Decoder) decodeTransactionAction(action *pb.TransactionAction) (object.Object, error) {
	sigHeader, err := DecodeSignatureHeader(action.GetHeader())
	if err != nil {
		return nil, err
	}
	var ccActionPayload pb.ChaincodeActionPayload
	if err := proto.Unmarshal(action.GetPayload(), &ccActionPayload); err != nil {
		return nil, common.DecodeError{Message: "chaincode action payload", Err: err}
	}
	proposalPayload, err := decodeChaincodeProposalPayload(
		ccActionPayload.GetChaincodeProposalPayload(),
	)
	if err != nil {
		return nil, err
	}
	endorsedAction, err := d.decodeEndorsedAction(ccActionPayload.GetAction())
	if err != nil {
		return nil, err
	}
	return object.Object{
		"header": object.Object{
			"signatureHeader": sigHeader,
		},
		"payload": object.Object{
			"chaincodeActionPayload": object.Object{
				"chaincodeProposalPayload": proposalPayload,
				"action":                   endorsedAction,
			},
		},
	}, nil
}

// decodeChaincodeProposalPayload recovers the chaincode invocation, rendering
// the arguments as text where they are valid UTF-8
func decodeChaincodeProposalPayload(data []byte) (object.Object, error) {
	var proposalPayload pb.ChaincodeProposalPayload
	if err := proto.Unmarshal(data, &proposalPayload); err != nil {
		return nil, common.DecodeError{Message: "chaincode proposal payload", Err: err}
	}
	var invocation pb.ChaincodeInvocationSpec
	if err := proto.Unmarshal(proposalPayload.GetInput(), &invocation); err != nil {
		return nil, common.DecodeError{Message: "chaincode invocation spec", Err: err}
	}
	input := object.FromMessage(&invocation, object.StyleProtoc)
	if spec, ok := input["chaincodeSpec"].(object.Object); ok {
		if ccInput, ok := spec["input"].(object.Object); ok {
			ccInput["argsList"] = DecodeArgs(
				invocation.GetChaincodeSpec().GetInput().GetArgs(),
			)
		}
	}
	ret := object.FromMessage(&proposalPayload, object.StyleProtoc)
	ret["input"] = input
	return ret, nil
}

// DecodeArgs renders chaincode arguments as strings. Arguments which are not
// valid UTF-8 are kept as bytes.
func DecodeArgs(args [][]byte) []any {
	ret := make([]any, 0, len(args))
	for _, arg := range args {
		if utf8.Valid(arg) {
			ret = append(ret, string(arg))
			continue
		}
		ret = append(ret, object.Bytes(arg))
	}
	return ret
}

func (d *Decoder) decodeEndorsedAction(action *pb.ChaincodeEndorsedAction) (object.Object, error) {
	if action == nil {
		return nil, nil
	}
	responsePayload, err := d.decodeProposalResponsePayload(action.GetProposalResponsePayload())
	if err != nil {
		return nil, err
	}
	endorsements := make([]any, 0, len(action.GetEndorsements()))
	for _, endorsement := range action.GetEndorsements() {
		endorser, err := DecodeIdentity(endorsement.GetEndorser())
		if err != nil {
			return nil, err
		}
		endorsements = append(endorsements, object.Object{
			"endorser":  endorser,
			"signature": object.Bytes(endorsement.GetSignature()),
		})
	}
	return object.Object{
		"proposalResponsePayload": responsePayload,
		"endorsements":            endorsements,
	}, nil
}

func (d *Decoder) decodeProposalResponsePayload(data []byte) (object.Object, error) {
	var responsePayload pb.ProposalResponsePayload
	if err := proto.Unmarshal(data, &responsePayload); err != nil {
		return nil, common.DecodeError{Message: "proposal response payload", Err: err}
	}
	var ccAction pb.ChaincodeAction
	if err := proto.Unmarshal(responsePayload.GetExtension(), &ccAction); err != nil {
		return nil, common.DecodeError{Message: "chaincode action", Err: err}
	}
	results, err := d.decodeReadWriteSet(ccAction.GetResults())
	if err != nil {
		return nil, err
	}
	var events any
	if len(ccAction.GetEvents()) > 0 {
		var event pb.ChaincodeEvent
		if err := proto.Unmarshal(ccAction.GetEvents(), &event); err != nil {
			return nil, common.DecodeError{Message: "chaincode event", Err: err}
		}
		events = object.FromMessage(&event, object.StyleProtoc)
	}
	return object.Object{
		"proposalHash": object.Bytes(responsePayload.GetProposalHash()),
		"extension": object.Object{
			"results":     results,
			"events":      events,
			"response":    object.FromMessage(ccAction.GetResponse(), object.StyleProtoc),
			"chaincodeId": object.FromMessage(ccAction.GetChaincodeId(), object.StyleProtoc),
		},
	}, nil
}

// decodeReadWriteSet decodes the transaction read/write set. Namespace sets
// in an unknown data model are left undecoded.
func (d *Decoder) decodeReadWriteSet(data []byte) (object.Object, error) {
	var txRwSet rwset.TxReadWriteSet
	if err := proto.Unmarshal(data, &txRwSet); err != nil {
		return nil, common.DecodeError{Message: "read/write set", Err: err}
	}
	nsRwSets := make([]any, 0, len(txRwSet.GetNsRwset()))
	for _, nsRwSet := range txRwSet.GetNsRwset() {
		entry := object.FromMessage(nsRwSet, object.StyleProtoc)
		if txRwSet.GetDataModel() == rwset.TxReadWriteSet_KV {
			var kvRwSet kvrwset.KVRWSet
			if err := proto.Unmarshal(nsRwSet.GetRwset(), &kvRwSet); err != nil {
				d.logger.Warn(
					"failed to decode namespace read/write set, leaving undecoded",
					"namespace", nsRwSet.GetNamespace(),
					"error", err,
				)
			} else {
				entry["rwset"] = object.FromMessage(&kvRwSet, object.StyleProtoc)
			}
		}
		nsRwSets = append(nsRwSets, entry)
	}
	return object.Object{
		"dataModel": int32(txRwSet.GetDataModel()),
		"nsRwset":   nsRwSets,
	}, nil
}
