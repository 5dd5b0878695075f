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
	"time"

	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

// DecodeChannelHeader decodes a serialized channel header
func DecodeChannelHeader(data []byte) (object.Object, error) {
	var ch cb.ChannelHeader
	if err := proto.Unmarshal(data, &ch); err != nil {
		return nil, common.DecodeError{Message: "channel header", Err: err}
	}
	return object.Object{
		"type":        ch.GetType(),
		"version":     ch.GetVersion(),
		"timestamp":   DecodeTimestamp(ch.GetTimestamp()),
		"channelId":   ch.GetChannelId(),
		"txId":        ch.GetTxId(),
		"epoch":       ch.GetEpoch(),
		"extension":   object.Bytes(ch.GetExtension()),
		"tlsCertHash": object.Bytes(ch.GetTlsCertHash()),
	}, nil
}

// DecodeSignatureHeader decodes a serialized signature header along with the
// creator identity it carries
func DecodeSignatureHeader(data []byte) (object.Object, error) {
	var sh cb.SignatureHeader
	if err := proto.Unmarshal(data, &sh); err != nil {
		return nil, common.DecodeError{Message: "signature header", Err: err}
	}
	creator, err := DecodeIdentity(sh.GetCreator())
	if err != nil {
		return nil, err
	}
	return object.Object{
		"creator": creator,
		"nonce":   object.Bytes(sh.GetNonce()),
	}, nil
}

// DecodeIdentity decodes a serialized MSP identity. The certificate is
// extracted but not verified.
func DecodeIdentity(data []byte) (object.Object, error) {
	var id mspb.SerializedIdentity
	if err := proto.Unmarshal(data, &id); err != nil {
		return nil, common.DecodeError{Message: "identity", Err: err}
	}
	return object.Object{
		"mspId":   id.GetMspid(),
		"idBytes": object.Bytes(id.GetIdBytes()),
	}, nil
}

// DecodeTimestamp renders a timestamp as an RFC 3339 string, or nil if unset
func DecodeTimestamp(ts *timestamppb.Timestamp) any {
	if ts == nil {
		return nil
	}
	return ts.AsTime().UTC().Format(time.RFC3339Nano)
}
