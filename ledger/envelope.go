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
	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	"google.golang.org/protobuf/proto"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

// DecodeEnvelope decodes a serialized envelope, dispatching the payload data
// on the channel header type. The result is in the intermediate layout.
func (d *Decoder) DecodeEnvelope(data []byte) (object.Object, error) {
	var env cb.Envelope
	if err := proto.Unmarshal(data, &env); err != nil {
		return nil, common.DecodeError{Message: "envelope", Err: err}
	}
	var payload cb.Payload
	if err := proto.Unmarshal(env.GetPayload(), &payload); err != nil {
		return nil, common.DecodeError{Message: "payload", Err: err}
	}
	header, headerType, err := decodeHeader(payload.GetHeader())
	if err != nil {
		return nil, err
	}
	return object.Object{
		"signature": object.Bytes(env.GetSignature()),
		"payload": object.Object{
			"header": header,
			"data":   d.DecodePayloadData(headerType, payload.GetData()),
		},
	}, nil
}

// decodeHeader decodes the channel and signature headers of a payload and
// returns the payload type from the channel header
func decodeHeader(header *cb.Header) (object.Object, cb.HeaderType, error) {
	if header == nil {
		return nil, 0, common.DecodeError{
			Message: "payload header",
			Err:     errMissingHeader,
		}
	}
	channelHeader, err := DecodeChannelHeader(header.GetChannelHeader())
	if err != nil {
		return nil, 0, err
	}
	signatureHeader, err := DecodeSignatureHeader(header.GetSignatureHeader())
	if err != nil {
		return nil, 0, err
	}
	headerType, _ := channelHeader["type"].(int32)
	return object.Object{
		"channelHeader":   channelHeader,
		"signatureHeader": signatureHeader,
	}, cb.HeaderType(headerType), nil
}

// DecodePayloadData decodes the data of a payload according to its header
// type. Types other than CONFIG and ENDORSER_TRANSACTION are logged and
// returned as nil. Data which fails to decode is returned as raw bytes.
func (d *Decoder) DecodePayloadData(headerType cb.HeaderType, data []byte) any {
	var ret object.Object
	var err error
	switch headerType {
	case cb.HeaderType_CONFIG:
		ret, err = d.decodeConfigEnvelope(data)
	case cb.HeaderType_ENDORSER_TRANSACTION:
		ret, err = d.decodeTransaction(data)
	default:
		d.logger.Error(
			"payload type is not supported, leaving undecoded",
			"type", headerType.String(),
		)
		return nil
	}
	if err != nil {
		d.logger.Warn(
			"failed to decode payload data, leaving undecoded",
			"type", headerType.String(),
			"error", err,
		)
		return object.Bytes(data)
	}
	return ret
}

func (d *Decoder) decodeConfigEnvelope(data []byte) (object.Object, error) {
	var configEnv cb.ConfigEnvelope
	if err := proto.Unmarshal(data, &configEnv); err != nil {
		return nil, common.DecodeError{Message: "config envelope", Err: err}
	}
	var config object.Object
	if cfg := configEnv.GetConfig(); cfg != nil {
		config = object.Object{
			"sequence":     cfg.GetSequence(),
			"channelGroup": object.FromMessage(cfg.GetChannelGroup(), object.StyleProtoc),
		}
	}
	var lastUpdate object.Object
	if configEnv.GetLastUpdate() != nil {
		var err error
		lastUpdate, err = d.decodeLastUpdate(configEnv.GetLastUpdate())
		if err != nil {
			d.logger.Warn(
				"failed to decode config last update, leaving undecoded",
				"error", err,
			)
			lastUpdate = object.FromMessage(configEnv.GetLastUpdate(), object.StyleProtoc)
		}
	}
	return object.Object{
		"config":     config,
		"lastUpdate": lastUpdate,
	}, nil
}

// decodeLastUpdate decodes the config update envelope embedded in a config
// envelope. Its header is decoded the same way as a block level envelope.
func (d *Decoder) decodeLastUpdate(env *cb.Envelope) (object.Object, error) {
	var payload cb.Payload
	if err := proto.Unmarshal(env.GetPayload(), &payload); err != nil {
		return nil, common.DecodeError{Message: "last update payload", Err: err}
	}
	header, _, err := decodeHeader(payload.GetHeader())
	if err != nil {
		return nil, err
	}
	var updateEnv cb.ConfigUpdateEnvelope
	if err := proto.Unmarshal(payload.GetData(), &updateEnv); err != nil {
		return nil, common.DecodeError{Message: "config update envelope", Err: err}
	}
	var update cb.ConfigUpdate
	if err := proto.Unmarshal(updateEnv.GetConfigUpdate(), &update); err != nil {
		return nil, common.DecodeError{Message: "config update", Err: err}
	}
	signatures := make([]any, 0, len(updateEnv.GetSignatures()))
	for _, sig := range updateEnv.GetSignatures() {
		sigHeader, err := DecodeSignatureHeader(sig.GetSignatureHeader())
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, object.Object{
			"signatureHeader": sigHeader,
			"signature":       object.Bytes(sig.GetSignature()),
		})
	}
	return object.Object{
		"signature": object.Bytes(env.GetSignature()),
		"payload": object.Object{
			"header": header,
			"data": object.Object{
				"configUpdate": object.FromMessage(&update, object.StyleProtoc),
				"signatures":   signatures,
			},
		},
	}, nil
}
