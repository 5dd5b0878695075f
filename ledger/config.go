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
	"strings"

	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	ab "github.com/hyperledger/fabric-protos-go-apiv2/orderer"
	"google.golang.org/protobuf/proto"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

// DecodeMapValueKeys walks a document in the intermediate layout and decodes
// the opaque bytes held by config values and config policies in protobuf map
// fields. It descends into every nested object and list, so decoding cascades
// through config groups of any depth. The document is modified in place.
//
// Values are decoded by map key, in order of precedence: the ConsensusType
// override, the built-in config value table, then a registry search for a
// message named after the key. Values with no decoder are left as bytes.
func (d *Decoder) DecodeMapValueKeys(v any) {
	w := &mapWalker{decoder: d}
	w.walk(v, 0)
}

type mapWalker struct {
	decoder *Decoder
	tripped bool
}

func (w *mapWalker) walk(v any, depth int) {
	if depth > common.MaxMapDepth {
		if !w.tripped {
			w.decoder.logger.Error(
				"maximum map decode depth exceeded, leaving remainder undecoded",
				"depth", depth,
			)
			w.tripped = true
		}
		return
	}
	switch t := v.(type) {
	case map[string]any:
		for key, val := range t {
			if pairs, ok := val.(object.Pairs); ok && strings.HasSuffix(key, object.MapSuffix) {
				for i := range pairs {
					w.decoder.decodeMapEntry(&pairs[i])
					w.walk(pairs[i].Value, depth+1)
				}
				continue
			}
			w.walk(val, depth+1)
		}
	case object.Pairs:
		for _, pair := range t {
			w.walk(pair.Value, depth+1)
		}
	case []any:
		for _, item := range t {
			w.walk(item, depth+1)
		}
	}
}

// decodeMapEntry decodes the value of a config value or config policy entry
func (d *Decoder) decodeMapEntry(pair *object.Pair) {
	entry, ok := pair.Value.(map[string]any)
	if !ok {
		return
	}
	if raw, ok := entry["value"].([]byte); ok {
		if decoded, ok := d.decodeConfigValue(pair.Key, raw); ok {
			entry["value"] = decoded
		}
		return
	}
	policy, ok := entry["policy"].(map[string]any)
	if !ok {
		return
	}
	if raw, ok := policy["value"].([]byte); ok {
		policyType, _ := policy["type"].(int32)
		if decoded := d.DecodePolicy(policyType, raw); decoded != nil {
			policy["value"] = decoded
		}
	}
}

func (d *Decoder) decodeConfigValue(key string, raw []byte) (any, bool) {
	logger := d.logger.With("key", key)
	valueKey := common.ConfigValueKey(key)
	// ConsensusType carries a second, implementation specific message
	if valueKey == common.KeyConsensusType {
		ret, err := d.decodeConsensusType(raw)
		if err != nil {
			logger.Warn("failed to decode config value, leaving undecoded", "error", err)
			return nil, false
		}
		return ret, true
	}
	if msg := valueKey.New(); msg != nil {
		if err := proto.Unmarshal(raw, msg); err != nil {
			logger.Warn(
				"failed to decode config value, leaving undecoded",
				"error", common.DecodeError{Message: string(key), Err: err},
			)
			return nil, false
		}
		ret := object.FromMessage(msg, object.StyleProtoc)
		switch v := msg.(type) {
		case *mspb.MSPConfig:
			d.decodeMSPConfig(v, ret)
		case *cb.Policy:
			if decoded := d.DecodePolicy(v.GetType(), v.GetValue()); decoded != nil {
				ret["value"] = decoded
			}
		}
		return ret, true
	}
	desc, ok := d.registry.FindByName(object.TitleCase(key))
	if !ok {
		logger.Warn("no decoder for config value, leaving undecoded")
		return nil, false
	}
	msg, err := d.registry.Unmarshal(desc.FullName(), raw)
	if err != nil {
		logger.Warn("failed to decode config value, leaving undecoded", "error", err)
		return nil, false
	}
	logger.Debug("decoded config value from registry", "message", desc.FullName())
	return object.FromMessage(msg, object.StyleProtoc), true
}

// decodeConsensusType decodes the consensus type and then its metadata, whose
// schema depends on the consensus implementation
func (d *Decoder) decodeConsensusType(raw []byte) (object.Object, error) {
	var consensusType ab.ConsensusType
	if err := proto.Unmarshal(raw, &consensusType); err != nil {
		return nil, common.DecodeError{Message: string(common.KeyConsensusType), Err: err}
	}
	ret := object.FromMessage(&consensusType, object.StyleProtoc)
	metadata := consensusType.GetMetadata()
	if len(metadata) == 0 {
		return ret, nil
	}
	metadataMsg := common.ConsensusMetadata(consensusType.GetType())
	if metadataMsg == nil {
		d.logger.Warn(
			"failed to decode consensus metadata, leaving undecoded",
			"type", consensusType.GetType(),
			"error", errMissingMetadata,
		)
		return ret, nil
	}
	if err := proto.Unmarshal(metadata, metadataMsg); err != nil {
		d.logger.Warn(
			"failed to decode consensus metadata, leaving undecoded",
			"type", consensusType.GetType(),
			"error", err,
		)
		return ret, nil
	}
	ret["metadata"] = object.FromMessage(metadataMsg, object.StyleProtoc)
	return ret, nil
}

// decodeMSPConfig decodes the implementation specific MSP config in place
func (d *Decoder) decodeMSPConfig(mspConfig *mspb.MSPConfig, ret object.Object) {
	var config proto.Message
	switch mspConfig.GetType() {
	case mspTypeFabric:
		config = &mspb.FabricMSPConfig{}
	case mspTypeIdemix:
		config = &mspb.IdemixMSPConfig{}
	default:
		d.logger.Error(
			"MSP type is not supported, leaving undecoded",
			"type", mspConfig.GetType(),
		)
		return
	}
	if err := proto.Unmarshal(mspConfig.GetConfig(), config); err != nil {
		d.logger.Warn(
			"failed to decode MSP config, leaving undecoded",
			"type", mspConfig.GetType(),
			"error", err,
		)
		return
	}
	ret["config"] = object.FromMessage(config, object.StyleProtoc)
}

// MSP provider types carried in MSPConfig
const (
	mspTypeFabric int32 = 0
	mspTypeIdemix int32 = 1
)
