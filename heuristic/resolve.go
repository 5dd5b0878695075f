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

package heuristic

import (
	"encoding/base64"
	"strconv"
	"strings"
	"unicode/utf8"

	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	"github.com/hyperledger/fabric-protos-go-apiv2/ledger/rwset"
	"github.com/hyperledger/fabric-protos-go-apiv2/ledger/rwset/kvrwset"
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	pb "github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

// Action describes what to do with the bytes held by a field
type Action int

const (
	// ActionKeep leaves the bytes undecoded
	ActionKeep Action = iota
	// ActionDecode decodes the bytes as the resolved message
	ActionDecode
	// ActionText renders the bytes as UTF-8 text
	ActionText
)

// Resolution is the outcome of resolving the type of a binary field
type Resolution struct {
	Action  Action
	Message protoreflect.FullName
}

func decodeAs(name protoreflect.FullName) Resolution {
	return Resolution{Action: ActionDecode, Message: name}
}

var keep = Resolution{Action: ActionKeep}

func nameOf(msg proto.Message) protoreflect.FullName {
	return msg.ProtoReflect().Descriptor().FullName()
}

// Message names used by the override table
var (
	msgEnvelope               = nameOf(&cb.Envelope{})
	msgConfigEnvelope         = nameOf(&cb.ConfigEnvelope{})
	msgConfigUpdateEnvelope   = nameOf(&cb.ConfigUpdateEnvelope{})
	msgMetadata               = nameOf(&cb.Metadata{})
	msgLastConfig             = nameOf(&cb.LastConfig{})
	msgSignatureHeader        = nameOf(&cb.SignatureHeader{})
	msgSignaturePolicy        = nameOf(&cb.SignaturePolicyEnvelope{})
	msgImplicitMetaPolicy     = nameOf(&cb.ImplicitMetaPolicy{})
	msgSerializedIdentity     = nameOf(&mspb.SerializedIdentity{})
	msgFabricMSPConfig        = nameOf(&mspb.FabricMSPConfig{})
	msgIdemixMSPConfig        = nameOf(&mspb.IdemixMSPConfig{})
	msgTransaction            = nameOf(&pb.Transaction{})
	msgChaincodeActionPayload = nameOf(&pb.ChaincodeActionPayload{})
	msgChaincodeInvocation    = nameOf(&pb.ChaincodeInvocationSpec{})
	msgChaincodeAction        = nameOf(&pb.ChaincodeAction{})
	msgChaincodeEvent         = nameOf(&pb.ChaincodeEvent{})
	msgTxReadWriteSet         = nameOf(&rwset.TxReadWriteSet{})
	msgKVRWSet                = nameOf(&kvrwset.KVRWSet{})
	msgHashedRWSet            = nameOf(&kvrwset.HashedRWSet{})
)

// The principal messages live in the common schema package
var principalMessages = map[mspb.MSPPrincipal_Classification]protoreflect.FullName{
	mspb.MSPPrincipal_ROLE:              nameOf(&mspb.MSPRole{}),
	mspb.MSPPrincipal_ORGANIZATION_UNIT: nameOf(&mspb.OrganizationUnit{}),
	mspb.MSPPrincipal_IDENTITY:          msgSerializedIdentity,
	mspb.MSPPrincipal_ANONYMITY:         nameOf(&mspb.MSPIdentityAnonymity{}),
	mspb.MSPPrincipal_COMBINED:          nameOf(&mspb.CombinedPrincipal{}),
}

// FindMatchingMessageName resolves the message type of the bytes held by a
// field. The field's siblings in parent and its path within the document are
// consulted by a table of overrides before the registry is searched for a
// message named after the field.
func (d *Decoder) FindMatchingMessageName(
	field string,
	parent object.Object,
	path string,
) Resolution {
	segs := strings.Split(path, ".")
	if res, ok := d.override(field, parent, segs); ok {
		return res
	}
	if desc, ok := d.registry.FindByName(object.TitleCase(field)); ok {
		return decodeAs(desc.FullName())
	}
	return keep
}

func (d *Decoder) override(
	field string,
	parent object.Object,
	segs []string,
) (Resolution, bool) {
	switch field {
	case "data":
		// Entries of the block data
		if matchPath(segs, "data", "data", "*") {
			return decodeAs(msgEnvelope), true
		}
		if header, ok := parent["header"].(map[string]any); ok {
			return d.payloadData(header), true
		}
	case "metadata":
		if matchPath(segs, "metadata", "metadata", "*") {
			slot, _ := strconv.Atoi(segs[2])
			if slot == common.MetadataSignatures || slot == common.MetadataLastConfig {
				return decodeAs(msgMetadata), true
			}
			return keep, true
		}
		if consensusType, ok := parent["type"].(string); ok {
			if msg := common.ConsensusMetadata(consensusType); msg != nil {
				return decodeAs(nameOf(msg)), true
			}
			return keep, true
		}
	case "value":
		return d.valueOverride(parent, segs), true
	case "config":
		mspType, ok := parent["type"].(int32)
		if !ok {
			break
		}
		switch mspType {
		case 0:
			return decodeAs(msgFabricMSPConfig), true
		case 1:
			return decodeAs(msgIdemixMSPConfig), true
		}
		d.logger.Error("MSP type is not supported, leaving undecoded", "type", mspType)
		return keep, true
	case "principal":
		return d.principal(parent), true
	case "creator", "endorser":
		return decodeAs(msgSerializedIdentity), true
	case "header":
		if underActions(segs) {
			return decodeAs(msgSignatureHeader), true
		}
	case "payload":
		if underActions(segs) {
			return decodeAs(msgChaincodeActionPayload), true
		}
		// Event and response payloads are application defined
		if hasAny(parent, "event_name", "status") {
			return keep, true
		}
	case "input":
		return decodeAs(msgChaincodeInvocation), true
	case "extension":
		if hasAny(parent, "proposal_hash") {
			return decodeAs(msgChaincodeAction), true
		}
		return keep, true
	case "results":
		return decodeAs(msgTxReadWriteSet), true
	case "rwset", "hashed_rwset":
		if hasAny(parent, "namespace") {
			return decodeAs(msgKVRWSet), true
		}
		if hasAny(parent, "collection_name") {
			return decodeAs(msgHashedRWSet), true
		}
		return keep, true
	case "events":
		return decodeAs(msgChaincodeEvent), true
	case "args":
		return Resolution{Action: ActionText}, true
	}
	return Resolution{}, false
}

// payloadData resolves the payload data type from the decoded channel header
func (d *Decoder) payloadData(header object.Object) Resolution {
	channelHeader, _ := header["channel_header"].(map[string]any)
	headerType, ok := channelHeader["type"].(int32)
	if !ok {
		d.logger.Warn("payload has no decoded channel header, leaving data undecoded")
		return keep
	}
	switch cb.HeaderType(headerType) {
	case cb.HeaderType_CONFIG:
		return decodeAs(msgConfigEnvelope)
	case cb.HeaderType_CONFIG_UPDATE:
		return decodeAs(msgConfigUpdateEnvelope)
	case cb.HeaderType_ENDORSER_TRANSACTION:
		return decodeAs(msgTransaction)
	}
	d.logger.Error(
		"payload type is not supported, leaving undecoded",
		"error", common.UnsupportedError{
			Kind:  "header type",
			Value: cb.HeaderType(headerType).String(),
		},
	)
	return keep
}

func (d *Decoder) valueOverride(parent object.Object, segs []string) Resolution {
	switch {
	case matchPath(segs, "metadata", "metadata", "*", "value"):
		if segs[2] == strconv.Itoa(common.MetadataLastConfig) {
			return decodeAs(msgLastConfig)
		}
		return keep
	case lastSegment(segs, 2) == "policy",
		lastSegment(segs, 3) == string(common.KeyChannelCreationPolicy) &&
			lastSegment(segs, 2) == "value":
		return d.policyValue(parent)
	case lastSegment(segs, 3) == "values":
		key := common.ConfigValueKey(lastSegment(segs, 2))
		if name, ok := key.MessageName(); ok {
			return decodeAs(name)
		}
		if desc, ok := d.registry.FindByName(object.TitleCase(string(key))); ok {
			return decodeAs(desc.FullName())
		}
		d.logger.Warn("no decoder for config value, leaving undecoded", "key", key)
		return keep
	case lastSegment(segs, 3) == "writes":
		return keep
	}
	return keep
}

// policyValue resolves the type of a policy value from the policy type
func (d *Decoder) policyValue(parent object.Object) Resolution {
	policyType, _ := parent["type"].(int32)
	switch cb.Policy_PolicyType(policyType) {
	case cb.Policy_SIGNATURE:
		return decodeAs(msgSignaturePolicy)
	case cb.Policy_IMPLICIT_META:
		return decodeAs(msgImplicitMetaPolicy)
	}
	d.logger.Error(
		"policy type is not supported, leaving undecoded",
		"error", common.UnsupportedError{
			Kind:  "policy type",
			Value: cb.Policy_PolicyType(policyType).String(),
		},
	)
	return keep
}

// principal resolves the principal type from its classification, which is
// rendered as the enum value name
func (d *Decoder) principal(parent object.Object) Resolution {
	raw := parent["principal_classification"]
	var classification mspb.MSPPrincipal_Classification
	known := false
	switch v := raw.(type) {
	case string:
		var value int32
		value, known = mspb.MSPPrincipal_Classification_value[v]
		classification = mspb.MSPPrincipal_Classification(value)
	case int32:
		classification = mspb.MSPPrincipal_Classification(v)
		known = true
	}
	if known {
		if name, ok := principalMessages[classification]; ok {
			return decodeAs(name)
		}
	}
	d.logger.Error(
		"principal classification is not supported, leaving undecoded",
		"classification", raw,
	)
	return keep
}

// matchPath reports whether the path segments match the pattern, where "*"
// matches any segment
func matchPath(segs []string, pattern ...string) bool {
	if len(segs) != len(pattern) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != segs[i] {
			return false
		}
	}
	return true
}

// lastSegment returns the nth path segment counting from the end, starting
// at 1 for the field itself
func lastSegment(segs []string, n int) string {
	seg, err := lo.Nth(segs, -n)
	if err != nil {
		return ""
	}
	return seg
}

// underActions reports whether a field belongs to a transaction action
func underActions(segs []string) bool {
	return lastSegment(segs, 3) == "actions"
}

func hasAny(parent object.Object, keys ...string) bool {
	return lo.SomeBy(keys, func(key string) bool {
		_, ok := parent[key]
		return ok
	})
}

// asText renders bytes as text, falling back to base64 for invalid UTF-8
func asText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return base64.StdEncoding.EncodeToString(raw)
}
