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

import (
	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	ab "github.com/hyperledger/fabric-protos-go-apiv2/orderer"
	"github.com/hyperledger/fabric-protos-go-apiv2/orderer/etcdraft"
	"github.com/hyperledger/fabric-protos-go-apiv2/orderer/smartbft"
	pb "github.com/hyperledger/fabric-protos-go-apiv2/peer"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ConfigValueKey is the map key of a config value within a config group. The
// key determines the message type carried in the value bytes.
type ConfigValueKey string

// Config value keys with a known message type
const (
	KeyConsensusType             ConfigValueKey = "ConsensusType"
	KeyBatchSize                 ConfigValueKey = "BatchSize"
	KeyBatchTimeout              ConfigValueKey = "BatchTimeout"
	KeyChannelRestrictions       ConfigValueKey = "ChannelRestrictions"
	KeyConsortium                ConfigValueKey = "Consortium"
	KeyHashingAlgorithm          ConfigValueKey = "HashingAlgorithm"
	KeyBlockDataHashingStructure ConfigValueKey = "BlockDataHashingStructure"
	KeyOrdererAddresses          ConfigValueKey = "OrdererAddresses"
	KeyEndpoints                 ConfigValueKey = "Endpoints"
	KeyCapabilities              ConfigValueKey = "Capabilities"
	KeyMSP                       ConfigValueKey = "MSP"
	KeyAnchorPeers               ConfigValueKey = "AnchorPeers"
	KeyACLs                      ConfigValueKey = "ACLs"
	KeyChannelCreationPolicy     ConfigValueKey = "ChannelCreationPolicy"
)

// New returns an empty message of the type carried by values with this key,
// or nil if the key is not known
func (k ConfigValueKey) New() proto.Message {
	switch k {
	case KeyConsensusType:
		return &ab.ConsensusType{}
	case KeyBatchSize:
		return &ab.BatchSize{}
	case KeyBatchTimeout:
		return &ab.BatchTimeout{}
	case KeyChannelRestrictions:
		return &ab.ChannelRestrictions{}
	case KeyConsortium:
		return &cb.Consortium{}
	case KeyHashingAlgorithm:
		return &cb.HashingAlgorithm{}
	case KeyBlockDataHashingStructure:
		return &cb.BlockDataHashingStructure{}
	case KeyOrdererAddresses, KeyEndpoints:
		return &cb.OrdererAddresses{}
	case KeyCapabilities:
		return &cb.Capabilities{}
	case KeyMSP:
		return &mspb.MSPConfig{}
	case KeyAnchorPeers:
		return &pb.AnchorPeers{}
	case KeyACLs:
		return &pb.ACLs{}
	case KeyChannelCreationPolicy:
		return &cb.Policy{}
	}
	return nil
}

// MessageName returns the fully-qualified name of the message carried by
// values with this key
func (k ConfigValueKey) MessageName() (protoreflect.FullName, bool) {
	msg := k.New()
	if msg == nil {
		return "", false
	}
	return msg.ProtoReflect().Descriptor().FullName(), true
}

// Consensus implementations with their own metadata message
const (
	ConsensusTypeEtcdRaft = "etcdraft"
	ConsensusTypeBFT      = "BFT"
)

// ConsensusMetadata returns an empty message of the type carried by the
// metadata of the consensus implementation, or nil if it has none
func ConsensusMetadata(consensusType string) proto.Message {
	switch consensusType {
	case ConsensusTypeEtcdRaft:
		return &etcdraft.ConfigMetadata{}
	case ConsensusTypeBFT:
		return &smartbft.Options{}
	}
	return nil
}

// Block metadata slots with a fixed layout
const (
	MetadataSignatures = 0
	MetadataLastConfig = 1
)
