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
package heuristic_test

import (
	"bytes"
	"strings"
	"testing"

	cb "github.com/hyperledger/fabric-protos-go-apiv2/common"
	mspb "github.com/hyperledger/fabric-protos-go-apiv2/msp"
	ab "github.com/hyperledger/fabric-protos-go-apiv2/orderer"
	"github.com/hyperledger/fabric-protos-go-apiv2/orderer/etcdraft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/gofabric/heuristic"
	"github.com/blinklabs-io/gofabric/internal/test"
	"github.com/blinklabs-io/gofabric/internal/test/fixtures"
	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

func newTestDecoder() (*heuristic.Decoder, *bytes.Buffer) {
	logger, buf := test.NewBufferLogger()
	return heuristic.NewDecoder(heuristic.WithLogger(logger)), buf
}

func TestDecodeBlockMissingData(t *testing.T) {
	decoder, _ := newTestDecoder()
	_, err := decoder.DecodeBlock(test.DecodeHexString("0a020805"))
	assert.ErrorIs(t, err, common.ErrMissingBlockData)
}

func TestDecodeBlockNotABlock(t *testing.T) {
	decoder, _ := newTestDecoder()
	_, err := decoder.DecodeBlock([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode block")
}

func TestDecodeEndorserBlock(t *testing.T) {
	decoder, _ := newTestDecoder()
	doc, err := decoder.DecodeBlock(fixtures.EndorserBlock(1, "basic", "put", "k1", "v1"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), test.Dig(doc, "header", "number"))
	assert.Equal(t, "AQI=", test.Dig(doc, "header", "previous_hash"))

	env := test.Dig(doc, "data", "data", 0)
	assert.Equal(t, "qrs=", test.Dig(env, "signature"))
	channelHeader := test.Dig(env, "payload", "header", "channel_header")
	assert.Equal(t, int32(cb.HeaderType_ENDORSER_TRANSACTION), test.Dig(channelHeader, "type"))
	assert.Equal(t, fixtures.TxID, test.Dig(channelHeader, "tx_id"))
	assert.Equal(t, "1", test.Dig(channelHeader, "version"))
	assert.Equal(t, "2024-01-02T03:04:05Z", test.Dig(channelHeader, "timestamp"))
	assert.Equal(t, "", test.Dig(channelHeader, "extension"))
	creator := test.Dig(env, "payload", "header", "signature_header", "creator")
	assert.Equal(t, fixtures.MSPID, test.Dig(creator, "mspid"))
	assert.Equal(t, "Y3JlYXRvci1jZXJ0", test.Dig(creator, "id_bytes"))

	action := test.Dig(env, "payload", "data", "actions", 0)
	assert.Equal(t, fixtures.MSPID, test.Dig(action, "header", "creator", "mspid"))
	spec := test.Dig(
		action,
		"payload", "chaincode_proposal_payload", "input", "chaincode_spec",
	)
	assert.Equal(t, "GOLANG", test.Dig(spec, "type"))
	assert.Equal(t, []any{"put", "k1", "v1"}, test.Dig(spec, "input", "args"))

	endorsed := test.Dig(action, "payload", "action")
	assert.Equal(t, fixtures.MSPID, test.Dig(endorsed, "endorsements", 0, "endorser", "mspid"))
	responsePayload := test.Dig(endorsed, "proposal_response_payload")
	assert.Equal(t, "Dw==", test.Dig(responsePayload, "proposal_hash"))
	extension := test.Dig(responsePayload, "extension")
	assert.Equal(t, int32(200), test.Dig(extension, "response", "status"))
	assert.Equal(t, "b2s=", test.Dig(extension, "response", "payload"))
	assert.Equal(t, "updated", test.Dig(extension, "events", "event_name"))
	assert.Equal(t, "ZXZlbnQtcGF5bG9hZA==", test.Dig(extension, "events", "payload"))

	results := test.Dig(extension, "results")
	assert.Equal(t, "KV", test.Dig(results, "data_model"))
	write := test.Dig(results, "ns_rwset", 0, "rwset", "writes", 0)
	assert.Equal(t, "k1", test.Dig(write, "key"))
	assert.Equal(t, "djE=", test.Dig(write, "value"))
}

func TestDecodeBlockMetadata(t *testing.T) {
	decoder, _ := newTestDecoder()
	doc, err := decoder.DecodeBlock(fixtures.EndorserBlock(4, "basic", "get", "k1"))
	require.NoError(t, err)
	signatures := test.Dig(doc, "metadata", "metadata", 0)
	assert.Equal(t, "", test.Dig(signatures, "value"))
	assert.Equal(
		t,
		"OrdererMSP",
		test.Dig(signatures, "signatures", 0, "signature_header", "creator", "mspid"),
	)
	assert.Equal(t, uint64(4), test.Dig(doc, "metadata", "metadata", 1, "value", "index"))
	// The transaction filter is left undecoded
	assert.Equal(t, "AA==", test.Dig(doc, "metadata", "metadata", 2))
}

func testConfigGroup() *cb.ConfigGroup {
	return &cb.ConfigGroup{
		Groups: map[string]*cb.ConfigGroup{
			"Orderer": {
				Values: map[string]*cb.ConfigValue{
					"BatchSize": fixtures.ConfigValue(&ab.BatchSize{MaxMessageCount: 10}),
					"ConsensusType": fixtures.ConfigValue(&ab.ConsensusType{
						Type: common.ConsensusTypeEtcdRaft,
						Metadata: fixtures.Marshal(&etcdraft.ConfigMetadata{
							Consenters: []*etcdraft.Consenter{
								{Host: "orderer0.example.com", Port: 7050},
							},
						}),
					}),
				},
				Policies: map[string]*cb.ConfigPolicy{
					"BlockValidation": fixtures.SignaturePolicy("OrdererMSP"),
				},
			},
			"Org1MSP": {
				Values: map[string]*cb.ConfigValue{
					"MSP": fixtures.ConfigValue(&mspb.MSPConfig{
						Type:   0,
						Config: fixtures.Marshal(&mspb.FabricMSPConfig{Name: "Org1MSP"}),
					}),
				},
			},
			"Consortiums": {
				Values: map[string]*cb.ConfigValue{
					"ChannelCreationPolicy": fixtures.ConfigValue(&cb.Policy{
						Type: int32(cb.Policy_IMPLICIT_META),
						Value: fixtures.Marshal(&cb.ImplicitMetaPolicy{
							SubPolicy: "Admins",
							Rule:      cb.ImplicitMetaPolicy_ANY,
						}),
					}),
				},
			},
		},
		Values: map[string]*cb.ConfigValue{
			"LastConfig": fixtures.ConfigValue(&cb.LastConfig{Index: 9}),
			"FooBar":     {Value: []byte{0x01, 0x02}},
		},
		Policies: map[string]*cb.ConfigPolicy{
			"Admins": fixtures.ImplicitMetaPolicy(cb.ImplicitMetaPolicy_MAJORITY, "Admins"),
			"Unsupported": {
				Policy: &cb.Policy{Type: int32(cb.Policy_MSP), Value: []byte{0x0a}},
			},
		},
	}
}

func decodeTestConfig(t *testing.T) (object.Object, string) {
	t.Helper()
	decoder, logs := newTestDecoder()
	doc, err := decoder.DecodeBlock(fixtures.ConfigBlock(0, testConfigGroup()))
	require.NoError(t, err)
	config, ok := test.Dig(doc, "data", "data", 0, "payload", "data", "config").(object.Object)
	require.True(t, ok, "config not found")
	return config, logs.String()
}

func TestDecodeConfigBlock(t *testing.T) {
	config, logs := decodeTestConfig(t)
	assert.Equal(t, "3", test.Dig(config, "sequence"))
	group := test.Dig(config, "channel_group")
	orderer := test.Dig(group, "groups", "Orderer")
	assert.Equal(t, "0", test.Dig(orderer, "version"))
	assert.Equal(t, uint32(10), test.Dig(orderer, "values", "BatchSize", "value", "max_message_count"))
	assert.Equal(t, "0", test.Dig(orderer, "values", "BatchSize", "version"))
	assert.Equal(t, "Admins", test.Dig(orderer, "values", "BatchSize", "mod_policy"))

	consensus := test.Dig(orderer, "values", "ConsensusType", "value")
	assert.Equal(t, "STATE_NORMAL", test.Dig(consensus, "state"))
	assert.Equal(t, "orderer0.example.com", test.Dig(consensus, "metadata", "consenters", 0, "host"))

	assert.Equal(
		t,
		"Org1MSP",
		test.Dig(group, "groups", "Org1MSP", "values", "MSP", "value", "config", "name"),
	)
	assert.Equal(t, uint64(9), test.Dig(group, "values", "LastConfig", "value", "index"))
	assert.Equal(t, "AQI=", test.Dig(group, "values", "FooBar", "value"))
	assert.Contains(t, logs, "no decoder for config value")
	assert.Contains(t, logs, "key=FooBar")
}

func TestDecodeConfigPolicies(t *testing.T) {
	config, logs := decodeTestConfig(t)
	group := test.Dig(config, "channel_group")

	admins := test.Dig(group, "policies", "Admins", "policy", "value")
	assert.Equal(t, object.Object{"sub_policy": "Admins", "rule": "MAJORITY"}, admins)

	envelope := test.Dig(group, "groups", "Orderer", "policies", "BlockValidation", "policy", "value")
	// A signature policy envelope keeps a numeric version
	assert.Equal(t, int32(0), test.Dig(envelope, "version"))
	assert.Equal(t, int32(1), test.Dig(envelope, "rule", "n_out_of", "n"))
	identity := test.Dig(envelope, "identities", 0)
	assert.Equal(t, "ROLE", test.Dig(identity, "principal_classification"))
	assert.Equal(t, "OrdererMSP", test.Dig(identity, "principal", "msp_identifier"))
	assert.Equal(t, "MEMBER", test.Dig(identity, "principal", "role"))

	creation := test.Dig(group, "groups", "Consortiums", "values", "ChannelCreationPolicy", "value")
	assert.Equal(t, "ANY", test.Dig(creation, "value", "rule"))

	assert.Equal(t, "Cg==", test.Dig(group, "policies", "Unsupported", "policy", "value"))
	assert.Contains(t, logs, "policy type is not supported")
}

func TestDecodeConfigPrincipals(t *testing.T) {
	group := &cb.ConfigGroup{
		Policies: map[string]*cb.ConfigPolicy{
			"Writers": fixtures.PrincipalPolicy(
				fixtures.Principal(mspb.MSPPrincipal_ORGANIZATION_UNIT, &mspb.OrganizationUnit{
					MspIdentifier:                "Org1MSP",
					OrganizationalUnitIdentifier: "peers",
				}),
				fixtures.Principal(mspb.MSPPrincipal_ANONYMITY, &mspb.MSPIdentityAnonymity{
					AnonymityType: mspb.MSPIdentityAnonymity_ANONYMOUS,
				}),
				fixtures.Principal(mspb.MSPPrincipal_COMBINED, &mspb.CombinedPrincipal{
					Principals: []*mspb.MSPPrincipal{
						fixtures.Principal(mspb.MSPPrincipal_ROLE, &mspb.MSPRole{
							MspIdentifier: "Org2MSP",
							Role:          mspb.MSPRole_ADMIN,
						}),
						fixtures.Principal(mspb.MSPPrincipal_IDENTITY, &mspb.SerializedIdentity{
							Mspid:   "Org2MSP",
							IdBytes: []byte("admin-cert"),
						}),
					},
				}),
			),
		},
	}
	decoder, logs := newTestDecoder()
	doc, err := decoder.DecodeBlock(fixtures.ConfigBlock(0, group))
	require.NoError(t, err)
	identities := test.Dig(
		doc,
		"data", "data", 0, "payload", "data", "config", "channel_group",
		"policies", "Writers", "policy", "value", "identities",
	)

	ou := test.Dig(identities, 0)
	assert.Equal(t, "ORGANIZATION_UNIT", test.Dig(ou, "principal_classification"))
	assert.Equal(t, "Org1MSP", test.Dig(ou, "principal", "msp_identifier"))
	assert.Equal(t, "peers", test.Dig(ou, "principal", "organizational_unit_identifier"))

	anonymity := test.Dig(identities, 1)
	assert.Equal(t, "ANONYMOUS", test.Dig(anonymity, "principal", "anonymity_type"))

	combined := test.Dig(identities, 2, "principal", "principals")
	assert.Equal(t, "Org2MSP", test.Dig(combined, 0, "principal", "msp_identifier"))
	assert.Equal(t, "ADMIN", test.Dig(combined, 0, "principal", "role"))
	assert.Equal(t, "Org2MSP", test.Dig(combined, 1, "principal", "mspid"))
	assert.NotContains(t, logs.String(), "principal classification is not supported")
}

func TestDecodeBFTConsensusMetadata(t *testing.T) {
	group := &cb.ConfigGroup{
		Groups: map[string]*cb.ConfigGroup{
			"Orderer": {
				Values: map[string]*cb.ConfigValue{
					"ConsensusType": fixtures.ConfigValue(&ab.ConsensusType{
						Type: common.ConsensusTypeBFT,
						// request_batch_max_count = 100
						Metadata: test.DecodeHexString("0864"),
					}),
				},
			},
		},
	}
	decoder, _ := newTestDecoder()
	doc, err := decoder.DecodeBlock(fixtures.ConfigBlock(0, group))
	require.NoError(t, err)
	consensus := test.Dig(
		doc,
		"data", "data", 0, "payload", "data", "config", "channel_group",
		"groups", "Orderer", "values", "ConsensusType", "value",
	)
	assert.Equal(t, common.ConsensusTypeBFT, test.Dig(consensus, "type"))
	assert.Equal(t, uint64(100), test.Dig(consensus, "metadata", "request_batch_max_count"))
}

func TestDecodeUnsupportedPayload(t *testing.T) {
	decoder, logs := newTestDecoder()
	block := fixtures.Block(0, fixtures.Envelope(cb.HeaderType_MESSAGE, "", []byte{0x01}))
	doc, err := decoder.DecodeBlock(block)
	require.NoError(t, err)
	assert.Equal(t, "AQ==", test.Dig(doc, "data", "data", 0, "payload", "data"))
	assert.Contains(t, logs.String(), "payload type is not supported")
}

func TestDecodeUndecodableEnvelope(t *testing.T) {
	decoder, _ := newTestDecoder()
	doc, err := decoder.DecodeBlock(fixtures.Block(0, []byte{0xff, 0xff}))
	require.NoError(t, err)
	assert.Equal(t, "//8=", test.Dig(doc, "data", "data", 0))
}

func TestFindBinaryDepthLimit(t *testing.T) {
	logger, logs := test.NewBufferLogger()
	decoder := heuristic.NewDecoder(heuristic.WithLogger(logger))
	root := object.Object{}
	cur := root
	for range common.MaxHeuristicDepth + 10 {
		next := object.Object{}
		cur["child"] = next
		cur = next
	}
	cur["previous_hash"] = []byte{0x01}
	decoder.FindBinary(root, "")
	// Bytes past the limit are left untouched
	assert.Equal(t, []byte{0x01}, cur["previous_hash"])
	assert.Equal(t, 1, strings.Count(logs.String(), "maximum decode depth exceeded"))
	assert.Contains(t, logs.String(), "level=ERROR")
}

func TestFindBinaryShallow(t *testing.T) {
	decoder, _ := newTestDecoder()
	doc := object.Object{
		"header": object.Object{"creator": fixtures.Identity("Org2MSP", "cert")},
		"other":  []byte{0x01, 0x02},
		"empty":  []byte{},
	}
	decoder.FindBinary(doc, "")
	assert.Equal(t, "Org2MSP", test.Dig(doc, "header", "creator", "mspid"))
	assert.Equal(t, "AQI=", doc["other"])
	assert.Equal(t, "", doc["empty"])
}

func TestDecoderConcurrentUse(t *testing.T) {
	decoder, _ := newTestDecoder()
	block := fixtures.EndorserBlock(1, "basic", "put", "k1", "v1")
	expected, err := decoder.DecodeBlock(block)
	require.NoError(t, err)
	results := make(chan object.Object, 4)
	for range 4 {
		go func() {
			doc, _ := decoder.DecodeBlock(block)
			results <- doc
		}()
	}
	for range 4 {
		assert.Equal(t, expected, <-results)
	}
}
