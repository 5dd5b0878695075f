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
	"google.golang.org/protobuf/proto"

	"github.com/blinklabs-io/gofabric/ledger/common"
	"github.com/blinklabs-io/gofabric/object"
)

// DecodePolicy decodes policy bytes according to the policy type. It returns
// nil for policy types which are unknown or not supported, and for policies
// which fail to decode.
func (d *Decoder) DecodePolicy(policyType int32, data []byte) any {
	logger := d.logger.With("type", cb.Policy_PolicyType(policyType).String())
	var ret object.Object
	var err error
	switch cb.Policy_PolicyType(policyType) {
	case cb.Policy_SIGNATURE:
		ret, err = d.decodeSignaturePolicy(data)
	case cb.Policy_IMPLICIT_META:
		ret, err = decodeImplicitMetaPolicy(data)
	case cb.Policy_MSP:
		logger.Error(
			"MSP policy type is not supported, leaving undecoded",
			"error", common.UnsupportedError{Kind: "policy type", Value: "MSP"},
		)
		return nil
	default:
		logger.Error(
			"unknown policy type, leaving undecoded",
			"error", common.UnsupportedError{
				Kind:  "policy type",
				Value: fmt.Sprintf("%d", policyType),
			},
		)
		return nil
	}
	if err != nil {
		logger.Warn("failed to decode policy, leaving undecoded", "error", err)
		return nil
	}
	return ret
}

// decodeSignaturePolicy decodes a signature policy envelope including the
// principal of every identity it references
func (d *Decoder) decodeSignaturePolicy(data []byte) (object.Object, error) {
	var env cb.SignaturePolicyEnvelope
	if err := proto.Unmarshal(data, &env); err != nil {
		return nil, common.DecodeError{Message: "signature policy", Err: err}
	}
	ret := object.FromMessage(&env, object.StyleProtoc)
	identities := make([]any, 0, len(env.GetIdentities()))
	for _, principal := range env.GetIdentities() {
		decoded, err := DecodePrincipal(principal)
		if err != nil {
			return nil, err
		}
		identities = append(identities, object.Object{
			"principalClassification": int32(principal.GetPrincipalClassification()),
			"principal":               decoded,
		})
	}
	ret["identitiesList"] = identities
	return deepCopy(ret), nil
}

// DecodePrincipal decodes the principal bytes of an MSP principal according
// to its classification
func DecodePrincipal(principal *mspb.MSPPrincipal) (object.Object, error) {
	var msg proto.Message
	switch principal.GetPrincipalClassification() {
	case mspb.MSPPrincipal_ROLE:
		msg = &mspb.MSPRole{}
	case mspb.MSPPrincipal_ORGANIZATION_UNIT:
		msg = &mspb.OrganizationUnit{}
	case mspb.MSPPrincipal_IDENTITY:
		return DecodeIdentity(principal.GetPrincipal())
	case mspb.MSPPrincipal_ANONYMITY:
		msg = &mspb.MSPIdentityAnonymity{}
	case mspb.MSPPrincipal_COMBINED:
		msg = &mspb.CombinedPrincipal{}
	default:
		return nil, common.UnsupportedError{
			Kind:  "principal classification",
			Value: principal.GetPrincipalClassification().String(),
		}
	}
	if err := proto.Unmarshal(principal.GetPrincipal(), msg); err != nil {
		return nil, common.DecodeError{Message: "MSP principal", Err: err}
	}
	return object.FromMessage(msg, object.StyleProtoc), nil
}

func decodeImplicitMetaPolicy(data []byte) (object.Object, error) {
	var policy cb.ImplicitMetaPolicy
	if err := proto.Unmarshal(data, &policy); err != nil {
		return nil, common.DecodeError{Message: "implicit meta policy", Err: err}
	}
	return object.Object{
		"subPolicy": policy.GetSubPolicy(),
		"rule":      ImplicitMetaRuleName(policy.GetRule()),
	}, nil
}

// ImplicitMetaRuleName returns the readable name of an implicit meta policy
// rule, such as "MAJORITY"
func ImplicitMetaRuleName(rule cb.ImplicitMetaPolicy_Rule) string {
	return rule.String()
}

// deepCopy returns a copy of a decoded policy with nil fields dropped, so
// that the result is safe to serialize. The original is returned if copying
// fails.
func deepCopy(src object.Object) (ret object.Object) {
	defer func() {
		if r := recover(); r != nil {
			ret = src
		}
	}()
	copied, ok := object.Clone(src).(object.Object)
	if !ok {
		return src
	}
	return copied
}
