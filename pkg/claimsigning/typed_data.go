// Copyright © 2026 OpenCredit Contributors
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package claimsigning builds the EIP-712 typed-data digests that every
// approval permit must be signed over. The domain separator binds protocol
// name, version, chain id and deployment address, and every payload embeds
// the owner's current nonce for the sub-record being replaced - together
// these are the whole replay-prevention story.
package claimsigning

import (
	"context"
	"strconv"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/eip712"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsconf"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

var permitTypes = eip712.TypeSet{
	"PermitCreateClaim": {
		{Name: "owner", Type: "address"},
		{Name: "delegate", Type: "address"},
		{Name: "approvalType", Type: "uint8"},
		{Name: "approvalCount", Type: "uint64"},
		{Name: "isBindingAllowed", Type: "bool"},
		{Name: "nonce", Type: "uint64"},
	},
	"PermitPayClaim": {
		{Name: "owner", Type: "address"},
		{Name: "delegate", Type: "address"},
		{Name: "approvalType", Type: "uint8"},
		{Name: "approvalDeadline", Type: "uint64"},
		{Name: "claimApprovals", Type: "ClaimPaymentApproval[]"},
		{Name: "nonce", Type: "uint64"},
	},
	"ClaimPaymentApproval": {
		{Name: "claimId", Type: "uint64"},
		{Name: "approvedAmount", Type: "uint256"},
		{Name: "approvalDeadline", Type: "uint64"},
	},
	"PermitCancelClaim": {
		{Name: "owner", Type: "address"},
		{Name: "delegate", Type: "address"},
		{Name: "approvalCount", Type: "uint64"},
		{Name: "nonce", Type: "uint64"},
	},
	"PermitUpdateBinding": {
		{Name: "owner", Type: "address"},
		{Name: "delegate", Type: "address"},
		{Name: "approvalCount", Type: "uint64"},
		{Name: "nonce", Type: "uint64"},
	},
	eip712.EIP712Domain: {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
}

// Wire ordinals of the enums inside signed payloads. These are part of the
// signature format and must never be re-ordered.
var createApprovalOrdinals = map[claimsapi.CreateApprovalType]uint8{
	claimsapi.CreateApprovalUnapproved:   0,
	claimsapi.CreateApprovalApproved:     1,
	claimsapi.CreateApprovalCreditorOnly: 2,
	claimsapi.CreateApprovalDebtorOnly:   3,
}

var payApprovalOrdinals = map[claimsapi.PayApprovalType]uint8{
	claimsapi.PayApprovalUnapproved:  0,
	claimsapi.PayApprovalForSpecific: 1,
	claimsapi.PayApprovalForAll:      2,
}

type PermitCreateClaimPayload struct {
	Owner            claimtypes.EthAddress
	Delegate         claimtypes.EthAddress
	ApprovalType     claimsapi.CreateApprovalType
	ApprovalCount    uint64
	IsBindingAllowed bool
	Nonce            uint64
}

type PermitPayClaimPayload struct {
	Owner            claimtypes.EthAddress
	Delegate         claimtypes.EthAddress
	ApprovalType     claimsapi.PayApprovalType
	ApprovalDeadline claimtypes.Timestamp
	ClaimApprovals   []*claimsapi.ClaimPaymentApproval
	Nonce            uint64
}

type PermitCancelClaimPayload struct {
	Owner         claimtypes.EthAddress
	Delegate      claimtypes.EthAddress
	ApprovalCount uint64
	Nonce         uint64
}

type PermitUpdateBindingPayload struct {
	Owner         claimtypes.EthAddress
	Delegate      claimtypes.EthAddress
	ApprovalCount uint64
	Nonce         uint64
}

// Domain is the resolved EIP-712 domain all permit digests bind to
type Domain struct {
	name              string
	version           string
	chainID           int64
	verifyingContract *claimtypes.EthAddress
}

func NewDomain(ctx context.Context, conf *claimsconf.SigningDomainConfig) (*Domain, error) {
	if conf.ChainID == 0 {
		return nil, i18n.NewError(ctx, msgs.MsgConfigMissingChainID)
	}
	verifyingContract, err := claimtypes.ParseEthAddress(conf.VerifyingContract)
	if err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgConfigMissingVerifyingAddress)
	}
	return &Domain{
		name:              claimsconf.StringNotEmpty(&conf.Name, claimsconf.SigningDomainDefaults.Name),
		version:           claimsconf.StringNotEmpty(&conf.Version, claimsconf.SigningDomainDefaults.Version),
		chainID:           conf.ChainID,
		verifyingContract: verifyingContract,
	}, nil
}

func (d *Domain) ChainID() int64 {
	return d.chainID
}

func (d *Domain) typedData(primaryType string, message map[string]interface{}) *eip712.TypedData {
	return &eip712.TypedData{
		Types:       permitTypes,
		PrimaryType: primaryType,
		Domain: map[string]interface{}{
			"name":              d.name,
			"version":           d.version,
			"chainId":           strconv.FormatInt(d.chainID, 10),
			"verifyingContract": d.verifyingContract.String(),
		},
		Message: message,
	}
}

func (d *Domain) digest(ctx context.Context, primaryType string, message map[string]interface{}) (claimtypes.HexBytes, error) {
	tdv4, err := eip712.EncodeTypedDataV4(ctx, d.typedData(primaryType, message))
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgSigPayloadEncodingFailed)
	}
	return claimtypes.HexBytes(tdv4), nil
}

func (d *Domain) PermitCreateClaimDigest(ctx context.Context, p *PermitCreateClaimPayload) (claimtypes.HexBytes, error) {
	return d.digest(ctx, "PermitCreateClaim", map[string]interface{}{
		"owner":            p.Owner.String(),
		"delegate":         p.Delegate.String(),
		"approvalType":     strconv.Itoa(int(createApprovalOrdinals[p.ApprovalType])),
		"approvalCount":    strconv.FormatUint(p.ApprovalCount, 10),
		"isBindingAllowed": p.IsBindingAllowed,
		"nonce":            strconv.FormatUint(p.Nonce, 10),
	})
}

func (d *Domain) PermitPayClaimDigest(ctx context.Context, p *PermitPayClaimPayload) (claimtypes.HexBytes, error) {
	claimApprovals := make([]interface{}, len(p.ClaimApprovals))
	for i, ca := range p.ClaimApprovals {
		approvedAmount := "0"
		if ca.ApprovedAmount != nil {
			approvedAmount = ca.ApprovedAmount.String()
		}
		claimApprovals[i] = map[string]interface{}{
			"claimId":          strconv.FormatUint(ca.ClaimID, 10),
			"approvedAmount":   approvedAmount,
			"approvalDeadline": deadlineSeconds(ca.ApprovalDeadline),
		}
	}
	return d.digest(ctx, "PermitPayClaim", map[string]interface{}{
		"owner":            p.Owner.String(),
		"delegate":         p.Delegate.String(),
		"approvalType":     strconv.Itoa(int(payApprovalOrdinals[p.ApprovalType])),
		"approvalDeadline": deadlineSeconds(p.ApprovalDeadline),
		"claimApprovals":   claimApprovals,
		"nonce":            strconv.FormatUint(p.Nonce, 10),
	})
}

func (d *Domain) PermitCancelClaimDigest(ctx context.Context, p *PermitCancelClaimPayload) (claimtypes.HexBytes, error) {
	return d.digest(ctx, "PermitCancelClaim", map[string]interface{}{
		"owner":         p.Owner.String(),
		"delegate":      p.Delegate.String(),
		"approvalCount": strconv.FormatUint(p.ApprovalCount, 10),
		"nonce":         strconv.FormatUint(p.Nonce, 10),
	})
}

func (d *Domain) PermitUpdateBindingDigest(ctx context.Context, p *PermitUpdateBindingPayload) (claimtypes.HexBytes, error) {
	return d.digest(ctx, "PermitUpdateBinding", map[string]interface{}{
		"owner":         p.Owner.String(),
		"delegate":      p.Delegate.String(),
		"approvalCount": strconv.FormatUint(p.ApprovalCount, 10),
		"nonce":         strconv.FormatUint(p.Nonce, 10),
	})
}

// Deadlines are signed as second-resolution unix times (zero means unset),
// though they are carried internally at nanosecond resolution
func deadlineSeconds(ts claimtypes.Timestamp) string {
	if ts == 0 {
		return "0"
	}
	return strconv.FormatInt(ts.Time().Unix(), 10)
}
