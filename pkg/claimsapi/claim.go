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

package claimsapi

import (
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// Claim is a read-only snapshot of a claim row. Owner is the current
// creditor-of-record (it moves with payment when the claim was created with
// PayerReceivesClaimOnPayment); OriginalCreditor never changes.
type Claim struct {
	ID                          uint64                              `json:"id"`
	Creditor                    claimtypes.EthAddress               `json:"creditor"`
	Debtor                      claimtypes.EthAddress               `json:"debtor"`
	OriginalCreditor            claimtypes.EthAddress               `json:"originalCreditor"`
	Owner                       claimtypes.EthAddress               `json:"owner"`
	ClaimAmount                 *claimtypes.HexUint256              `json:"claimAmount"`
	PaidAmount                  *claimtypes.HexUint256              `json:"paidAmount"`
	Token                       claimtypes.EthAddress               `json:"token"` // zero address means the chain's native currency
	Status                      claimtypes.Enum[ClaimStatus]        `json:"status"`
	Binding                     claimtypes.Enum[ClaimBinding]       `json:"binding"`
	Controller                  *claimtypes.EthAddress              `json:"controller,omitempty"`
	PayerReceivesClaimOnPayment bool                                `json:"payerReceivesClaimOnPayment"`
	DueBy                       claimtypes.Timestamp                `json:"dueBy,omitempty"`
	Description                 string                              `json:"description,omitempty"`
	Created                     claimtypes.Timestamp                `json:"created"`
	Updated                     claimtypes.Timestamp                `json:"updated"`
}

// CreateClaimParams are the caller-supplied attributes of a new claim
type CreateClaimParams struct {
	Creditor                    claimtypes.EthAddress         `json:"creditor"`
	Debtor                      claimtypes.EthAddress         `json:"debtor"`
	ClaimAmount                 *claimtypes.HexUint256        `json:"claimAmount"`
	Token                       claimtypes.EthAddress         `json:"token"`
	Binding                     claimtypes.Enum[ClaimBinding] `json:"binding"`
	PayerReceivesClaimOnPayment bool                          `json:"payerReceivesClaimOnPayment"`
	DueBy                       claimtypes.Timestamp          `json:"dueBy,omitempty"`
	Description                 string                        `json:"description,omitempty"`
}

// ClaimPaymentApproval is one itemized entry of a "specific" pay approval.
// A zero ApprovalDeadline means the delegate's blanket deadline (if any)
// applies instead.
type ClaimPaymentApproval struct {
	ClaimID          uint64                 `json:"claimId"`
	ApprovedAmount   *claimtypes.HexUint256 `json:"approvedAmount"`
	ApprovalDeadline claimtypes.Timestamp   `json:"approvalDeadline,omitempty"`
}

// ApprovalRecord is a read-only snapshot of the four sub-records held for an
// (owner, delegate) pair
type ApprovalRecord struct {
	Owner    claimtypes.EthAddress `json:"owner"`
	Delegate claimtypes.EthAddress `json:"delegate"`

	CreateApproval struct {
		ApprovalType     claimtypes.Enum[CreateApprovalType] `json:"approvalType"`
		ApprovedCount    uint64                              `json:"approvedCount"`
		IsBindingAllowed bool                                `json:"isBindingAllowed"`
		Nonce            uint64                              `json:"nonce"`
	} `json:"createApproval"`

	PayApproval struct {
		ApprovalType      claimtypes.Enum[PayApprovalType] `json:"approvalType"`
		ApprovalDeadline  claimtypes.Timestamp             `json:"approvalDeadline,omitempty"`
		ClaimApprovals    []*ClaimPaymentApproval          `json:"claimApprovals,omitempty"`
		Nonce             uint64                           `json:"nonce"`
	} `json:"payApproval"`

	CancelApproval struct {
		ApprovedCount uint64 `json:"approvedCount"`
		Nonce         uint64 `json:"nonce"`
	} `json:"cancelApproval"`

	UpdateBindingApproval struct {
		ApprovedCount uint64 `json:"approvedCount"`
		Nonce         uint64 `json:"nonce"`
	} `json:"updateBindingApproval"`
}

// MaxUseCount is the saturation sentinel for approval use counters - a
// counter permitted at this value is never decremented. Bounded to a signed
// 64-bit value so it round-trips every supported database.
const MaxUseCount = uint64(1<<63 - 1)
