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

package approvalmgr

import (
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// One row per (owner, delegate) pair, holding the four independent
// sub-records. Created lazily on first permit, never deleted - revocation is
// a zero counter / unapproved type, which keeps the nonces monotonic for the
// life of the pair.
type approvalRow struct {
	Owner    claimtypes.EthAddress `gorm:"column:owner;primaryKey"`
	Delegate claimtypes.EthAddress `gorm:"column:delegate;primaryKey"`
	Created  claimtypes.Timestamp  `gorm:"column:created;autoCreateTime:nano"`
	Updated  claimtypes.Timestamp  `gorm:"column:updated;autoUpdateTime:nano"`

	CreateApprovalType claimtypes.Enum[claimsapi.CreateApprovalType] `gorm:"column:create_approval_type"`
	CreateCount        uint64                                        `gorm:"column:create_count"`
	IsBindingAllowed   bool                                          `gorm:"column:is_binding_allowed"`
	CreateNonce        uint64                                        `gorm:"column:create_nonce"`

	PayApprovalType claimtypes.Enum[claimsapi.PayApprovalType] `gorm:"column:pay_approval_type"`
	PayDeadline     claimtypes.Timestamp                       `gorm:"column:pay_deadline"`
	PayNonce        uint64                                     `gorm:"column:pay_nonce"`

	CancelCount uint64 `gorm:"column:cancel_count"`
	CancelNonce uint64 `gorm:"column:cancel_nonce"`

	BindingCount uint64 `gorm:"column:binding_count"`
	BindingNonce uint64 `gorm:"column:binding_nonce"`
}

func (approvalRow) TableName() string {
	return "approvals"
}

// Itemized entries of a "specific" pay approval. Removed when fully spent;
// replaced wholesale by each new pay permit.
type claimPaymentApprovalRow struct {
	Owner            claimtypes.EthAddress  `gorm:"column:owner;primaryKey"`
	Delegate         claimtypes.EthAddress  `gorm:"column:delegate;primaryKey"`
	ClaimID          uint64                 `gorm:"column:claim_id;primaryKey"`
	ApprovedAmount   *claimtypes.HexUint256 `gorm:"column:approved_amount"`
	ApprovalDeadline claimtypes.Timestamp   `gorm:"column:approval_deadline"`
}

func (claimPaymentApprovalRow) TableName() string {
	return "claim_payment_approvals"
}
