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

package claimmgr

import (
	"github.com/google/uuid"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// One row per claim. The id is database-allocated, monotonic from 1, and
// never reused. Owner is the creditor-of-record and moves in the same
// transaction as the payment that moved it; original_creditor and controller
// are written once at creation.
type claimRow struct {
	ID                          uint64                                 `gorm:"column:id;primaryKey;autoIncrement"`
	Creditor                    claimtypes.EthAddress                  `gorm:"column:creditor"`
	Debtor                      claimtypes.EthAddress                  `gorm:"column:debtor"`
	OriginalCreditor            claimtypes.EthAddress                  `gorm:"column:original_creditor"`
	Owner                       claimtypes.EthAddress                  `gorm:"column:owner"`
	ClaimAmount                 *claimtypes.HexUint256                 `gorm:"column:claim_amount"`
	PaidAmount                  *claimtypes.HexUint256                 `gorm:"column:paid_amount"`
	Token                       claimtypes.EthAddress                  `gorm:"column:token"`
	Status                      claimtypes.Enum[claimsapi.ClaimStatus] `gorm:"column:status"`
	Binding                     claimtypes.Enum[claimsapi.ClaimBinding] `gorm:"column:binding"`
	Controller                  *claimtypes.EthAddress                 `gorm:"column:controller"`
	PayerReceivesClaimOnPayment bool                                   `gorm:"column:payer_receives_claim"`
	DueBy                       claimtypes.Timestamp                   `gorm:"column:due_by"`
	Description                 string                                 `gorm:"column:description"`
	Created                     claimtypes.Timestamp                   `gorm:"column:created;autoCreateTime:nano"`
	Updated                     claimtypes.Timestamp                   `gorm:"column:updated;autoUpdateTime:nano"`
}

func (claimRow) TableName() string {
	return "claims"
}

func (c *claimRow) toAPI() *claimsapi.Claim {
	return &claimsapi.Claim{
		ID:                          c.ID,
		Creditor:                    c.Creditor,
		Debtor:                      c.Debtor,
		OriginalCreditor:            c.OriginalCreditor,
		Owner:                       c.Owner,
		ClaimAmount:                 c.ClaimAmount,
		PaidAmount:                  c.PaidAmount,
		Token:                       c.Token,
		Status:                      c.Status,
		Binding:                     c.Binding,
		Controller:                  c.Controller,
		PayerReceivesClaimOnPayment: c.PayerReceivesClaimOnPayment,
		DueBy:                       c.DueBy,
		Description:                 c.Description,
		Created:                     c.Created,
		Updated:                     c.Updated,
	}
}

// Journal of lifecycle events, written in the transaction of the state
// change each describes. Sequence orders the journal for indexers.
type claimEventRow struct {
	Sequence      uint64                                    `gorm:"column:sequence;primaryKey;autoIncrement"`
	ID            uuid.UUID                                 `gorm:"column:id"`
	EventType     claimtypes.Enum[claimsapi.ClaimEventType] `gorm:"column:event_type"`
	ClaimID       uint64                                    `gorm:"column:claim_id"`
	Caller        claimtypes.EthAddress                     `gorm:"column:caller"`
	Timestamp     claimtypes.Timestamp                      `gorm:"column:timestamp;autoCreateTime:nano"`
	PaymentAmount *claimtypes.HexUint256                    `gorm:"column:payment_amount"`
	TotalPaid     *claimtypes.HexUint256                    `gorm:"column:total_paid"`
	FeeAmount     *claimtypes.HexUint256                    `gorm:"column:fee_amount"`
	Note          string                                    `gorm:"column:note"`
	ResultStatus  claimtypes.Enum[claimsapi.ClaimStatus]    `gorm:"column:result_status"`
	Binding       claimtypes.Enum[claimsapi.ClaimBinding]   `gorm:"column:binding"`
	Owner         *claimtypes.EthAddress                    `gorm:"column:owner"`
}

func (claimEventRow) TableName() string {
	return "claim_events"
}

func (e *claimEventRow) toAPI() *claimsapi.ClaimEvent {
	return &claimsapi.ClaimEvent{
		Sequence:      e.Sequence,
		ID:            e.ID,
		Type:          e.EventType,
		ClaimID:       e.ClaimID,
		Caller:        e.Caller,
		Timestamp:     e.Timestamp,
		PaymentAmount: e.PaymentAmount,
		TotalPaid:     e.TotalPaid,
		FeeAmount:     e.FeeAmount,
		Note:          e.Note,
		ResultStatus:  e.ResultStatus,
		Binding:       e.Binding,
		Owner:         e.Owner,
	}
}
