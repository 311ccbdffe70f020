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

// Package approvalmgr owns the (owner, delegate) approval table: the
// signature-gated "permit" entry points that install grants, and the "spend"
// entry points the claim manager consumes them through. Spends always run
// inside the claim mutation's database transaction, so an approval is never
// consumed by an operation that did not commit.
package approvalmgr

import (
	"context"
	"errors"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/internal/sigverifier"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Manager struct {
	bgCtx    context.Context
	p        persistence.Persistence
	verifier *sigverifier.Verifier
}

func NewApprovalManager(bgCtx context.Context, p persistence.Persistence, verifier *sigverifier.Verifier) *Manager {
	return &Manager{
		bgCtx:    bgCtx,
		p:        p,
		verifier: verifier,
	}
}

// The counters, remaining amounts and nonces of a pair are all read then
// written back as absolute values, so every permit and spend takes the
// pair's advisory lock before its first read. Concurrent mutations of the
// same pair serialize; distinct pairs do not contend.
func (am *Manager) lockPair(ctx context.Context, tx persistence.DBTX, owner, delegate claimtypes.EthAddress) error {
	return am.p.TakeNamedLock(ctx, tx, "approvals_"+owner.String()+"_"+delegate.String())
}

// loads the approval row for update, returning a zero-value row (not an
// error) when the pair has never been permitted
func (am *Manager) getApprovalRow(ctx context.Context, tx persistence.DBTX, owner, delegate claimtypes.EthAddress) (*approvalRow, bool, error) {
	row := &approvalRow{Owner: owner, Delegate: delegate}
	err := tx.DB().
		WithContext(ctx).
		Where(`"owner" = ?`, owner).
		Where(`"delegate" = ?`, delegate).
		First(row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &approvalRow{Owner: owner, Delegate: delegate}, false, nil
		}
		return nil, false, err
	}
	return row, true, nil
}

func (am *Manager) upsertApprovalRow(ctx context.Context, tx persistence.DBTX, row *approvalRow) error {
	return tx.DB().
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "delegate"}},
			UpdateAll: true,
		}).
		Create(row).
		Error
}

// GetApprovals returns a snapshot of the four sub-records for a pair. A pair
// that has never been permitted comes back as an all-zero record.
func (am *Manager) GetApprovals(ctx context.Context, owner, delegate claimtypes.EthAddress) (*claimsapi.ApprovalRecord, error) {
	row, found, err := am.getApprovalRow(ctx, am.p.NOTX(), owner, delegate)
	if err != nil {
		return nil, err
	}
	record := &claimsapi.ApprovalRecord{
		Owner:    owner,
		Delegate: delegate,
	}
	record.CreateApproval.ApprovalType = claimsapi.CreateApprovalUnapproved.Enum()
	record.PayApproval.ApprovalType = claimsapi.PayApprovalUnapproved.Enum()
	if !found {
		return record, nil
	}
	record.CreateApproval.ApprovalType = row.CreateApprovalType
	record.CreateApproval.ApprovedCount = row.CreateCount
	record.CreateApproval.IsBindingAllowed = row.IsBindingAllowed
	record.CreateApproval.Nonce = row.CreateNonce
	record.PayApproval.ApprovalType = row.PayApprovalType
	record.PayApproval.ApprovalDeadline = row.PayDeadline
	record.PayApproval.Nonce = row.PayNonce
	record.CancelApproval.ApprovedCount = row.CancelCount
	record.CancelApproval.Nonce = row.CancelNonce
	record.UpdateBindingApproval.ApprovedCount = row.BindingCount
	record.UpdateBindingApproval.Nonce = row.BindingNonce

	if row.PayApprovalType.V() == claimsapi.PayApprovalForSpecific {
		var entries []*claimPaymentApprovalRow
		err := am.p.DB().
			WithContext(ctx).
			Where(`"owner" = ?`, owner).
			Where(`"delegate" = ?`, delegate).
			Order("claim_id").
			Find(&entries).
			Error
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			record.PayApproval.ClaimApprovals = append(record.PayApproval.ClaimApprovals, &claimsapi.ClaimPaymentApproval{
				ClaimID:          e.ClaimID,
				ApprovedAmount:   e.ApprovedAmount,
				ApprovalDeadline: e.ApprovalDeadline,
			})
		}
	}
	return record, nil
}

func validateDeadline(ctx context.Context, deadline claimtypes.Timestamp) error {
	if !deadline.InSecondsRange() {
		return i18n.NewError(ctx, msgs.MsgApprovalDeadlineOutOfRange, deadline)
	}
	return nil
}
