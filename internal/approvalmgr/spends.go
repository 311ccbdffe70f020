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
	"context"
	"errors"
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
	"gorm.io/gorm"
)

// The spend entry points are called by the claim manager inside the claim
// mutation's transaction. A spend that fails leaves the record untouched
// because the whole transaction rolls back; a spend that succeeds commits
// with the claim mutation it authorized.

func (am *Manager) SpendCreateClaimApproval(ctx context.Context, tx persistence.DBTX, owner, delegate claimtypes.EthAddress, role claimsapi.ClaimRole, requestedBinding claimsapi.ClaimBinding) error {
	if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
		return err
	}
	row, found, err := am.getApprovalRow(ctx, tx, owner, delegate)
	if err != nil {
		return err
	}
	if !found || row.CreateCount == 0 {
		return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
	}
	switch row.CreateApprovalType.V() {
	case claimsapi.CreateApprovalApproved:
	case claimsapi.CreateApprovalCreditorOnly:
		if role != claimsapi.ClaimRoleCreditor {
			return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
		}
	case claimsapi.CreateApprovalDebtorOnly:
		if role != claimsapi.ClaimRoleDebtor {
			return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
		}
	default:
		return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
	}
	if requestedBinding == claimsapi.ClaimBindingBound && !row.IsBindingAllowed {
		return i18n.NewError(ctx, msgs.MsgApprovalBindingNotAllowed)
	}
	if row.CreateCount == claimsapi.MaxUseCount {
		return nil // saturated counters never decrement
	}
	return tx.DB().
		WithContext(ctx).
		Model(&approvalRow{}).
		Where(`"owner" = ?`, owner).
		Where(`"delegate" = ?`, delegate).
		Update("create_count", row.CreateCount-1).
		Error
}

func (am *Manager) SpendPayClaimApproval(ctx context.Context, tx persistence.DBTX, owner, delegate claimtypes.EthAddress, claimID uint64, amount *claimtypes.HexUint256) error {
	if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
		return err
	}
	row, found, err := am.getApprovalRow(ctx, tx, owner, delegate)
	if err != nil {
		return err
	}
	if !found {
		return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
	}
	now := claimtypes.TimestampNow()
	switch row.PayApprovalType.V() {
	case claimsapi.PayApprovalForAll:
		// blanket approval - only the operator-level deadline applies
		if row.PayDeadline != 0 && now > row.PayDeadline {
			return i18n.NewError(ctx, msgs.MsgApprovalPastDeadline)
		}
		return nil

	case claimsapi.PayApprovalForSpecific:
		entry := &claimPaymentApprovalRow{}
		err := tx.DB().
			WithContext(ctx).
			Where(`"owner" = ?`, owner).
			Where(`"delegate" = ?`, delegate).
			Where("claim_id = ?", claimID).
			First(entry).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
			}
			return err
		}
		// the operator-level deadline takes precedence when set; the
		// per-claim deadline governs only when it is unset
		deadline := row.PayDeadline
		if deadline == 0 {
			deadline = entry.ApprovalDeadline
		}
		if deadline != 0 && now > deadline {
			return i18n.NewError(ctx, msgs.MsgApprovalPastDeadline)
		}
		cmp := amount.Int().Cmp(entry.ApprovedAmount.Int())
		if cmp > 0 {
			return i18n.NewError(ctx, msgs.MsgApprovalPaymentUnderApproved, amount, entry.ApprovedAmount, claimID)
		}
		if cmp == 0 {
			// fully spent - the entry is removed rather than left at zero
			return tx.DB().
				WithContext(ctx).
				Where(`"owner" = ?`, owner).
				Where(`"delegate" = ?`, delegate).
				Where("claim_id = ?", claimID).
				Delete(&claimPaymentApprovalRow{}).
				Error
		}
		remaining := (*claimtypes.HexUint256)(new(big.Int).Sub(entry.ApprovedAmount.Int(), amount.Int()))
		return tx.DB().
			WithContext(ctx).
			Model(&claimPaymentApprovalRow{}).
			Where(`"owner" = ?`, owner).
			Where(`"delegate" = ?`, delegate).
			Where("claim_id = ?", claimID).
			Update("approved_amount", remaining).
			Error

	default:
		return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
	}
}

func (am *Manager) SpendCancelClaimApproval(ctx context.Context, tx persistence.DBTX, owner, delegate claimtypes.EthAddress) error {
	if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
		return err
	}
	row, found, err := am.getApprovalRow(ctx, tx, owner, delegate)
	if err != nil {
		return err
	}
	if !found || row.CancelCount == 0 {
		return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
	}
	if row.CancelCount == claimsapi.MaxUseCount {
		return nil
	}
	return tx.DB().
		WithContext(ctx).
		Model(&approvalRow{}).
		Where(`"owner" = ?`, owner).
		Where(`"delegate" = ?`, delegate).
		Update("cancel_count", row.CancelCount-1).
		Error
}

func (am *Manager) SpendUpdateBindingApproval(ctx context.Context, tx persistence.DBTX, owner, delegate claimtypes.EthAddress) error {
	if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
		return err
	}
	row, found, err := am.getApprovalRow(ctx, tx, owner, delegate)
	if err != nil {
		return err
	}
	if !found || row.BindingCount == 0 {
		return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
	}
	if row.BindingCount == claimsapi.MaxUseCount {
		return nil
	}
	return tx.DB().
		WithContext(ctx).
		Model(&approvalRow{}).
		Where(`"owner" = ?`, owner).
		Where(`"delegate" = ?`, delegate).
		Update("binding_count", row.BindingCount-1).
		Error
}
