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
	"context"
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
)

// PayClaim settles a payment with the caller paying directly as one of the
// claim's principals.
func (m *Manager) PayClaim(ctx context.Context, caller claimtypes.EthAddress, claimID uint64, amount *claimtypes.HexUint256) error {
	return m.payClaim(ctx, caller, caller, claimID, amount, false)
}

// PayClaimFrom settles a payment funded by the principal, executed by a
// delegate holding a pay approval from them. The approval is spent in the
// same transaction as the claim mutation.
func (m *Manager) PayClaimFrom(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64, amount *claimtypes.HexUint256) error {
	return m.payClaim(ctx, caller, principal, claimID, amount, true)
}

func (m *Manager) payClaim(ctx context.Context, caller, payer claimtypes.EthAddress, claimID uint64, amount *claimtypes.HexUint256, delegated bool) error {
	if amount.NilOrZero() {
		return i18n.NewError(ctx, msgs.MsgClaimPayingZero)
	}
	if m.hooks.Transferor == nil {
		return i18n.NewError(ctx, msgs.MsgClaimNoTransferor)
	}
	return m.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		if err := m.lockClaim(ctx, tx, claimID); err != nil {
			return err
		}
		row, err := m.loadClaim(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if err := m.checkMutable(ctx, tx, row, caller); err != nil {
			return err
		}
		if !delegated {
			if _, err := roleOf(ctx, row, payer); err != nil {
				return err
			}
		} else {
			if err := m.approvals.SpendPayClaimApproval(ctx, tx, payer, caller, claimID, amount); err != nil {
				return err
			}
		}
		status := row.Status.V()
		if status != claimsapi.ClaimStatusPending && status != claimsapi.ClaimStatusRepaying {
			return i18n.NewError(ctx, msgs.MsgClaimNotPending, claimID, status)
		}
		newPaid := (*claimtypes.HexUint256)(new(big.Int).Add(row.PaidAmount.Int(), amount.Int()))
		if newPaid.Int().Cmp(row.ClaimAmount.Int()) > 0 {
			remaining := new(big.Int).Sub(row.ClaimAmount.Int(), row.PaidAmount.Int())
			return i18n.NewError(ctx, msgs.MsgClaimOverPaying, amount, (*claimtypes.HexUint256)(remaining))
		}

		// fee is priced off the payer's role on the claim, so it does not
		// change however many times the claim itself has changed hands
		fee := claimtypes.Uint64ToUint256(0)
		if m.hooks.FeeCalculator != nil {
			feeRole := claimsapi.ClaimRoleCreditor
			if row.Debtor.Equals(&payer) {
				feeRole = claimsapi.ClaimRoleDebtor
			}
			fee, err = m.hooks.FeeCalculator.CalculateFee(ctx, &claimsapi.FeeParams{
				ClaimID:       claimID,
				Payer:         payer,
				Creditor:      row.Creditor,
				Debtor:        row.Debtor,
				PaymentAmount: amount,
				ClaimAmount:   row.ClaimAmount,
				PaidAmount:    row.PaidAmount,
				DueBy:         row.DueBy,
				Binding:       row.Binding,
				FeePayerRole:  feeRole.Enum(),
			})
			if err != nil {
				return err
			}
			if fee == nil {
				fee = claimtypes.Uint64ToUint256(0)
			}
			if fee.Int().Cmp(amount.Int()) > 0 {
				return i18n.NewError(ctx, msgs.MsgClaimFeeExceedsPayment, fee, amount)
			}
		}

		newStatus := claimsapi.ClaimStatusRepaying
		if newPaid.Equals(row.ClaimAmount) {
			newStatus = claimsapi.ClaimStatusPaid
		}
		prePaymentOwner := row.Owner
		newOwner := row.Owner
		if row.PayerReceivesClaimOnPayment && !payer.Equals(&row.Owner) {
			newOwner = payer
		}

		// state first - the external transfers run against a fully updated
		// row, and any transfer failure rolls the whole transaction back
		err = tx.DB().
			WithContext(ctx).
			Model(&claimRow{}).
			Where("id = ?", claimID).
			Updates(map[string]interface{}{
				"paid_amount": newPaid,
				"status":      newStatus.Enum(),
				"owner":       newOwner,
			}).
			Error
		if err != nil {
			return err
		}

		net := (*claimtypes.HexUint256)(new(big.Int).Sub(amount.Int(), fee.Int()))
		if !net.NilOrZero() {
			received, err := m.hooks.Transferor.TransferExact(ctx, row.Token, payer, prePaymentOwner, net)
			if err != nil {
				return err
			}
			if !received.Equals(net) {
				return i18n.NewError(ctx, msgs.MsgClaimTransferShortfall, received, net)
			}
		}
		if !fee.NilOrZero() {
			received, err := m.hooks.Transferor.TransferExact(ctx, row.Token, payer, m.feeSink, fee)
			if err != nil {
				return err
			}
			if !received.Equals(fee) {
				return i18n.NewError(ctx, msgs.MsgClaimTransferShortfall, received, fee)
			}
		}

		log.L(ctx).Infof("claim %d paid %s (fee %s) by %s, total %s/%s", claimID, amount, fee, payer, newPaid, row.ClaimAmount)
		err = m.journal(ctx, tx, &claimEventRow{
			EventType:     claimsapi.EventClaimPaid.Enum(),
			ClaimID:       claimID,
			Caller:        caller,
			PaymentAmount: amount,
			TotalPaid:     newPaid,
			FeeAmount:     fee,
			ResultStatus:  newStatus.Enum(),
			Binding:       row.Binding,
		})
		if err != nil {
			return err
		}
		if !newOwner.Equals(&prePaymentOwner) {
			owner := newOwner
			err = m.journal(ctx, tx, &claimEventRow{
				EventType:    claimsapi.EventClaimTransferred.Enum(),
				ClaimID:      claimID,
				Caller:       caller,
				ResultStatus: newStatus.Enum(),
				Binding:      row.Binding,
				Owner:        &owner,
			})
		}
		return err
	})
}
