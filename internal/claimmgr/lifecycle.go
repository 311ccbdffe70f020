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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
)

// CancelClaim resolves a pending claim without payment. A creditor cancel
// rescinds the claim; a debtor cancel rejects it, refused outright when the
// claim is bound.
func (m *Manager) CancelClaim(ctx context.Context, caller claimtypes.EthAddress, claimID uint64, note string) error {
	return m.cancelClaim(ctx, caller, caller, claimID, note, false)
}

func (m *Manager) CancelClaimFrom(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64, note string) error {
	return m.cancelClaim(ctx, caller, principal, claimID, note, true)
}

func (m *Manager) cancelClaim(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64, note string, delegated bool) error {
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
		role, err := roleOf(ctx, row, principal)
		if err != nil {
			return err
		}
		if delegated {
			if err := m.approvals.SpendCancelClaimApproval(ctx, tx, principal, caller); err != nil {
				return err
			}
		}
		if row.Status.V() != claimsapi.ClaimStatusPending {
			return i18n.NewError(ctx, msgs.MsgClaimNotCancellable, claimID, row.Status)
		}
		result := claimsapi.ClaimStatusRescinded
		if role == claimsapi.ClaimRoleDebtor {
			if row.Binding.V() == claimsapi.ClaimBindingBound {
				return i18n.NewError(ctx, msgs.MsgClaimBound, claimID)
			}
			result = claimsapi.ClaimStatusRejected
		}
		err = tx.DB().
			WithContext(ctx).
			Model(&claimRow{}).
			Where("id = ?", claimID).
			Update("status", result.Enum()).
			Error
		if err != nil {
			return err
		}
		log.L(ctx).Infof("claim %d cancelled as '%s' by %s", claimID, result, caller)
		return m.journal(ctx, tx, &claimEventRow{
			EventType:    claimsapi.EventClaimCancelled.Enum(),
			ClaimID:      claimID,
			Caller:       caller,
			Note:         note,
			ResultStatus: result.Enum(),
			Binding:      row.Binding,
		})
	})
}

// UpdateBinding moves a pending claim's binding. The debtor commits itself
// by moving to bound from either of the other states; the creditor may only
// request a commitment by moving unbound to binding_pending. Bound is
// one-way.
func (m *Manager) UpdateBinding(ctx context.Context, caller claimtypes.EthAddress, claimID uint64, binding claimsapi.ClaimBinding) error {
	return m.updateBinding(ctx, caller, caller, claimID, binding, false)
}

func (m *Manager) UpdateBindingFrom(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64, binding claimsapi.ClaimBinding) error {
	return m.updateBinding(ctx, caller, principal, claimID, binding, true)
}

func (m *Manager) updateBinding(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64, requested claimsapi.ClaimBinding, delegated bool) error {
	if _, err := requested.Enum().Validate(); err != nil {
		return err
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
		role, err := roleOf(ctx, row, principal)
		if err != nil {
			return err
		}
		if delegated {
			if err := m.approvals.SpendUpdateBindingApproval(ctx, tx, principal, caller); err != nil {
				return err
			}
		}
		current := row.Binding.V()
		if current == claimsapi.ClaimBindingBound {
			return i18n.NewError(ctx, msgs.MsgClaimBindingIrreversible, claimID)
		}
		if row.Status.V() != claimsapi.ClaimStatusPending {
			return i18n.NewError(ctx, msgs.MsgClaimNotPending, claimID, row.Status)
		}
		allowed := (role == claimsapi.ClaimRoleDebtor && requested == claimsapi.ClaimBindingBound) ||
			(role == claimsapi.ClaimRoleCreditor && current == claimsapi.ClaimBindingUnbound && requested == claimsapi.ClaimBindingBindingPending)
		if !allowed {
			return i18n.NewError(ctx, msgs.MsgClaimInvalidBinding, current, requested, claimID)
		}
		err = tx.DB().
			WithContext(ctx).
			Model(&claimRow{}).
			Where("id = ?", claimID).
			Update("binding", requested.Enum()).
			Error
		if err != nil {
			return err
		}
		log.L(ctx).Infof("claim %d binding '%s' -> '%s' by %s", claimID, current, requested, caller)
		return m.journal(ctx, tx, &claimEventRow{
			EventType:    claimsapi.EventBindingUpdated.Enum(),
			ClaimID:      claimID,
			Caller:       caller,
			ResultStatus: row.Status,
			Binding:      requested.Enum(),
		})
	})
}

// ImpairClaim is the creditor writing the claim off: pending or repaying
// moves to impaired, paid amount untouched.
func (m *Manager) ImpairClaim(ctx context.Context, caller claimtypes.EthAddress, claimID uint64) error {
	return m.relabelStatus(ctx, caller, caller, claimID, claimsapi.ClaimStatusImpaired, claimsapi.EventClaimImpaired, false)
}

func (m *Manager) ImpairClaimFrom(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64) error {
	return m.relabelStatus(ctx, caller, principal, claimID, claimsapi.ClaimStatusImpaired, claimsapi.EventClaimImpaired, true)
}

// MarkClaimAsPaid is the creditor forgiving the balance: pending, repaying
// or impaired moves to paid without any payment, paid amount untouched.
func (m *Manager) MarkClaimAsPaid(ctx context.Context, caller claimtypes.EthAddress, claimID uint64) error {
	return m.relabelStatus(ctx, caller, caller, claimID, claimsapi.ClaimStatusPaid, claimsapi.EventClaimMarkedPaid, false)
}

func (m *Manager) MarkClaimAsPaidFrom(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64) error {
	return m.relabelStatus(ctx, caller, principal, claimID, claimsapi.ClaimStatusPaid, claimsapi.EventClaimMarkedPaid, true)
}

func (m *Manager) relabelStatus(ctx context.Context, caller, principal claimtypes.EthAddress, claimID uint64, target claimsapi.ClaimStatus, eventType claimsapi.ClaimEventType, delegated bool) error {
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
		if !row.Creditor.Equals(&principal) {
			return i18n.NewError(ctx, msgs.MsgClaimNotCreditor, principal, claimID)
		}
		// there is no delegable grant for these verbs - away from its
		// principal they are reachable only through a recorded controller
		if delegated && !caller.Equals(&principal) && row.Controller == nil {
			return i18n.NewError(ctx, msgs.MsgApprovalNotApproved)
		}
		status := row.Status.V()
		ok := status == claimsapi.ClaimStatusPending || status == claimsapi.ClaimStatusRepaying ||
			(target == claimsapi.ClaimStatusPaid && status == claimsapi.ClaimStatusImpaired)
		if !ok {
			return i18n.NewError(ctx, msgs.MsgClaimInvalidTransition, status, target, claimID)
		}
		err = tx.DB().
			WithContext(ctx).
			Model(&claimRow{}).
			Where("id = ?", claimID).
			Update("status", target.Enum()).
			Error
		if err != nil {
			return err
		}
		log.L(ctx).Infof("claim %d status '%s' -> '%s' by %s", claimID, status, target, caller)
		return m.journal(ctx, tx, &claimEventRow{
			EventType:    eventType.Enum(),
			ClaimID:      claimID,
			Caller:       caller,
			TotalPaid:    row.PaidAmount,
			ResultStatus: target.Enum(),
			Binding:      row.Binding,
		})
	})
}
