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

// validated params plus the binding/role rule: only the debtor side can
// commit itself at creation, a creditor requesting "bound" would be binding
// the counterparty without consent
func validateCreateParams(ctx context.Context, params *claimsapi.CreateClaimParams, principalRole claimsapi.ClaimRole) (claimsapi.ClaimBinding, error) {
	if params.Creditor.IsZero() || params.Debtor.IsZero() {
		return "", i18n.NewError(ctx, msgs.MsgClaimZeroParty)
	}
	if params.Creditor.Equals(&params.Debtor) {
		return "", i18n.NewError(ctx, msgs.MsgClaimSelfCounterparty)
	}
	if params.ClaimAmount.NilOrZero() {
		return "", i18n.NewError(ctx, msgs.MsgClaimZeroAmount)
	}
	if !params.DueBy.InSecondsRange() {
		return "", i18n.NewError(ctx, msgs.MsgClaimDueByOutOfRange, params.DueBy)
	}
	binding, err := params.Binding.Validate()
	if err != nil {
		return "", err
	}
	if binding == claimsapi.ClaimBindingBound && principalRole != claimsapi.ClaimRoleDebtor {
		return "", i18n.NewError(ctx, msgs.MsgClaimInvalidBinding, claimsapi.ClaimBindingUnbound, binding, 0)
	}
	return binding, nil
}

// CreateClaim creates a claim with the caller acting directly as one of its
// principals. No controller is recorded - the principals manage the claim
// themselves.
func (m *Manager) CreateClaim(ctx context.Context, caller claimtypes.EthAddress, params *claimsapi.CreateClaimParams) (uint64, error) {
	var role claimsapi.ClaimRole
	switch {
	case params.Creditor.Equals(&caller):
		role = claimsapi.ClaimRoleCreditor
	case params.Debtor.Equals(&caller):
		role = claimsapi.ClaimRoleDebtor
	default:
		return 0, i18n.NewError(ctx, msgs.MsgClaimNotCreditorOrDebtor, caller, 0)
	}
	return m.createClaim(ctx, caller, params, role, nil)
}

// CreateClaimFrom creates a claim on the principal's behalf, spending one
// use of the principal's create approval held by the caller. The caller is
// recorded as the claim's controller and from then on is the only address
// that may mutate it.
func (m *Manager) CreateClaimFrom(ctx context.Context, caller, principal claimtypes.EthAddress, params *claimsapi.CreateClaimParams) (uint64, error) {
	var role claimsapi.ClaimRole
	switch {
	case params.Creditor.Equals(&principal):
		role = claimsapi.ClaimRoleCreditor
	case params.Debtor.Equals(&principal):
		role = claimsapi.ClaimRoleDebtor
	default:
		return 0, i18n.NewError(ctx, msgs.MsgClaimNotCreditorOrDebtor, principal, 0)
	}
	var controller *claimtypes.EthAddress
	if !caller.Equals(&principal) {
		c := caller
		controller = &c
	}
	return m.createClaim(ctx, caller, params, role, controller)
}

func (m *Manager) createClaim(ctx context.Context, caller claimtypes.EthAddress, params *claimsapi.CreateClaimParams, principalRole claimsapi.ClaimRole, controller *claimtypes.EthAddress) (claimID uint64, err error) {
	binding, err := validateCreateParams(ctx, params, principalRole)
	if err != nil {
		return 0, err
	}
	err = m.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		lockState, err := m.flags.GetLockState(ctx, tx)
		if err != nil {
			return err
		}
		if lockState != claimsapi.LockStateUnlocked {
			return i18n.NewError(ctx, msgs.MsgClaimLocked)
		}
		if controller != nil {
			var principal claimtypes.EthAddress
			if principalRole == claimsapi.ClaimRoleCreditor {
				principal = params.Creditor
			} else {
				principal = params.Debtor
			}
			if err := m.approvals.SpendCreateClaimApproval(ctx, tx, principal, caller, principalRole, binding); err != nil {
				return err
			}
		}
		row := &claimRow{
			Creditor:                    params.Creditor,
			Debtor:                      params.Debtor,
			OriginalCreditor:            params.Creditor,
			Owner:                       params.Creditor,
			ClaimAmount:                 params.ClaimAmount,
			PaidAmount:                  claimtypes.Uint64ToUint256(0),
			Token:                       params.Token,
			Status:                      claimsapi.ClaimStatusPending.Enum(),
			Binding:                     binding.Enum(),
			Controller:                  controller,
			PayerReceivesClaimOnPayment: params.PayerReceivesClaimOnPayment,
			DueBy:                       params.DueBy,
			Description:                 params.Description,
		}
		if err := tx.DB().WithContext(ctx).Create(row).Error; err != nil {
			return err
		}
		claimID = row.ID
		log.L(ctx).Infof("claim %d created creditor=%s debtor=%s amount=%s", row.ID, row.Creditor, row.Debtor, row.ClaimAmount)
		owner := row.Owner
		return m.journal(ctx, tx, &claimEventRow{
			EventType:    claimsapi.EventClaimCreated.Enum(),
			ClaimID:      row.ID,
			Caller:       caller,
			ResultStatus: row.Status,
			Binding:      row.Binding,
			Owner:        &owner,
		})
	})
	if err != nil {
		return 0, err
	}
	return claimID, nil
}
