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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
)

// Every permit verifies the owner's signature over the supplied tuple plus
// the sub-record's current nonce, then overwrites the whole sub-record and
// increments that nonce. The nonce bump is the only replay protection, so it
// commits in the same transaction as the grant.

func (am *Manager) PermitCreateClaim(ctx context.Context, owner, delegate claimtypes.EthAddress, approvalType claimtypes.Enum[claimsapi.CreateApprovalType], useCount uint64, isBindingAllowed bool, signature claimtypes.HexBytes) error {
	at, err := approvalType.Validate()
	if err != nil {
		return err
	}
	if at == claimsapi.CreateApprovalUnapproved && (useCount != 0 || isBindingAllowed) {
		return i18n.NewError(ctx, msgs.MsgApprovalInvalid)
	}
	return am.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
			return err
		}
		row, _, err := am.getApprovalRow(ctx, tx, owner, delegate)
		if err != nil {
			return err
		}
		digest, err := am.verifier.Domain().PermitCreateClaimDigest(ctx, &claimsigning.PermitCreateClaimPayload{
			Owner:            owner,
			Delegate:         delegate,
			ApprovalType:     at,
			ApprovalCount:    useCount,
			IsBindingAllowed: isBindingAllowed,
			Nonce:            row.CreateNonce,
		})
		if err != nil {
			return err
		}
		if err := am.verifier.Verify(ctx, owner, digest, signature); err != nil {
			return err
		}
		row.CreateApprovalType = at.Enum()
		row.CreateCount = useCount
		row.IsBindingAllowed = isBindingAllowed
		row.CreateNonce++
		if err := am.upsertApprovalRow(ctx, tx, row); err != nil {
			return err
		}
		log.L(ctx).Infof("Create-claim approval for delegate %s by owner %s: type=%s count=%d binding=%t", delegate, owner, at, useCount, isBindingAllowed)
		return nil
	})
}

func (am *Manager) PermitPayClaim(ctx context.Context, owner, delegate claimtypes.EthAddress, approvalType claimtypes.Enum[claimsapi.PayApprovalType], deadline claimtypes.Timestamp, claimApprovals []*claimsapi.ClaimPaymentApproval, signature claimtypes.HexBytes) error {
	at, err := approvalType.Validate()
	if err != nil {
		return err
	}
	if err := validateDeadline(ctx, deadline); err != nil {
		return err
	}
	switch at {
	case claimsapi.PayApprovalForSpecific:
		if len(claimApprovals) == 0 {
			return i18n.NewError(ctx, msgs.MsgApprovalInvalidPayment)
		}
		for _, ca := range claimApprovals {
			if ca.ApprovedAmount.NilOrZero() {
				return i18n.NewError(ctx, msgs.MsgApprovalInvalidPayment)
			}
			if err := validateDeadline(ctx, ca.ApprovalDeadline); err != nil {
				return err
			}
		}
	default:
		// blanket approval and revocation carry no itemized entries
		if len(claimApprovals) != 0 {
			return i18n.NewError(ctx, msgs.MsgApprovalInvalidPayment)
		}
		if at == claimsapi.PayApprovalUnapproved && deadline != 0 {
			return i18n.NewError(ctx, msgs.MsgApprovalInvalidPayment)
		}
	}
	return am.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
			return err
		}
		row, _, err := am.getApprovalRow(ctx, tx, owner, delegate)
		if err != nil {
			return err
		}
		digest, err := am.verifier.Domain().PermitPayClaimDigest(ctx, &claimsigning.PermitPayClaimPayload{
			Owner:            owner,
			Delegate:         delegate,
			ApprovalType:     at,
			ApprovalDeadline: deadline,
			ClaimApprovals:   claimApprovals,
			Nonce:            row.PayNonce,
		})
		if err != nil {
			return err
		}
		if err := am.verifier.Verify(ctx, owner, digest, signature); err != nil {
			return err
		}
		row.PayApprovalType = at.Enum()
		row.PayDeadline = deadline
		row.PayNonce++
		if err := am.upsertApprovalRow(ctx, tx, row); err != nil {
			return err
		}
		// the signature covers the whole list, so the stored entries are
		// replaced wholesale
		err = tx.DB().
			WithContext(ctx).
			Where(`"owner" = ?`, owner).
			Where(`"delegate" = ?`, delegate).
			Delete(&claimPaymentApprovalRow{}).
			Error
		if err != nil {
			return err
		}
		for _, ca := range claimApprovals {
			entry := &claimPaymentApprovalRow{
				Owner:            owner,
				Delegate:         delegate,
				ClaimID:          ca.ClaimID,
				ApprovedAmount:   ca.ApprovedAmount,
				ApprovalDeadline: ca.ApprovalDeadline,
			}
			if err := tx.DB().WithContext(ctx).Create(entry).Error; err != nil {
				return err
			}
		}
		log.L(ctx).Infof("Pay-claim approval for delegate %s by owner %s: type=%s entries=%d", delegate, owner, at, len(claimApprovals))
		return nil
	})
}

func (am *Manager) PermitCancelClaim(ctx context.Context, owner, delegate claimtypes.EthAddress, useCount uint64, signature claimtypes.HexBytes) error {
	return am.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
			return err
		}
		row, _, err := am.getApprovalRow(ctx, tx, owner, delegate)
		if err != nil {
			return err
		}
		digest, err := am.verifier.Domain().PermitCancelClaimDigest(ctx, &claimsigning.PermitCancelClaimPayload{
			Owner:         owner,
			Delegate:      delegate,
			ApprovalCount: useCount,
			Nonce:         row.CancelNonce,
		})
		if err != nil {
			return err
		}
		if err := am.verifier.Verify(ctx, owner, digest, signature); err != nil {
			return err
		}
		row.CancelCount = useCount
		row.CancelNonce++
		if err := am.upsertApprovalRow(ctx, tx, row); err != nil {
			return err
		}
		log.L(ctx).Infof("Cancel-claim approval for delegate %s by owner %s: count=%d", delegate, owner, useCount)
		return nil
	})
}

func (am *Manager) PermitUpdateBinding(ctx context.Context, owner, delegate claimtypes.EthAddress, useCount uint64, signature claimtypes.HexBytes) error {
	return am.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		if err := am.lockPair(ctx, tx, owner, delegate); err != nil {
			return err
		}
		row, _, err := am.getApprovalRow(ctx, tx, owner, delegate)
		if err != nil {
			return err
		}
		digest, err := am.verifier.Domain().PermitUpdateBindingDigest(ctx, &claimsigning.PermitUpdateBindingPayload{
			Owner:         owner,
			Delegate:      delegate,
			ApprovalCount: useCount,
			Nonce:         row.BindingNonce,
		})
		if err != nil {
			return err
		}
		if err := am.verifier.Verify(ctx, owner, digest, signature); err != nil {
			return err
		}
		row.BindingCount = useCount
		row.BindingNonce++
		if err := am.upsertApprovalRow(ctx, tx, row); err != nil {
			return err
		}
		log.L(ctx).Infof("Update-binding approval for delegate %s by owner %s: count=%d", delegate, owner, useCount)
		return nil
	})
}
