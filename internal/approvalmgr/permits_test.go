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
	"testing"
	"time"

	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permitCreate(t *testing.T, ctx context.Context, am *Manager, owner *wallet.Wallet, delegate claimtypes.EthAddress, at claimsapi.CreateApprovalType, count uint64, binding bool, nonce uint64) error {
	sig, err := owner.SignPermitCreateClaim(ctx, am.verifier.Domain(), &claimsigning.PermitCreateClaimPayload{
		Owner:            owner.Address(),
		Delegate:         delegate,
		ApprovalType:     at,
		ApprovalCount:    count,
		IsBindingAllowed: binding,
		Nonce:            nonce,
	})
	require.NoError(t, err)
	return am.PermitCreateClaim(ctx, owner.Address(), delegate, at.Enum(), count, binding, sig)
}

func permitPay(t *testing.T, ctx context.Context, am *Manager, owner *wallet.Wallet, delegate claimtypes.EthAddress, at claimsapi.PayApprovalType, deadline claimtypes.Timestamp, approvals []*claimsapi.ClaimPaymentApproval, nonce uint64) error {
	sig, err := owner.SignPermitPayClaim(ctx, am.verifier.Domain(), &claimsigning.PermitPayClaimPayload{
		Owner:            owner.Address(),
		Delegate:         delegate,
		ApprovalType:     at,
		ApprovalDeadline: deadline,
		ClaimApprovals:   approvals,
		Nonce:            nonce,
	})
	require.NoError(t, err)
	return am.PermitPayClaim(ctx, owner.Address(), delegate, at.Enum(), deadline, approvals, sig)
}

func permitCancel(t *testing.T, ctx context.Context, am *Manager, owner *wallet.Wallet, delegate claimtypes.EthAddress, count uint64, nonce uint64) error {
	sig, err := owner.SignPermitCancelClaim(ctx, am.verifier.Domain(), &claimsigning.PermitCancelClaimPayload{
		Owner:         owner.Address(),
		Delegate:      delegate,
		ApprovalCount: count,
		Nonce:         nonce,
	})
	require.NoError(t, err)
	return am.PermitCancelClaim(ctx, owner.Address(), delegate, count, sig)
}

func permitBinding(t *testing.T, ctx context.Context, am *Manager, owner *wallet.Wallet, delegate claimtypes.EthAddress, count uint64, nonce uint64) error {
	sig, err := owner.SignPermitUpdateBinding(ctx, am.verifier.Domain(), &claimsigning.PermitUpdateBindingPayload{
		Owner:         owner.Address(),
		Delegate:      delegate,
		ApprovalCount: count,
		Nonce:         nonce,
	})
	require.NoError(t, err)
	return am.PermitUpdateBinding(ctx, owner.Address(), delegate, count, sig)
}

func TestPermitCreateClaimRoundTrip(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()

	err := permitCreate(t, ctx, am, owner, delegate, claimsapi.CreateApprovalApproved, 5, true, 0)
	require.NoError(t, err)

	record, err := am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	assert.Equal(t, claimsapi.CreateApprovalApproved, record.CreateApproval.ApprovalType.V())
	assert.Equal(t, uint64(5), record.CreateApproval.ApprovedCount)
	assert.True(t, record.CreateApproval.IsBindingAllowed)
	assert.Equal(t, uint64(1), record.CreateApproval.Nonce)

	// a fresh permit overwrites the grant, it does not add to it
	err = permitCreate(t, ctx, am, owner, delegate, claimsapi.CreateApprovalCreditorOnly, 2, false, 1)
	require.NoError(t, err)

	record, err = am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	assert.Equal(t, claimsapi.CreateApprovalCreditorOnly, record.CreateApproval.ApprovalType.V())
	assert.Equal(t, uint64(2), record.CreateApproval.ApprovedCount)
	assert.False(t, record.CreateApproval.IsBindingAllowed)
	assert.Equal(t, uint64(2), record.CreateApproval.Nonce)
}

func TestPermitCreateClaimStaleNonce(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()

	err := permitCreate(t, ctx, am, owner, delegate, claimsapi.CreateApprovalApproved, 5, false, 0)
	require.NoError(t, err)

	// re-submitting a signature over the consumed nonce is a replay
	err = permitCreate(t, ctx, am, owner, delegate, claimsapi.CreateApprovalApproved, 5, false, 0)
	assert.Regexp(t, "CE010300", err)
}

func TestPermitCreateClaimWrongSigner(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	imposter := newTestWallet(t)
	delegate := *claimtypes.RandAddress()

	sig, err := imposter.SignPermitCreateClaim(ctx, am.verifier.Domain(), &claimsigning.PermitCreateClaimPayload{
		Owner:         owner.Address(),
		Delegate:      delegate,
		ApprovalType:  claimsapi.CreateApprovalApproved,
		ApprovalCount: 1,
	})
	require.NoError(t, err)
	err = am.PermitCreateClaim(ctx, owner.Address(), delegate, claimsapi.CreateApprovalApproved.Enum(), 1, false, sig)
	assert.Regexp(t, "CE010300", err)
}

func TestPermitCreateClaimInvalidCombinations(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()

	err := am.PermitCreateClaim(ctx, owner.Address(), delegate, claimsapi.CreateApprovalUnapproved.Enum(), 1, false, claimtypes.RandBytes(65))
	assert.Regexp(t, "CE010400", err)

	err = am.PermitCreateClaim(ctx, owner.Address(), delegate, claimsapi.CreateApprovalUnapproved.Enum(), 0, true, claimtypes.RandBytes(65))
	assert.Regexp(t, "CE010400", err)

	err = am.PermitCreateClaim(ctx, owner.Address(), delegate, claimtypes.Enum[claimsapi.CreateApprovalType]("wrong"), 1, false, claimtypes.RandBytes(65))
	assert.Regexp(t, "CE010003", err)
}

func TestPermitCreateClaimRevoke(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()

	require.NoError(t, permitCreate(t, ctx, am, owner, delegate, claimsapi.CreateApprovalApproved, 10, false, 0))
	require.NoError(t, permitCreate(t, ctx, am, owner, delegate, claimsapi.CreateApprovalUnapproved, 0, false, 1))

	record, err := am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	assert.Equal(t, claimsapi.CreateApprovalUnapproved, record.CreateApproval.ApprovalType.V())
	assert.Zero(t, record.CreateApproval.ApprovedCount)
	// the nonce survives revocation
	assert.Equal(t, uint64(2), record.CreateApproval.Nonce)
}

func TestPermitPayClaimSpecific(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()
	deadline := claimtypes.TimestampFromUnix(time.Now().Unix() + 3600)

	approvals := []*claimsapi.ClaimPaymentApproval{
		{ClaimID: 1, ApprovedAmount: claimtypes.Uint64ToUint256(100)},
		{ClaimID: 2, ApprovedAmount: claimtypes.Uint64ToUint256(250), ApprovalDeadline: deadline},
	}
	require.NoError(t, permitPay(t, ctx, am, owner, delegate, claimsapi.PayApprovalForSpecific, 0, approvals, 0))

	record, err := am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	assert.Equal(t, claimsapi.PayApprovalForSpecific, record.PayApproval.ApprovalType.V())
	require.Len(t, record.PayApproval.ClaimApprovals, 2)
	assert.Equal(t, uint64(1), record.PayApproval.ClaimApprovals[0].ClaimID)
	assert.True(t, record.PayApproval.ClaimApprovals[1].ApprovedAmount.Equals(claimtypes.Uint64ToUint256(250)))

	// re-permitting replaces the whole list
	require.NoError(t, permitPay(t, ctx, am, owner, delegate, claimsapi.PayApprovalForSpecific, 0, []*claimsapi.ClaimPaymentApproval{
		{ClaimID: 3, ApprovedAmount: claimtypes.Uint64ToUint256(10)},
	}, 1))
	record, err = am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	require.Len(t, record.PayApproval.ClaimApprovals, 1)
	assert.Equal(t, uint64(3), record.PayApproval.ClaimApprovals[0].ClaimID)
}

func TestPermitPayClaimValidation(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()
	sig := claimtypes.RandBytes(65)

	// specific requires at least one entry
	err := am.PermitPayClaim(ctx, owner.Address(), delegate, claimsapi.PayApprovalForSpecific.Enum(), 0, nil, sig)
	assert.Regexp(t, "CE010401", err)

	// zero-amount entries are meaningless
	err = am.PermitPayClaim(ctx, owner.Address(), delegate, claimsapi.PayApprovalForSpecific.Enum(), 0, []*claimsapi.ClaimPaymentApproval{
		{ClaimID: 1, ApprovedAmount: claimtypes.Uint64ToUint256(0)},
	}, sig)
	assert.Regexp(t, "CE010401", err)

	// blanket approvals carry no itemized entries
	err = am.PermitPayClaim(ctx, owner.Address(), delegate, claimsapi.PayApprovalForAll.Enum(), 0, []*claimsapi.ClaimPaymentApproval{
		{ClaimID: 1, ApprovedAmount: claimtypes.Uint64ToUint256(1)},
	}, sig)
	assert.Regexp(t, "CE010401", err)

	// revocation carries no deadline
	err = am.PermitPayClaim(ctx, owner.Address(), delegate, claimsapi.PayApprovalUnapproved.Enum(), claimtypes.TimestampNow(), nil, sig)
	assert.Regexp(t, "CE010401", err)

	// deadlines are bounded to the wire range
	err = am.PermitPayClaim(ctx, owner.Address(), delegate, claimsapi.PayApprovalForAll.Enum(), claimtypes.Timestamp(-1), nil, sig)
	assert.Regexp(t, "CE010406", err)
}

func TestPermitCancelAndBindingRoundTrip(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	owner := newTestWallet(t)
	delegate := *claimtypes.RandAddress()

	require.NoError(t, permitCancel(t, ctx, am, owner, delegate, 3, 0))
	require.NoError(t, permitBinding(t, ctx, am, owner, delegate, 7, 0))

	record, err := am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), record.CancelApproval.ApprovedCount)
	assert.Equal(t, uint64(1), record.CancelApproval.Nonce)
	assert.Equal(t, uint64(7), record.UpdateBindingApproval.ApprovedCount)
	assert.Equal(t, uint64(1), record.UpdateBindingApproval.Nonce)

	// each sub-record has its own independent nonce sequence
	require.NoError(t, permitCancel(t, ctx, am, owner, delegate, 1, 1))
	record, err = am.GetApprovals(ctx, owner.Address(), delegate)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), record.CancelApproval.Nonce)
	assert.Equal(t, uint64(1), record.UpdateBindingApproval.Nonce)
}
