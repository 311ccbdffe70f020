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
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/opencredit/claimsengine/internal/sigverifier"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsconf"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
	"github.com/opencredit/claimsengine/pkg/persistence/mockpersistence"
	"github.com/opencredit/claimsengine/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApprovalManager(t *testing.T) (context.Context, *Manager, func()) {
	ctx := context.Background()
	p, pDone, err := persistence.NewUnitTestPersistence(ctx, "approvalmgr")
	require.NoError(t, err)

	domain, err := claimsigning.NewDomain(ctx, &claimsconf.SigningDomainConfig{
		ChainID:           31337,
		VerifyingContract: claimtypes.RandAddress().String(),
	})
	require.NoError(t, err)

	am := NewApprovalManager(ctx, p, sigverifier.NewVerifier(domain, nil))
	return ctx, am, pDone
}

func newTestWallet(t *testing.T) *wallet.Wallet {
	w, err := wallet.Generate()
	require.NoError(t, err)
	return w
}

// runs a spend the way the claim manager does, inside a transaction
func inTX(t *testing.T, ctx context.Context, am *Manager, fn func(ctx context.Context, tx persistence.DBTX) error) error {
	return am.p.Transaction(ctx, fn)
}

func TestGetApprovalsEmpty(t *testing.T) {
	ctx, am, done := newTestApprovalManager(t)
	defer done()

	record, err := am.GetApprovals(ctx, *claimtypes.RandAddress(), *claimtypes.RandAddress())
	require.NoError(t, err)
	assert.Equal(t, claimsapi.CreateApprovalUnapproved, record.CreateApproval.ApprovalType.V())
	assert.Equal(t, claimsapi.PayApprovalUnapproved, record.PayApproval.ApprovalType.V())
	assert.Zero(t, record.CreateApproval.ApprovedCount)
	assert.Zero(t, record.CreateApproval.Nonce)
}

func newMockApprovalManager(t *testing.T) (context.Context, *Manager, sqlmock.Sqlmock) {
	ctx := context.Background()
	mp, err := mockpersistence.NewSQLMockProvider()
	require.NoError(t, err)
	return ctx, NewApprovalManager(ctx, mp.P, nil), mp.Mock
}

func TestGetApprovalsQueryFail(t *testing.T) {
	ctx, am, mock := newMockApprovalManager(t)

	mock.ExpectQuery(`SELECT.*"approvals"`).WillReturnError(fmt.Errorf("pop"))
	_, err := am.GetApprovals(ctx, *claimtypes.RandAddress(), *claimtypes.RandAddress())
	assert.Regexp(t, "pop", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendCancelClaimApprovalWriteFail(t *testing.T) {
	ctx, am, mock := newMockApprovalManager(t)
	owner := *claimtypes.RandAddress()
	delegate := *claimtypes.RandAddress()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*"approvals"`).WillReturnRows(sqlmock.NewRows(
		[]string{"owner", "delegate", "cancel_count", "cancel_nonce"}).
		AddRow(owner.HexString(), delegate.HexString(), 2, 5))
	mock.ExpectExec(`UPDATE "approvals"`).WillReturnError(fmt.Errorf("pop"))
	mock.ExpectRollback()

	err := am.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		return am.SpendCancelClaimApproval(ctx, tx, owner, delegate)
	})
	assert.Regexp(t, "pop", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermitCancelClaimReadFail(t *testing.T) {
	ctx, am, mock := newMockApprovalManager(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT.*"approvals"`).WillReturnError(fmt.Errorf("pop"))
	mock.ExpectRollback()

	err := am.PermitCancelClaim(ctx, *claimtypes.RandAddress(), *claimtypes.RandAddress(), 1, claimtypes.MustParseHexBytes("0x00"))
	assert.Regexp(t, "pop", err)
	require.NoError(t, mock.ExpectationsWereMet())
}
