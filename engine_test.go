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

package claimsengine

import (
	"context"
	"testing"

	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsconf"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngineConfig() *claimsconf.EngineConfig {
	return &claimsconf.EngineConfig{
		DB: claimsconf.DBConfig{
			Type: "sqlite",
			SQLite: claimsconf.SQLiteConfig{
				SQLDBConfig: claimsconf.SQLDBConfig{
					DSN:           ":memory:",
					AutoMigrate:   claimsconf.P(true),
					MigrationsDir: "./db/migrations/sqlite",
				},
			},
		},
		SigningDomain: claimsconf.SigningDomainConfig{
			ChainID:           31337,
			VerifyingContract: claimtypes.RandAddress().String(),
		},
	}
}

type recordingTransferor struct {
	transfers int
}

func (rt *recordingTransferor) TransferExact(ctx context.Context, token claimtypes.EthAddress, from, to claimtypes.EthAddress, amount *claimtypes.HexUint256) (*claimtypes.HexUint256, error) {
	rt.transfers++
	return amount, nil
}

func TestEngineLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	transferor := &recordingTransferor{}
	e, err := NewEngine(ctx, testEngineConfig(), Hooks{Transferor: transferor}, nil)
	require.NoError(t, err)
	defer e.Close()

	creditorWallet, err := wallet.Generate()
	require.NoError(t, err)
	creditor := creditorWallet.Address()
	debtor := *claimtypes.RandAddress()
	operator := *claimtypes.RandAddress()

	// the creditor grants the operator a one-shot create approval,
	// signing against the engine's own domain
	sig, err := creditorWallet.SignPermitCreateClaim(ctx, e.Domain(), &claimsigning.PermitCreateClaimPayload{
		Owner:         creditor,
		Delegate:      operator,
		ApprovalType:  claimsapi.CreateApprovalApproved,
		ApprovalCount: 1,
	})
	require.NoError(t, err)
	err = e.Approvals.PermitCreateClaim(ctx, creditor, operator, claimsapi.CreateApprovalApproved.Enum(), 1, false, sig)
	require.NoError(t, err)

	claimID, err := e.Claims.CreateClaimFrom(ctx, operator, creditor, &claimsapi.CreateClaimParams{
		Creditor:    creditor,
		Debtor:      debtor,
		ClaimAmount: claimtypes.Uint64ToUint256(500),
	})
	require.NoError(t, err)

	claim, err := e.Claims.GetClaim(ctx, claimID)
	require.NoError(t, err)
	assert.Equal(t, claimsapi.ClaimStatusPending, claim.Status.V())
	require.NotNil(t, claim.Controller)
	assert.Equal(t, operator, *claim.Controller)

	// settle through the controller-contained claim: the debtor cannot
	// act directly, but the operator has no pay approval either, so the
	// operator cancels and the claim resolves unpaid
	err = e.Claims.PayClaim(ctx, debtor, claimID, claimtypes.Uint64ToUint256(500))
	assert.Regexp(t, "CE010514", err)

	sig, err = creditorWallet.SignPermitCancelClaim(ctx, e.Domain(), &claimsigning.PermitCancelClaimPayload{
		Owner:         creditor,
		Delegate:      operator,
		ApprovalCount: 1,
	})
	require.NoError(t, err)
	require.NoError(t, e.Approvals.PermitCancelClaim(ctx, creditor, operator, 1, sig))
	require.NoError(t, e.Claims.CancelClaimFrom(ctx, operator, creditor, claimID, "settled off-ledger"))

	claim, err = e.Claims.GetClaim(ctx, claimID)
	require.NoError(t, err)
	assert.Equal(t, claimsapi.ClaimStatusRescinded, claim.Status.V())
	assert.Zero(t, transferor.transfers)

	events, err := e.Claims.ListClaimEvents(ctx, claimID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, claimsapi.EventClaimCreated, events[0].Type.V())
	assert.Equal(t, claimsapi.EventClaimCancelled, events[1].Type.V())
}

func TestNewEngineBadConfig(t *testing.T) {
	ctx := context.Background()

	conf := testEngineConfig()
	conf.SigningDomain.ChainID = 0
	_, err := NewEngine(ctx, conf, Hooks{}, nil)
	assert.Regexp(t, "CE010202", err)

	conf = testEngineConfig()
	conf.DB.Type = "graph"
	_, err = NewEngine(ctx, conf, Hooks{}, nil)
	assert.Regexp(t, "CE010100", err)

	conf = testEngineConfig()
	conf.Claims.Admin = "not an address"
	_, err = NewEngine(ctx, conf, Hooks{}, nil)
	assert.Regexp(t, "CE010002", err)
}
