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

// Package claimmgr owns the canonical claim table and its state machine.
// Every mutating operation runs in a single database transaction that also
// carries the approval spend which authorized it, so a failed transfer or
// a refused authorization rolls everything back together.
package claimmgr

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/opencredit/claimsengine/internal/approvalmgr"
	"github.com/opencredit/claimsengine/internal/flags"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/cache"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsconf"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
	"gorm.io/gorm"
)

// Hooks are the pluggable collaborators of the claim manager. All are
// optional: a nil FeeCalculator means fee = 0, a nil Transferor refuses
// payment operations, a nil Events drops post-commit notifications (the
// journal table still records everything).
type Hooks struct {
	FeeCalculator claimsapi.FeeCalculator
	Transferor    claimsapi.ValueTransferor
	Events        claimsapi.EventSink
}

type Manager struct {
	bgCtx     context.Context
	p         persistence.Persistence
	approvals *approvalmgr.Manager
	flags     *flags.Store
	hooks     Hooks
	admin     *claimtypes.EthAddress
	feeSink   claimtypes.EthAddress
	snapshots cache.Cache[uint64, *claimsapi.Claim]
}

var snapshotCacheDefaults = &claimsconf.CacheConfig{
	Capacity: claimsconf.P(1000),
}

func NewClaimManager(bgCtx context.Context, conf *claimsconf.ClaimsConfig, p persistence.Persistence, approvals *approvalmgr.Manager, hooks Hooks) (*Manager, error) {
	m := &Manager{
		bgCtx:     bgCtx,
		p:         p,
		approvals: approvals,
		flags:     flags.NewStore(p),
		hooks:     hooks,
		snapshots: cache.NewCache[uint64, *claimsapi.Claim](&conf.SnapshotCache, snapshotCacheDefaults),
	}
	if conf.Admin != "" {
		admin, err := claimtypes.ParseEthAddress(conf.Admin)
		if err != nil {
			return nil, i18n.NewError(bgCtx, msgs.MsgTypesValueInvalidAddress, conf.Admin)
		}
		m.admin = admin
	}
	if conf.FeeSink != "" {
		feeSink, err := claimtypes.ParseEthAddress(conf.FeeSink)
		if err != nil {
			return nil, i18n.NewError(bgCtx, msgs.MsgTypesValueInvalidAddress, conf.FeeSink)
		}
		m.feeSink = *feeSink
	}
	return m, nil
}

// GetClaim returns a read-only snapshot, served from the snapshot cache when
// hot. The cache entry is dropped in the post-commit of every mutation.
func (m *Manager) GetClaim(ctx context.Context, claimID uint64) (*claimsapi.Claim, error) {
	if claim, ok := m.snapshots.Get(claimID); ok {
		return claim, nil
	}
	row, err := m.loadClaim(ctx, m.p.NOTX(), claimID)
	if err != nil {
		return nil, err
	}
	claim := row.toAPI()
	m.snapshots.Set(claimID, claim)
	return claim, nil
}

func (m *Manager) OwnerOf(ctx context.Context, claimID uint64) (*claimtypes.EthAddress, error) {
	claim, err := m.GetClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	owner := claim.Owner
	return &owner, nil
}

// ListClaimEvents returns the journal for one claim in sequence order
func (m *Manager) ListClaimEvents(ctx context.Context, claimID uint64) ([]*claimsapi.ClaimEvent, error) {
	var rows []*claimEventRow
	err := m.p.DB().
		WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order(`"sequence"`).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	events := make([]*claimsapi.ClaimEvent, len(rows))
	for i, r := range rows {
		events[i] = r.toAPI()
	}
	return events, nil
}

func (m *Manager) GetLockState(ctx context.Context) (claimsapi.LockState, error) {
	return m.flags.GetLockState(ctx, m.p.NOTX())
}

// SetLockState is the administrative mutation gate. Only the configured
// admin address may change it; an engine with no admin configured cannot be
// locked (or unlocked) at all.
func (m *Manager) SetLockState(ctx context.Context, caller claimtypes.EthAddress, state claimsapi.LockState) error {
	if _, err := state.Enum().Validate(); err != nil {
		return err
	}
	if m.admin == nil || !m.admin.Equals(&caller) {
		return i18n.NewError(ctx, msgs.MsgClaimNotAdmin, caller)
	}
	return m.p.Transaction(ctx, func(ctx context.Context, tx persistence.DBTX) error {
		log.L(ctx).Infof("lock state set to '%s' by %s", state, caller)
		return m.flags.SetLockState(ctx, tx, state, caller)
	})
}

// Every mutation of an existing claim is read-modify-write: the new paid
// amount, status and owner are computed in Go from the row as read. The
// per-claim advisory lock serializes concurrent mutations of the same claim
// across connections; sqlite gets the same guarantee from its single
// connection pool.
func (m *Manager) lockClaim(ctx context.Context, tx persistence.DBTX, claimID uint64) error {
	return m.p.TakeNamedLock(ctx, tx, fmt.Sprintf("claim_%d", claimID))
}

func (m *Manager) loadClaim(ctx context.Context, tx persistence.DBTX, claimID uint64) (*claimRow, error) {
	row := &claimRow{}
	err := tx.DB().
		WithContext(ctx).
		Where("id = ?", claimID).
		First(row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, i18n.NewError(ctx, msgs.MsgClaimNotFound, claimID)
		}
		return nil, err
	}
	return row, nil
}

// checkMutable gates every post-creation mutation: the engine must not be
// fully locked, and a claim with a recorded controller may only be touched
// by that controller - its own principals included.
func (m *Manager) checkMutable(ctx context.Context, tx persistence.DBTX, row *claimRow, caller claimtypes.EthAddress) error {
	lockState, err := m.flags.GetLockState(ctx, tx)
	if err != nil {
		return err
	}
	if lockState == claimsapi.LockStateLocked {
		return i18n.NewError(ctx, msgs.MsgClaimLocked)
	}
	if row.Controller != nil && !row.Controller.Equals(&caller) {
		return i18n.NewError(ctx, msgs.MsgClaimNotController, row.ID, row.Controller)
	}
	return nil
}

// roleOf resolves which principal of the claim an address is
func roleOf(ctx context.Context, row *claimRow, principal claimtypes.EthAddress) (claimsapi.ClaimRole, error) {
	switch {
	case row.Creditor.Equals(&principal):
		return claimsapi.ClaimRoleCreditor, nil
	case row.Debtor.Equals(&principal):
		return claimsapi.ClaimRoleDebtor, nil
	default:
		return "", i18n.NewError(ctx, msgs.MsgClaimNotCreditorOrDebtor, principal, row.ID)
	}
}

// journal writes one event row in the mutation's transaction, and arranges
// post-commit delivery to the event sink plus snapshot cache invalidation
func (m *Manager) journal(ctx context.Context, tx persistence.DBTX, ev *claimEventRow) error {
	ev.ID = uuid.New()
	if err := tx.DB().WithContext(ctx).Create(ev).Error; err != nil {
		return err
	}
	tx.AddPostCommit(func(ctx context.Context) {
		m.snapshots.Delete(ev.ClaimID)
		if m.hooks.Events != nil {
			m.hooks.Events.ClaimEvent(ev.toAPI())
		}
	})
	return nil
}
