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

// Package flags persists the engine-wide administrative flags, currently
// just the lock state. A single row keyed at 1 survives restarts, so a
// locked engine stays locked until an admin unlocks it.
package flags

import (
	"context"
	"errors"

	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/opencredit/claimsengine/pkg/persistence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type flagsRow struct {
	ID        int64                               `gorm:"column:id;primaryKey"`
	LockState claimtypes.Enum[claimsapi.LockState] `gorm:"column:lock_state"`
	Updated   claimtypes.Timestamp                 `gorm:"column:updated;autoUpdateTime:nano"`
	UpdatedBy claimtypes.EthAddress                `gorm:"column:updated_by"`
}

func (flagsRow) TableName() string {
	return "engine_flags"
}

const singletonID = int64(1)

type Store struct {
	p persistence.Persistence
}

func NewStore(p persistence.Persistence) *Store {
	return &Store{p: p}
}

// GetLockState reads the current lock level. An engine that has never been
// locked has no row, which reads as unlocked.
func (s *Store) GetLockState(ctx context.Context, tx persistence.DBTX) (claimsapi.LockState, error) {
	row := &flagsRow{}
	err := tx.DB().
		WithContext(ctx).
		Where("id = ?", singletonID).
		First(row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return claimsapi.LockStateUnlocked, nil
		}
		return "", err
	}
	return row.LockState.V(), nil
}

func (s *Store) SetLockState(ctx context.Context, tx persistence.DBTX, state claimsapi.LockState, by claimtypes.EthAddress) error {
	return tx.DB().
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&flagsRow{
			ID:        singletonID,
			LockState: state.Enum(),
			UpdatedBy: by,
		}).
		Error
}
