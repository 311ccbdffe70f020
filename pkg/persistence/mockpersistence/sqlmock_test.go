// Copyright © 2026 OpenCredit Contributors
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mockpersistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/opencredit/claimsengine/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMockTransactionCommit(t *testing.T) {
	mp, err := NewSQLMockProvider()
	require.NoError(t, err)

	mp.Mock.ExpectBegin()
	mp.Mock.ExpectExec("UPDATE claims").WillReturnResult(sqlmock.NewResult(0, 1))
	mp.Mock.ExpectCommit()

	err = mp.P.Transaction(context.Background(), func(ctx context.Context, tx persistence.DBTX) error {
		return tx.DB().Exec("UPDATE claims SET status = 'paid' WHERE id = 1").Error
	})
	require.NoError(t, err)

	require.NoError(t, mp.Mock.ExpectationsWereMet())
}

func TestSQLMockTransactionRollbackOnExecFailure(t *testing.T) {
	mp, err := NewSQLMockProvider()
	require.NoError(t, err)

	mp.Mock.ExpectBegin()
	mp.Mock.ExpectExec("UPDATE claims").WillReturnError(fmt.Errorf("pop"))
	mp.Mock.ExpectRollback()

	err = mp.P.Transaction(context.Background(), func(ctx context.Context, tx persistence.DBTX) error {
		return tx.DB().Exec("UPDATE claims SET status = 'paid' WHERE id = 1").Error
	})
	assert.Regexp(t, "pop", err)

	require.NoError(t, mp.Mock.ExpectationsWereMet())
}

func TestSQLMockMigrationUnsupported(t *testing.T) {
	mp, err := NewSQLMockProvider()
	require.NoError(t, err)

	_, err = mp.GetMigrationDriver(mp.DB)
	assert.Regexp(t, "not supported", err)
}
