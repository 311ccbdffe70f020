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

package claimsconf

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {

	ctx := context.Background()

	_, err := ReadConfig(ctx, path.Join(t.TempDir(), "missing.yaml"))
	assert.Regexp(t, "CE010200", err)

	badFile := path.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badFile, ([]byte)("{ not yaml"), 0644))
	_, err = ReadConfig(ctx, badFile)
	assert.Regexp(t, "CE010201", err)

	goodFile := path.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(goodFile, ([]byte)(`
db:
  type: sqlite
  sqlite:
    dsn: ":memory:"
    autoMigrate: true
    migrationsDir: ./db/migrations/sqlite
signingDomain:
  chainId: 31337
  verifyingContract: "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"
claims:
  admin: "0x4c62ddbcc426b9041864f3aa44d9cad7a83e358b"
  snapshotCache:
    capacity: 50
`), 0644))

	conf, err := ReadConfig(ctx, goodFile)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", conf.DB.Type)
	assert.Equal(t, ":memory:", conf.DB.SQLite.DSN)
	assert.True(t, *conf.DB.SQLite.AutoMigrate)
	assert.Equal(t, int64(31337), conf.SigningDomain.ChainID)
	assert.Equal(t, "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", conf.SigningDomain.VerifyingContract)
	assert.Equal(t, "0x4c62ddbcc426b9041864f3aa44d9cad7a83e358b", conf.Claims.Admin)
	assert.Equal(t, 50, *conf.Claims.SnapshotCache.Capacity)

}

func TestConfUtils(t *testing.T) {

	assert.Equal(t, 5, Int(nil, 5))
	assert.Equal(t, 0, Int(P(0), 5))

	assert.Equal(t, 5, IntMin(nil, 1, 5))
	assert.Equal(t, 1, IntMin(P(0), 1, 5))

	assert.True(t, Bool(nil, true))
	assert.False(t, Bool(P(false), true))

	assert.Equal(t, "def", StringNotEmpty(nil, "def"))
	assert.Equal(t, "def", StringNotEmpty(P(""), "def"))
	assert.Equal(t, "set", StringNotEmpty(P("set"), "def"))

	assert.Equal(t, 10*time.Second, DurationMin(nil, 0, "10s"))
	assert.Equal(t, time.Minute, DurationMin(P("1m"), 0, "10s"))
	assert.Equal(t, 10*time.Second, DurationMin(P("wrong"), 0, "10s"))
	assert.Equal(t, time.Second, DurationMin(P("1ms"), time.Second, "10s"))

}
