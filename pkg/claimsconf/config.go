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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/opencredit/claimsengine/internal/msgs"
	"sigs.k8s.io/yaml"
)

// EngineConfig is the root configuration of the claims engine
type EngineConfig struct {
	DB            DBConfig            `json:"db"`
	SigningDomain SigningDomainConfig `json:"signingDomain"`
	Claims        ClaimsConfig        `json:"claims"`
}

type DBConfig struct {
	Type     string         `json:"type"`
	Postgres PostgresConfig `json:"postgres"`
	SQLite   SQLiteConfig   `json:"sqlite"`
}

type PostgresConfig struct {
	SQLDBConfig `json:",inline"`
}

type SQLiteConfig struct {
	SQLDBConfig `json:",inline"`
}

type SQLDBConfig struct {
	DSN             string  `json:"dsn"`
	MaxOpenConns    *int    `json:"maxOpenConns"`
	MaxIdleConns    *int    `json:"maxIdleConns"`
	ConnMaxIdleTime *string `json:"connMaxIdleTime"`
	ConnMaxLifetime *string `json:"connMaxLifetime"`
	AutoMigrate     *bool   `json:"autoMigrate"`
	MigrationsDir   string  `json:"migrationsDir"`
	DebugQueries    bool    `json:"debugQueries"`
	StatementCache  *bool   `json:"statementCache"`
}

// SigningDomainConfig pins the EIP-712 domain separator all approval
// signatures must bind to. A signature produced for another chain, another
// deployment, or another protocol fails verification.
type SigningDomainConfig struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainID           int64  `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
}

type ClaimsConfig struct {
	// Admin may change the engine lock state. Empty disables the admin surface.
	Admin string `json:"admin"`
	// FeeSink receives protocol fees during settlement
	FeeSink string `json:"feeSink"`
	// SnapshotCache bounds the read-path claim snapshot cache
	SnapshotCache CacheConfig `json:"snapshotCache"`
}

type CacheConfig struct {
	Capacity *int `json:"capacity"`
}

var SigningDomainDefaults = SigningDomainConfig{
	Name:    "ClaimsEngine",
	Version: "1",
}

// ReadConfig loads and parses a YAML engine config file
func ReadConfig(ctx context.Context, filePath string) (*EngineConfig, error) {
	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgConfigFileReadError, filePath, err)
	}
	var conf EngineConfig
	if err := yaml.Unmarshal(configBytes, &conf); err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgConfigFileParseError, err)
	}
	return &conf, nil
}
