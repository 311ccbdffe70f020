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

// Package claimsengine wires the claims protocol engine together from a
// single config: the database, the signing domain, the approval registry and
// the claim registry. Controllers embed the engine in-process and drive it
// through the Approvals and Claims managers.
package claimsengine

import (
	"context"

	"github.com/opencredit/claimsengine/internal/approvalmgr"
	"github.com/opencredit/claimsengine/internal/claimmgr"
	"github.com/opencredit/claimsengine/internal/sigverifier"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsconf"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/persistence"
)

type Engine struct {
	p         persistence.Persistence
	domain    *claimsigning.Domain
	Approvals *approvalmgr.Manager
	Claims    *claimmgr.Manager
}

// Hooks re-exported so embedders do not import claimmgr directly
type Hooks = claimmgr.Hooks

// NewEngine opens (and optionally migrates) the database, pins the signing
// domain, and constructs the two managers. The contract signature validator
// is optional; without one only ECDSA-recoverable owners can sign permits.
func NewEngine(ctx context.Context, conf *claimsconf.EngineConfig, hooks Hooks, contractSigs claimsapi.ContractSignatureValidator) (*Engine, error) {
	domain, err := claimsigning.NewDomain(ctx, &conf.SigningDomain)
	if err != nil {
		return nil, err
	}
	p, err := persistence.NewPersistence(ctx, &conf.DB)
	if err != nil {
		return nil, err
	}
	verifier := sigverifier.NewVerifier(domain, contractSigs)
	approvals := approvalmgr.NewApprovalManager(ctx, p, verifier)
	claims, err := claimmgr.NewClaimManager(ctx, &conf.Claims, p, approvals, hooks)
	if err != nil {
		p.Close()
		return nil, err
	}
	return &Engine{
		p:         p,
		domain:    domain,
		Approvals: approvals,
		Claims:    claims,
	}, nil
}

// Domain exposes the pinned EIP-712 domain, for wallets producing permit
// signatures against this deployment
func (e *Engine) Domain() *claimsigning.Domain {
	return e.domain
}

func (e *Engine) Close() {
	e.p.Close()
}
