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

package claimsapi

import (
	"context"

	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// FeeParams carries everything a fee calculator may price against. The payer
// role is resolved against the claim's principals, not the current owner, so
// the fee for a given payer is stable however many times the claim has
// changed hands.
type FeeParams struct {
	ClaimID       uint64
	Payer         claimtypes.EthAddress
	Creditor      claimtypes.EthAddress
	Debtor        claimtypes.EthAddress
	PaymentAmount *claimtypes.HexUint256
	ClaimAmount   *claimtypes.HexUint256
	PaidAmount    *claimtypes.HexUint256
	DueBy         claimtypes.Timestamp
	Binding       claimtypes.Enum[ClaimBinding]
	FeePayerRole  claimtypes.Enum[ClaimRole]
}

// FeeCalculator is the pluggable fee function consulted during payment
// settlement. A nil calculator on the engine means fee = 0.
type FeeCalculator interface {
	CalculateFee(ctx context.Context, params *FeeParams) (*claimtypes.HexUint256, error)
}

// ValueTransferor executes the actual movement of value during settlement.
// TransferExact must verify the amount that arrived (balance delta for
// fee-on-transfer tokens, enforced value for native currency) and return the
// amount actually received; the engine fails the whole operation on any
// shortfall, rolling back all state.
type ValueTransferor interface {
	TransferExact(ctx context.Context, token claimtypes.EthAddress, from, to claimtypes.EthAddress, amount *claimtypes.HexUint256) (received *claimtypes.HexUint256, err error)
}

// ContractSignatureValidator resolves signature validity for contract-owned
// accounts that cannot produce an ECDSA signature themselves (ERC-1271
// semantics). Implementations are expected to be side-effect free.
type ContractSignatureValidator interface {
	IsContractAccount(ctx context.Context, account claimtypes.EthAddress) bool
	IsValidSignature(ctx context.Context, account claimtypes.EthAddress, digest claimtypes.HexBytes, signature claimtypes.HexBytes) (bool, error)
}
