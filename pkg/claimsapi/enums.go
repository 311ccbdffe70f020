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
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// ClaimStatus is the lifecycle state of a claim. Once a claim leaves
// pending the only remaining transitions are repaying->paid and
// repaying->impaired (and impaired->paid via mark-as-paid).
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusRepaying  ClaimStatus = "repaying"
	ClaimStatusPaid      ClaimStatus = "paid"
	ClaimStatusRejected  ClaimStatus = "rejected"
	ClaimStatusRescinded ClaimStatus = "rescinded"
	ClaimStatusImpaired  ClaimStatus = "impaired"
)

func (cs ClaimStatus) Enum() claimtypes.Enum[ClaimStatus] {
	return claimtypes.Enum[ClaimStatus](cs)
}

func (cs ClaimStatus) Options() []string {
	return []string{
		string(ClaimStatusPending),
		string(ClaimStatusRepaying),
		string(ClaimStatusPaid),
		string(ClaimStatusRejected),
		string(ClaimStatusRescinded),
		string(ClaimStatusImpaired),
	}
}

func (cs ClaimStatus) Default() string {
	return string(ClaimStatusPending)
}

// ClaimBinding restricts the debtor's right to cancel. Bound is one-way -
// a bound claim can never be loosened.
type ClaimBinding string

const (
	ClaimBindingUnbound        ClaimBinding = "unbound"
	ClaimBindingBindingPending ClaimBinding = "binding_pending"
	ClaimBindingBound          ClaimBinding = "bound"
)

func (cb ClaimBinding) Enum() claimtypes.Enum[ClaimBinding] {
	return claimtypes.Enum[ClaimBinding](cb)
}

func (cb ClaimBinding) Options() []string {
	return []string{
		string(ClaimBindingUnbound),
		string(ClaimBindingBindingPending),
		string(ClaimBindingBound),
	}
}

func (cb ClaimBinding) Default() string {
	return string(ClaimBindingUnbound)
}

// CreateApprovalType scopes a delegate's right to create claims on the
// owner's behalf - either for any role, or only with the owner as
// creditor/debtor.
type CreateApprovalType string

const (
	CreateApprovalUnapproved   CreateApprovalType = "unapproved"
	CreateApprovalApproved     CreateApprovalType = "approved"
	CreateApprovalCreditorOnly CreateApprovalType = "creditor_only"
	CreateApprovalDebtorOnly   CreateApprovalType = "debtor_only"
)

func (at CreateApprovalType) Enum() claimtypes.Enum[CreateApprovalType] {
	return claimtypes.Enum[CreateApprovalType](at)
}

func (at CreateApprovalType) Options() []string {
	return []string{
		string(CreateApprovalUnapproved),
		string(CreateApprovalApproved),
		string(CreateApprovalCreditorOnly),
		string(CreateApprovalDebtorOnly),
	}
}

func (at CreateApprovalType) Default() string {
	return string(CreateApprovalUnapproved)
}

// PayApprovalType scopes a delegate's right to pay claims on the owner's
// behalf - blanket, or itemized per claim.
type PayApprovalType string

const (
	PayApprovalUnapproved  PayApprovalType = "unapproved"
	PayApprovalForSpecific PayApprovalType = "specific"
	PayApprovalForAll      PayApprovalType = "all"
)

func (at PayApprovalType) Enum() claimtypes.Enum[PayApprovalType] {
	return claimtypes.Enum[PayApprovalType](at)
}

func (at PayApprovalType) Options() []string {
	return []string{
		string(PayApprovalUnapproved),
		string(PayApprovalForSpecific),
		string(PayApprovalForAll),
	}
}

func (at PayApprovalType) Default() string {
	return string(PayApprovalUnapproved)
}

// LockState is the administrative mutation gate for the whole engine
type LockState string

const (
	LockStateUnlocked    LockState = "unlocked"
	LockStateNoNewClaims LockState = "no_new_claims"
	LockStateLocked      LockState = "locked"
)

func (ls LockState) Enum() claimtypes.Enum[LockState] {
	return claimtypes.Enum[LockState](ls)
}

func (ls LockState) Options() []string {
	return []string{
		string(LockStateUnlocked),
		string(LockStateNoNewClaims),
		string(LockStateLocked),
	}
}

func (ls LockState) Default() string {
	return string(LockStateUnlocked)
}

// ClaimRole identifies which side of a claim a principal is on
type ClaimRole string

const (
	ClaimRoleCreditor ClaimRole = "creditor"
	ClaimRoleDebtor   ClaimRole = "debtor"
)

func (cr ClaimRole) Enum() claimtypes.Enum[ClaimRole] {
	return claimtypes.Enum[ClaimRole](cr)
}

func (cr ClaimRole) Options() []string {
	return []string{
		string(ClaimRoleCreditor),
		string(ClaimRoleDebtor),
	}
}
