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
	"github.com/google/uuid"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// ClaimEventType discriminates entries in the claim event journal
type ClaimEventType string

const (
	EventClaimCreated     ClaimEventType = "claim_created"
	EventClaimPaid        ClaimEventType = "claim_paid"
	EventClaimCancelled   ClaimEventType = "claim_cancelled"
	EventBindingUpdated   ClaimEventType = "binding_updated"
	EventClaimImpaired    ClaimEventType = "claim_impaired"
	EventClaimMarkedPaid  ClaimEventType = "claim_marked_paid"
	EventClaimTransferred ClaimEventType = "claim_transferred"
)

func (et ClaimEventType) Enum() claimtypes.Enum[ClaimEventType] {
	return claimtypes.Enum[ClaimEventType](et)
}

func (et ClaimEventType) Options() []string {
	return []string{
		string(EventClaimCreated),
		string(EventClaimPaid),
		string(EventClaimCancelled),
		string(EventBindingUpdated),
		string(EventClaimImpaired),
		string(EventClaimMarkedPaid),
		string(EventClaimTransferred),
	}
}

// ClaimEvent is one journaled lifecycle event, written in the same database
// transaction as the state change it describes. Sequence is a monotonic
// journal ordering for off-chain indexers.
type ClaimEvent struct {
	Sequence  uint64                          `json:"sequence"`
	ID        uuid.UUID                       `json:"id"`
	Type      claimtypes.Enum[ClaimEventType] `json:"type"`
	ClaimID   uint64                          `json:"claimId"`
	Caller    claimtypes.EthAddress           `json:"caller"`
	Timestamp claimtypes.Timestamp            `json:"timestamp"`

	// Payment fields (claim_paid)
	PaymentAmount *claimtypes.HexUint256 `json:"paymentAmount,omitempty"`
	TotalPaid     *claimtypes.HexUint256 `json:"totalPaid,omitempty"`
	FeeAmount     *claimtypes.HexUint256 `json:"feeAmount,omitempty"`

	// Cancellation fields (claim_cancelled)
	Note         string                        `json:"note,omitempty"`
	ResultStatus claimtypes.Enum[ClaimStatus]  `json:"resultStatus,omitempty"`

	// Binding fields (binding_updated)
	Binding claimtypes.Enum[ClaimBinding] `json:"binding,omitempty"`

	// Ownership fields (claim_created, claim_transferred)
	Owner *claimtypes.EthAddress `json:"owner,omitempty"`
}

// EventSink receives events after the transaction that produced them has
// committed. Delivery is best-effort - the journal is the source of truth.
type EventSink interface {
	ClaimEvent(event *ClaimEvent)
}
