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

package msgs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

const claimsEnginePrefix = "CE01"

var registered sync.Once
var ffe = func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	registered.Do(func() {
		i18n.RegisterPrefix(claimsEnginePrefix, "Claims Engine")
	})
	if !strings.HasPrefix(key, claimsEnginePrefix) {
		panic(fmt.Errorf("must have prefix '%s': %s", claimsEnginePrefix, key))
	}
	return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
}

var (
	// Types CE0100XX
	MsgTypesInvalidHex          = ffe("CE010000", "Invalid hex: %s")
	MsgTypesInvalidHexInteger   = ffe("CE010001", "Invalid integer: %s")
	MsgTypesValueInvalidAddress = ffe("CE010002", "Invalid address: %v")
	MsgTypesEnumValueInvalid    = ffe("CE010003", "Value must be one of %s")
	MsgTypesTimeParseFail       = ffe("CE010004", "Cannot parse time as RFC3339, Unix, or UnixNano: '%s'")
	MsgTypesScanFail            = ffe("CE010005", "Unable to scan type %T into type %T")
	MsgTypesUnmarshalNil        = ffe("CE010006", "UnmarshalJSON on nil pointer")
	MsgTypesInvalidLength       = ffe("CE010007", "Invalid length expected=%d actual=%d")

	// Persistence CE0101XX
	MsgPersistenceInvalidType          = ffe("CE010100", "Invalid persistence type: %s")
	MsgPersistenceMissingDSN           = ffe("CE010101", "Missing database connection DSN")
	MsgPersistenceInitFailed           = ffe("CE010102", "Database init failed")
	MsgPersistenceMigrationFailed      = ffe("CE010103", "Database migration failed")
	MsgPersistenceMissingMigrationDir  = ffe("CE010104", "Missing migration directory (required when autoMigrate enabled)")
	MsgPersistenceErrorInDBTransaction = ffe("CE010105", "Error in database transaction: %v")

	// Config CE0102XX
	MsgConfigFileReadError           = ffe("CE010200", "Failed to read config file %s: %v")
	MsgConfigFileParseError          = ffe("CE010201", "Failed to parse config file: %v")
	MsgConfigMissingChainID          = ffe("CE010202", "Signing domain requires a chain ID")
	MsgConfigMissingVerifyingAddress = ffe("CE010203", "Signing domain requires a verifying contract address")

	// Signatures CE0103XX
	MsgSigInvalidSignature         = ffe("CE010300", "Invalid signature")
	MsgSigPayloadEncodingFailed    = ffe("CE010301", "Failed to encode approval payload")
	MsgSigContractValidationFailed = ffe("CE010303", "Contract signature validation failed for signer %s")

	// Approvals CE0104XX
	MsgApprovalInvalid              = ffe("CE010400", "Invalid approval")
	MsgApprovalInvalidPayment       = ffe("CE010401", "Invalid payment approval")
	MsgApprovalNotApproved          = ffe("CE010402", "Not approved")
	MsgApprovalBindingNotAllowed    = ffe("CE010403", "Delegate is not approved to create bound claims")
	MsgApprovalPaymentUnderApproved = ffe("CE010404", "Payment of %s exceeds approved amount %s for claim %d")
	MsgApprovalPastDeadline         = ffe("CE010405", "Approval deadline has passed")
	MsgApprovalDeadlineOutOfRange   = ffe("CE010406", "Approval deadline out of range: %s")

	// Claims CE0105XX
	MsgClaimNotFound            = ffe("CE010500", "Claim %d not found")
	MsgClaimZeroAmount          = ffe("CE010501", "Claim amount must be greater than zero")
	MsgClaimSelfCounterparty    = ffe("CE010502", "Creditor and debtor must be different parties")
	MsgClaimZeroParty           = ffe("CE010503", "Creditor and debtor must be non-zero addresses")
	MsgClaimDueByOutOfRange     = ffe("CE010504", "Due date out of range: %s")
	MsgClaimLocked              = ffe("CE010505", "Claims engine is locked")
	MsgClaimPayingZero          = ffe("CE010506", "Payment amount must be greater than zero")
	MsgClaimNotPending          = ffe("CE010507", "Claim %d cannot be modified in status '%s'")
	MsgClaimNotCancellable      = ffe("CE010508", "Claim %d cannot be cancelled in status '%s'")
	MsgClaimOverPaying          = ffe("CE010509", "Payment of %s would exceed remaining claim amount %s")
	MsgClaimBound               = ffe("CE010510", "Claim %d is bound and cannot be cancelled by its debtor")
	MsgClaimNotCreditorOrDebtor = ffe("CE010511", "Caller %s is neither creditor nor debtor of claim %d")
	MsgClaimNotCreditor         = ffe("CE010512", "Caller %s is not the creditor of claim %d")
	MsgClaimNotController       = ffe("CE010514", "Claim %d is managed by controller %s")
	MsgClaimBindingIrreversible = ffe("CE010515", "Claim %d is bound; binding cannot be loosened")
	MsgClaimInvalidBinding      = ffe("CE010516", "Invalid binding transition '%s' -> '%s' for claim %d")
	MsgClaimInvalidTransition   = ffe("CE010517", "Invalid status transition '%s' -> '%s' for claim %d")
	MsgClaimFeeExceedsPayment   = ffe("CE010518", "Calculated fee %s exceeds payment amount %s")
	MsgClaimTransferShortfall   = ffe("CE010519", "Transfer moved %s of requested %s")
	MsgClaimNotAdmin            = ffe("CE010520", "Caller %s is not the configured admin")
	MsgClaimNoTransferor        = ffe("CE010521", "No value transferor configured")

	// Wallet CE0106XX
	MsgWalletInvalidMnemonic = ffe("CE010600", "Invalid BIP-39 mnemonic")
	MsgWalletInvalidKey      = ffe("CE010601", "Invalid private key")
)
