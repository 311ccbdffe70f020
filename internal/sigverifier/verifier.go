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

package sigverifier

import (
	"context"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-common/pkg/log"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
)

// Verifier checks a permit digest was signed by the expected owner. Raw-key
// accounts are verified by ECDSA recovery; contract accounts (when a
// validator is configured) by delegated ERC-1271 style validation.
// Verification is stateless - replay protection is the nonce embedded in
// the signed payload, owned by the approval manager.
type Verifier struct {
	domain       *claimsigning.Domain
	contractSigs claimsapi.ContractSignatureValidator
}

func NewVerifier(domain *claimsigning.Domain, contractSigs claimsapi.ContractSignatureValidator) *Verifier {
	return &Verifier{
		domain:       domain,
		contractSigs: contractSigs,
	}
}

func (v *Verifier) Domain() *claimsigning.Domain {
	return v.domain
}

// Verify fails closed: any decode, recovery or mismatch condition comes back
// as the single invalid-signature error, without detail an attacker could
// learn from
func (v *Verifier) Verify(ctx context.Context, owner claimtypes.EthAddress, digest claimtypes.HexBytes, signature claimtypes.HexBytes) error {
	if v.contractSigs != nil && v.contractSigs.IsContractAccount(ctx, owner) {
		return v.verifyContractSignature(ctx, owner, digest, signature)
	}

	sig, err := secp256k1.DecodeCompactRSV(ctx, signature)
	if err != nil {
		log.L(ctx).Debugf("Signature decode failed for owner %s: %s", owner, err)
		return i18n.NewError(ctx, msgs.MsgSigInvalidSignature)
	}
	signerAddr, err := sig.RecoverDirect(digest, v.domain.ChainID())
	if err != nil {
		log.L(ctx).Debugf("Signature recovery failed for owner %s: %s", owner, err)
		return i18n.NewError(ctx, msgs.MsgSigInvalidSignature)
	}
	if *claimtypes.EthAddressBytes(signerAddr[:]) != owner {
		log.L(ctx).Debugf("Signature recovered %s but expected %s", signerAddr, owner)
		return i18n.NewError(ctx, msgs.MsgSigInvalidSignature)
	}
	return nil
}

func (v *Verifier) verifyContractSignature(ctx context.Context, owner claimtypes.EthAddress, digest claimtypes.HexBytes, signature claimtypes.HexBytes) error {
	valid, err := v.contractSigs.IsValidSignature(ctx, owner, digest, signature)
	if err != nil {
		return i18n.WrapError(ctx, err, msgs.MsgSigContractValidationFailed, owner)
	}
	if !valid {
		return i18n.NewError(ctx, msgs.MsgSigInvalidSignature)
	}
	return nil
}
