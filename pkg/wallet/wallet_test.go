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

package wallet

import (
	"context"
	"testing"

	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/opencredit/claimsengine/pkg/claimsapi"
	"github.com/opencredit/claimsengine/pkg/claimsconf"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewFromMnemonic(t *testing.T) {

	ctx := context.Background()

	w1, err := NewFromMnemonic(ctx, testMnemonic, "")
	require.NoError(t, err)
	w1Addr := w1.Address()
	assert.False(t, w1Addr.IsZero())

	// same mnemonic, same key
	w2, err := NewFromMnemonic(ctx, testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, w1.Address(), w2.Address())

	// the password salts the derivation
	w3, err := NewFromMnemonic(ctx, testMnemonic, "altered")
	require.NoError(t, err)
	assert.NotEqual(t, w1.Address(), w3.Address())

	_, err = NewFromMnemonic(ctx, "twelve words that were never on any wordlist at all whatsoever really", "")
	assert.Regexp(t, "CE010600", err)

	_, err = NewFromPrivateKey(ctx, []byte{0x01, 0x02})
	assert.Regexp(t, "CE010601", err)

}

func TestSignRoundTrip(t *testing.T) {

	ctx := context.Background()
	w, err := Generate()
	require.NoError(t, err)

	digest := claimtypes.HexBytes(claimtypes.RandBytes(32))
	sigBytes, err := w.Sign(digest)
	require.NoError(t, err)
	assert.Len(t, []byte(sigBytes), 65)

	sig, err := secp256k1.DecodeCompactRSV(ctx, sigBytes)
	require.NoError(t, err)
	recovered, err := sig.RecoverDirect(digest, 0)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), *claimtypes.EthAddressBytes(recovered[:]))

}

func TestSignPermits(t *testing.T) {

	ctx := context.Background()
	domain, err := claimsigning.NewDomain(ctx, &claimsconf.SigningDomainConfig{
		ChainID:           31337,
		VerifyingContract: claimtypes.RandAddress().String(),
	})
	require.NoError(t, err)

	w, err := Generate()
	require.NoError(t, err)
	delegate := *claimtypes.RandAddress()

	s1, err := w.SignPermitCreateClaim(ctx, domain, &claimsigning.PermitCreateClaimPayload{
		Owner:        w.Address(),
		Delegate:     delegate,
		ApprovalType: claimsapi.CreateApprovalApproved,
	})
	require.NoError(t, err)
	assert.Len(t, []byte(s1), 65)

	s2, err := w.SignPermitPayClaim(ctx, domain, &claimsigning.PermitPayClaimPayload{
		Owner:        w.Address(),
		Delegate:     delegate,
		ApprovalType: claimsapi.PayApprovalForAll,
	})
	require.NoError(t, err)
	assert.Len(t, []byte(s2), 65)

	s3, err := w.SignPermitCancelClaim(ctx, domain, &claimsigning.PermitCancelClaimPayload{
		Owner:    w.Address(),
		Delegate: delegate,
	})
	require.NoError(t, err)
	assert.Len(t, []byte(s3), 65)

	s4, err := w.SignPermitUpdateBinding(ctx, domain, &claimsigning.PermitUpdateBindingPayload{
		Owner:    w.Address(),
		Delegate: delegate,
	})
	require.NoError(t, err)
	assert.Len(t, []byte(s4), 65)

}
