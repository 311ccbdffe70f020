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

// Package wallet is the off-chain half of the approval system: an in-memory
// secp256k1 signer that principals (and tests) use to sign permit payloads
// the engine's verifier accepts. Keys are held in memory only - durable key
// management belongs to the controller embedding the engine.
package wallet

import (
	"context"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/opencredit/claimsengine/internal/msgs"
	"github.com/opencredit/claimsengine/pkg/claimsigning"
	"github.com/opencredit/claimsengine/pkg/claimtypes"
	"github.com/tyler-smith/go-bip39"
)

type Wallet struct {
	keypair *secp256k1.KeyPair
}

// NewFromMnemonic derives a signing key from a BIP-39 mnemonic
func NewFromMnemonic(ctx context.Context, mnemonic, password string) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, i18n.NewError(ctx, msgs.MsgWalletInvalidMnemonic)
	}
	seed := bip39.NewSeed(mnemonic, password)
	return NewFromPrivateKey(ctx, seed[:32])
}

func NewFromPrivateKey(ctx context.Context, privateKey []byte) (*Wallet, error) {
	keypair, err := secp256k1.NewSecp256k1KeyPair(privateKey)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgWalletInvalidKey)
	}
	return &Wallet{keypair: keypair}, nil
}

// Generate creates a wallet with a fresh random key
func Generate() (*Wallet, error) {
	keypair, err := secp256k1.GenerateSecp256k1KeyPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{keypair: keypair}, nil
}

func (w *Wallet) Address() claimtypes.EthAddress {
	return *claimtypes.EthAddressBytes(w.keypair.Address[:])
}

// Sign produces the 65-byte compact R,S,V signature over a permit digest
func (w *Wallet) Sign(digest claimtypes.HexBytes) (claimtypes.HexBytes, error) {
	sig, err := w.keypair.SignDirect(digest)
	if err != nil {
		return nil, err
	}
	return claimtypes.HexBytes(sig.CompactRSV()), nil
}

func (w *Wallet) SignPermitCreateClaim(ctx context.Context, domain *claimsigning.Domain, p *claimsigning.PermitCreateClaimPayload) (claimtypes.HexBytes, error) {
	digest, err := domain.PermitCreateClaimDigest(ctx, p)
	if err != nil {
		return nil, err
	}
	return w.Sign(digest)
}

func (w *Wallet) SignPermitPayClaim(ctx context.Context, domain *claimsigning.Domain, p *claimsigning.PermitPayClaimPayload) (claimtypes.HexBytes, error) {
	digest, err := domain.PermitPayClaimDigest(ctx, p)
	if err != nil {
		return nil, err
	}
	return w.Sign(digest)
}

func (w *Wallet) SignPermitCancelClaim(ctx context.Context, domain *claimsigning.Domain, p *claimsigning.PermitCancelClaimPayload) (claimtypes.HexBytes, error) {
	digest, err := domain.PermitCancelClaimDigest(ctx, p)
	if err != nil {
		return nil, err
	}
	return w.Sign(digest)
}

func (w *Wallet) SignPermitUpdateBinding(ctx context.Context, domain *claimsigning.Domain, p *claimsigning.PermitUpdateBindingPayload) (claimtypes.HexBytes, error) {
	digest, err := domain.PermitUpdateBindingDigest(ctx, p)
	if err != nil {
		return nil, err
	}
	return w.Sign(digest)
}
