// Copyright 2023 Zippie Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package verifier authenticates transactions: it recomputes the canonical
// transaction hash and verifies the compact secp256k1 signature against the
// sender public key.
package verifier

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/ledger/failure"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

const signatureSize = 64

// Verifier authenticates transactions against their claimed hash and
// signature.
type Verifier struct {
	codec cjson.Codec
}

// New creates a new transaction verifier.
func New() *Verifier {

	v := Verifier{
		codec: cjson.NewCodec(),
	}

	return &v
}

// Authenticate recomputes the transaction hash over the canonical encoding of
// the dataset identifier, nonce and operations, compares it to the claimed
// hash and verifies the claimed signature against the sender public key. No
// partial authentication state is observable on failure.
func (v *Verifier) Authenticate(tx *ledger.Transaction) error {

	data, err := v.codec.Marshal(tx.Payload())
	if err != nil {
		return fmt.Errorf("could not encode transaction payload: %w", err)
	}
	hash := sha256.Sum256(data)

	computed := hex.EncodeToString(hash[:])
	if computed != tx.Hash {
		return failure.InvalidHash{Have: tx.Hash, Want: computed}
	}

	if tx.Signature == "" {
		return failure.InvalidSignature{From: tx.From}
	}

	sig, err := hex.DecodeString(tx.Signature)
	if err != nil || len(sig) != signatureSize {
		return failure.InvalidSignature{From: tx.From}
	}

	pub, err := secp256k1.ParsePubKey(decodeHex(tx.From))
	if err != nil {
		return failure.InvalidSignature{From: tx.From}
	}

	// The signature is in compact form, the 32-byte R and S scalars
	// concatenated.
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
		return failure.InvalidSignature{From: tx.From}
	}

	if !ecdsa.NewSignature(&r, &s).Verify(hash[:], pub) {
		return failure.InvalidSignature{From: tx.From}
	}

	return nil
}

func decodeHex(text string) []byte {
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil
	}
	return data
}
