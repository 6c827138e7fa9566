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

// Package transactor builds and signs ledger transactions on behalf of a
// single key holder. The hash and signature it produces are exactly what the
// verifier checks, so a signed transaction can be replayed against any machine
// holding the same documents.
package transactor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// Transactor signs ledger transactions with a fixed private key.
type Transactor struct {
	cfg   Config
	codec cjson.Codec
	key   *secp256k1.PrivateKey
}

// New creates a transactor signing with the given private key.
func New(key *secp256k1.PrivateKey, options ...Option) *Transactor {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	t := Transactor{
		cfg:   cfg,
		codec: cjson.NewCodec(),
		key:   key,
	}

	return &t
}

// FromHex creates a transactor from a hex-encoded private key.
func FromHex(encoded string, options ...Option) (*Transactor, error) {
	data, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("could not decode private key: %w", err)
	}
	if len(data) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid private key length (have: %d, want: %d)", len(data), secp256k1.PrivKeyBytesLen)
	}
	return New(secp256k1.PrivKeyFromBytes(data), options...), nil
}

// Address returns the sender address of the transactor, which is the
// hex-encoded uncompressed public key of its private key.
func (t *Transactor) Address() string {
	return hex.EncodeToString(t.key.PubKey().SerializeUncompressed())
}

// Sign assembles the given operations into a transaction against the given
// dataset, computes its canonical hash and signs it.
func (t *Transactor) Sign(datasetID string, ops ...ledger.Operation) (*ledger.Transaction, error) {

	nonce, err := t.cfg.Nonce()
	if err != nil {
		return nil, fmt.Errorf("could not generate nonce: %w", err)
	}

	tx := ledger.Transaction{
		From:       t.Address(),
		DatasetID:  datasetID,
		Nonce:      nonce,
		Operations: ops,
	}

	payload, err := t.codec.Marshal(tx.Payload())
	if err != nil {
		return nil, fmt.Errorf("could not encode transaction payload: %w", err)
	}

	hash := sha256.Sum256(payload)
	tx.Hash = hex.EncodeToString(hash[:])

	// The compact signature carries a recovery byte first; the wire format
	// keeps only the 64 bytes of r and s.
	sig := ecdsa.SignCompact(t.key, hash[:], false)
	tx.Signature = hex.EncodeToString(sig[1:])

	return &tx, nil
}
