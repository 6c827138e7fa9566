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

// Package snapshot materializes the persisted ledger documents in memory for
// one processing pass. A snapshot is loaded fresh at the start of a run and
// either committed as a whole or discarded; intermediate mutations are never
// visible externally.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// Snapshot holds the full ledger state of one dataset.
type Snapshot struct {
	Dataset       *ledger.DatasetInfo
	Nonces        []string
	Owners        []string
	Metadata      json.RawMessage
	Batches       []*ledger.Batch
	Assets        []*ledger.Asset
	Balances      map[string]int64
	Events        []ledger.Event
	Verifications []ledger.Verification

	codec cjson.Codec
}

// Empty returns a snapshot with no state, the implicit prior state of a
// dataset that has never committed.
func Empty() *Snapshot {

	s := Snapshot{
		Nonces:        []string{},
		Owners:        []string{},
		Metadata:      json.RawMessage(`{}`),
		Batches:       []*ledger.Batch{},
		Assets:        []*ledger.Asset{},
		Balances:      make(map[string]int64),
		Events:        []ledger.Event{},
		Verifications: []ledger.Verification{},
		codec:         cjson.NewCodec(),
	}

	return &s
}

// FromStore loads a snapshot from the given store. Documents that do not
// exist yet are treated as empty defaults.
func FromStore(store ledger.Store) (*Snapshot, error) {

	s := Empty()

	err := read(store, ledger.DocDataset, &s.Dataset)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocNonces, &s.Nonces)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocOwners, &s.Owners)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocMetadata, &s.Metadata)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocBatches, &s.Batches)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocAssets, &s.Assets)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocBalances, &s.Balances)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocEvents, &s.Events)
	if err != nil {
		return nil, err
	}
	err = read(store, ledger.DocVerifications, &s.Verifications)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func read(store ledger.Store, name string, value interface{}) error {
	data, err := store.Read(name)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read %s document: %w", name, err)
	}
	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not decode %s document: %w", name, err)
	}
	return nil
}

// Document renders the named ledger document in its persisted layout.
func (s *Snapshot) Document(name string) ([]byte, error) {
	switch name {
	case ledger.DocDataset:
		return s.codec.MarshalDocument(s.Dataset)
	case ledger.DocNonces:
		return s.codec.MarshalDocument(s.Nonces)
	case ledger.DocOwners:
		return s.codec.MarshalDocument(s.Owners)
	case ledger.DocMetadata:
		return s.codec.MarshalDocument(s.Metadata)
	case ledger.DocBatches:
		return s.codec.MarshalDocument(s.Batches)
	case ledger.DocAssets:
		return s.codec.MarshalDocument(s.Assets)
	case ledger.DocBalances:
		return s.codec.MarshalDocument(s.Balances)
	case ledger.DocEvents:
		return s.codec.MarshalDocument(s.Events)
	case ledger.DocVerifications:
		return s.codec.MarshalDocument(s.Verifications)
	default:
		return nil, fmt.Errorf("unknown ledger document (name: %s)", name)
	}
}

// Names lists the persisted ledger documents in commit order.
func Names() []string {
	return []string{
		ledger.DocDataset,
		ledger.DocNonces,
		ledger.DocOwners,
		ledger.DocMetadata,
		ledger.DocBatches,
		ledger.DocAssets,
		ledger.DocBalances,
		ledger.DocEvents,
		ledger.DocVerifications,
	}
}

// Commit writes the named documents to each of the given stores, encoding
// each document exactly once so every store receives identical bytes.
func (s *Snapshot) Commit(names []string, stores ...ledger.Store) error {
	for _, name := range names {
		data, err := s.Document(name)
		if err != nil {
			return fmt.Errorf("could not encode %s document: %w", name, err)
		}
		for _, store := range stores {
			err = store.Write(name, data)
			if err != nil {
				return fmt.Errorf("could not write %s document: %w", name, err)
			}
		}
	}
	return nil
}

// Validate checks the ledger invariants of the snapshot and aggregates every
// violation found.
func (s *Snapshot) Validate() error {

	var result *multierror.Error

	for _, batch := range s.Batches {
		if batch.Converted+batch.Remaining != batch.Amount {
			result = multierror.Append(result, fmt.Errorf("batch amounts out of balance (batch: %d, converted: %d, remaining: %d, amount: %d)",
				batch.ID, batch.Converted, batch.Remaining, batch.Amount))
		}
	}

	owned := make(map[string]int64)
	for _, asset := range s.Assets {
		owned[asset.Owner]++
	}
	for owner, balance := range s.Balances {
		if owned[owner] != balance {
			result = multierror.Append(result, fmt.Errorf("balance does not match owned assets (owner: %s, balance: %d, owned: %d)",
				owner, balance, owned[owner]))
		}
	}
	for owner, count := range owned {
		_, ok := s.Balances[owner]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("missing balance for asset owner (owner: %s, owned: %d)", owner, count))
		}
	}

	seen := make(map[string]struct{}, len(s.Nonces))
	for _, nonce := range s.Nonces {
		_, ok := seen[nonce]
		if ok {
			result = multierror.Append(result, fmt.Errorf("duplicate nonce (nonce: %s)", nonce))
		}
		seen[nonce] = struct{}{}
	}

	return result.ErrorOrNil()
}
