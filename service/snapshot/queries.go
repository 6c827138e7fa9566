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

package snapshot

import (
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// Initialized reports whether the dataset record has been created.
func (s *Snapshot) Initialized() bool {
	return s.Dataset != nil
}

// IsOwner reports whether the given public key is currently in the owner set.
func (s *Snapshot) IsOwner(key string) bool {
	for _, owner := range s.Owners {
		if owner == key {
			return true
		}
	}
	return false
}

// HasNonce reports whether the given nonce has already been consumed.
func (s *Snapshot) HasNonce(nonce string) bool {
	for _, used := range s.Nonces {
		if used == nonce {
			return true
		}
	}
	return false
}

// NextBatchID returns the identifier the next minted batch will receive.
// Identifiers are derived from the current collection size so the processor
// stays pure given a snapshot.
func (s *Snapshot) NextBatchID() uint64 {
	return uint64(len(s.Batches)) + 1
}

// NextTokenID returns the identifier the next minted asset will receive. The
// counter is global across all batches.
func (s *Snapshot) NextTokenID() uint64 {
	return uint64(len(s.Assets)) + 1
}

// Asset returns the asset with the given token identifier.
func (s *Snapshot) Asset(tokenID uint64) (*ledger.Asset, bool) {
	for _, asset := range s.Assets {
		if asset.TokenID == tokenID {
			return asset, true
		}
	}
	return nil, false
}

// Batch returns the batch with the given identifier.
func (s *Snapshot) Batch(batchID uint64) (*ledger.Batch, bool) {
	for _, batch := range s.Batches {
		if batch.ID == batchID {
			return batch, true
		}
	}
	return nil, false
}

// BalanceOf returns the number of assets currently owned by the given
// account.
func (s *Snapshot) BalanceOf(owner string) int64 {
	return s.Balances[owner]
}

// OwnerOf returns the current owner of the given token.
func (s *Snapshot) OwnerOf(tokenID uint64) (string, bool) {
	asset, ok := s.Asset(tokenID)
	if !ok {
		return "", false
	}
	return asset.Owner, true
}

// MetadataOf returns the metadata of the given token.
func (s *Snapshot) MetadataOf(tokenID uint64) (ledger.AssetMeta, bool) {
	asset, ok := s.Asset(tokenID)
	if !ok {
		return nil, false
	}
	return asset.Metadata, true
}

// AssetsOf returns every asset currently owned by the given account, in
// minting order.
func (s *Snapshot) AssetsOf(owner string) []*ledger.Asset {
	var assets []*ledger.Asset
	for _, asset := range s.Assets {
		if asset.Owner == owner {
			assets = append(assets, asset)
		}
	}
	return assets
}

// Forwards returns every asset of the given batch that still has forward
// status, in ascending token order.
func (s *Snapshot) Forwards(batchID uint64) []*ledger.Asset {
	var forwards []*ledger.Asset
	for _, asset := range s.Assets {
		if asset.BatchID == batchID && asset.Metadata.Status() == ledger.StatusForward {
			forwards = append(forwards, asset)
		}
	}
	return forwards
}
