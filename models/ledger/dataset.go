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

package ledger

import (
	"encoding/json"
)

// PoolAccount is the reserved pseudo-account that holds newly minted assets
// before they are transferred to individual holders.
const PoolAccount = "owner"

// Asset statuses.
const (
	StatusForward      = "forward"
	StatusCarbonCredit = "carbonCredit"
)

// Reserved asset metadata keys.
const (
	MetaStatus = "status"
	MetaVcu    = "vcu"
)

// Verification record fields for a successful run.
const (
	VerificationSuccess = "success"
	VerificationMessage = "All assets verified correctly"
)

// DatasetInfo identifies the dataset. It is created exactly once and is
// immutable thereafter; its presence gates all other operations.
type DatasetInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Batch is a named cohort of forward credits minted together. At all times
// Converted + Remaining == Amount.
type Batch struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Amount       uint64 `json:"amount"`
	Percentage   uint64 `json:"percentage"`
	FirstTokenID uint64 `json:"firstTokenId"`
	Converted    uint64 `json:"converted"`
	Remaining    uint64 `json:"remaining"`
}

// Asset is a single credit token. A batch identifier of zero marks an asset
// minted directly into the pool without an originating batch. Assets are
// never deleted, only mutated.
type Asset struct {
	BatchID  uint64    `json:"batchId"`
	TokenID  uint64    `json:"tokenId"`
	Owner    string    `json:"owner"`
	Metadata AssetMeta `json:"metadata"`
}

// AssetMeta is the free-form metadata of an asset. The status and vcu keys
// are reserved and always present.
type AssetMeta map[string]any

// Status returns the asset status, or an empty string when unset.
func (m AssetMeta) Status() string {
	status, _ := m[MetaStatus].(string)
	return status
}

// Vcu returns the verified serial identifier, or an empty string when the
// asset has not been converted.
func (m AssetMeta) Vcu() string {
	vcu, _ := m[MetaVcu].(string)
	return vcu
}

// Merge returns a copy of the metadata with the given fields merged in, the
// given fields taking precedence.
func (m AssetMeta) Merge(fields map[string]any) AssetMeta {
	merged := make(AssetMeta, len(m)+len(fields))
	for key, val := range m {
		merged[key] = val
	}
	for key, val := range fields {
		merged[key] = val
	}
	return merged
}

// Event is one append-only log entry. The data payload is stored in its
// canonical encoded form so that re-encoding the log is byte-stable.
type Event struct {
	TransactionHash string          `json:"transactionHash"`
	From            string          `json:"from"`
	Module          string          `json:"module"`
	Type            string          `json:"type"`
	Data            json.RawMessage `json:"data"`
}

// Verification records the outcome of one successful run. A run without an
// input transaction records an empty transaction hash. The timestamp is in
// milliseconds.
type Verification struct {
	TransactionHash string `json:"transactionHash"`
	Timestamp       int64  `json:"timestamp"`
	Status          string `json:"status"`
	Message         string `json:"message"`
}
