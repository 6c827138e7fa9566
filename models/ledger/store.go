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
	"errors"
)

// Names of the persisted ledger documents.
const (
	DocDataset       = "dataset"
	DocNonces        = "nonces"
	DocOwners        = "owners"
	DocMetadata      = "metadata"
	DocBatches       = "batches"
	DocAssets        = "assets"
	DocBalances      = "balances"
	DocEvents        = "events"
	DocVerifications = "verifications"
	DocTransaction   = "transaction"
)

// ErrNotFound is returned by a store when the named document does not exist.
// Every document is optional on the first run.
var ErrNotFound = errors.New("document not found")

// Store gives access to named ledger documents. The engine never depends on
// which backend is active.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Close() error
}

// Codec encodes and decodes values for a storage backend.
type Codec interface {
	Marshal(value interface{}) ([]byte, error)
	Unmarshal(data []byte, value interface{}) error
}
