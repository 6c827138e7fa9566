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

// Transaction is the signed input document of one state transition run. It is
// immutable once authenticated for the duration of the run.
type Transaction struct {
	Hash       string      `json:"hash"`
	From       string      `json:"from" validate:"required"`
	Signature  string      `json:"signature"`
	DatasetID  string      `json:"datasetId" validate:"required"`
	Nonce      string      `json:"nonce" validate:"required"`
	Operations []Operation `json:"operations" validate:"required"`
}

// Operation is the wire form of a single ledger operation. The parameters are
// kept as raw JSON so that the canonical hash can be recomputed over the exact
// payload the sender signed; they are decoded into one of the typed operations
// by the schema layer before reaching the processor.
type Operation struct {
	Module string          `json:"module" validate:"required"`
	Method string          `json:"method" validate:"required"`
	Params json.RawMessage `json:"params" validate:"required"`
}

// HashPayload is the portion of a transaction covered by its hash and
// signature.
type HashPayload struct {
	DatasetID  string      `json:"datasetId"`
	Nonce      string      `json:"nonce"`
	Operations []Operation `json:"operations"`
}

// Payload returns the hashable portion of the transaction.
func (t *Transaction) Payload() HashPayload {
	return HashPayload{
		DatasetID:  t.DatasetID,
		Nonce:      t.Nonce,
		Operations: t.Operations,
	}
}
