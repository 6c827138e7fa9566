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

// Package failure contains the typed errors of the state transition engine.
// Every failure is fatal to the current run: the transaction is rejected and
// no document is written.
package failure

import (
	"fmt"
)

// SchemaInvalid is the error for a transaction or operation that does not
// match the expected shape, including unknown module/method combinations.
type SchemaInvalid struct {
	Module string
	Method string
	Reason string
}

// Error implements the error interface.
func (s SchemaInvalid) Error() string {
	if s.Module == "" && s.Method == "" {
		return fmt.Sprintf("invalid transaction shape: %s", s.Reason)
	}
	return fmt.Sprintf("invalid operation shape (module: %s, method: %s): %s", s.Module, s.Method, s.Reason)
}

// InvalidHash is the error for a transaction whose recomputed canonical hash
// does not match the claimed hash.
type InvalidHash struct {
	Have string
	Want string
}

// Error implements the error interface.
func (i InvalidHash) Error() string {
	return fmt.Sprintf("invalid transaction hash (claimed: %s, computed: %s)", i.Have, i.Want)
}

// InvalidSignature is the error for a missing signature or one that does not
// verify against the sender public key.
type InvalidSignature struct {
	From string
}

// Error implements the error interface.
func (i InvalidSignature) Error() string {
	return fmt.Sprintf("invalid transaction signature (from: %s)", i.From)
}

// InvalidDataset is the error for a transaction addressed at a different
// dataset than the persisted one.
type InvalidDataset struct {
	Have string
	Want string
}

// Error implements the error interface.
func (i InvalidDataset) Error() string {
	return fmt.Sprintf("invalid dataset identifier (have: %s, want: %s)", i.Have, i.Want)
}

// InvalidNonce is the error for a replayed nonce.
type InvalidNonce struct {
	Nonce string
}

// Error implements the error interface.
func (i InvalidNonce) Error() string {
	return fmt.Sprintf("invalid nonce, already consumed (nonce: %s)", i.Nonce)
}

// NotInitialized is the error for any operation applied before dataset
// initialization.
type NotInitialized struct {
	Module string
	Method string
}

// Error implements the error interface.
func (n NotInitialized) Error() string {
	return fmt.Sprintf("dataset not initialized (module: %s, method: %s)", n.Module, n.Method)
}

// AlreadyInitialized is the error for a repeated dataset initialization.
type AlreadyInitialized struct {
	DatasetID string
}

// Error implements the error interface.
func (a AlreadyInitialized) Error() string {
	return fmt.Sprintf("dataset already initialized (dataset: %s)", a.DatasetID)
}

// NotOwner is the error for an owner-gated operation whose sender is not in
// the owner set.
type NotOwner struct {
	Sender string
}

// Error implements the error interface.
func (n NotOwner) Error() string {
	return fmt.Sprintf("sender is not a dataset owner (sender: %s)", n.Sender)
}

// NotAssetOwner is the error for a transfer attempted by someone other than
// the current holder of the asset.
type NotAssetOwner struct {
	Sender  string
	TokenID uint64
}

// Error implements the error interface.
func (n NotAssetOwner) Error() string {
	return fmt.Sprintf("sender is not the asset owner (sender: %s, token: %d)", n.Sender, n.TokenID)
}

// InvalidAsset is the error for a reference to a token that does not exist.
type InvalidAsset struct {
	TokenID uint64
}

// Error implements the error interface.
func (i InvalidAsset) Error() string {
	return fmt.Sprintf("invalid asset (token: %d)", i.TokenID)
}

// InvalidVcuRange is the error for non-integral serial range bounds.
type InvalidVcuRange struct {
	SerialStart float64
	SerialEnd   float64
}

// Error implements the error interface.
func (i InvalidVcuRange) Error() string {
	return fmt.Sprintf("invalid vcus serial range provided (start: %v, end: %v)", i.SerialStart, i.SerialEnd)
}

// InvalidVcuFormat is the error for a serial format without the substitution
// placeholder.
type InvalidVcuFormat struct {
	SerialFormat string
}

// Error implements the error interface.
func (i InvalidVcuFormat) Error() string {
	return fmt.Sprintf("invalid vcus serial format provided (format: %s)", i.SerialFormat)
}

// InvalidVcus is the error for an empty or negative serial range.
type InvalidVcus struct {
	Total int64
}

// Error implements the error interface.
func (i InvalidVcus) Error() string {
	return fmt.Sprintf("invalid vcus provided (total: %d)", i.Total)
}

// ConvertAmountMismatch is the error for a conversion allocation that does
// not add up exactly, or for a batch whose converted and remaining amounts
// no longer sum to its total.
type ConvertAmountMismatch struct {
	Have uint64
	Want uint64
}

// Error implements the error interface.
func (c ConvertAmountMismatch) Error() string {
	return fmt.Sprintf("sum of convert amounts is not equal to total amount (have: %d, want: %d)", c.Have, c.Want)
}

// NotEnoughAssetsToConvert is the error for a batch allocation exceeding the
// batch's unconverted remainder.
type NotEnoughAssetsToConvert struct {
	BatchID   uint64
	Remaining uint64
	Requested uint64
}

// Error implements the error interface.
func (n NotEnoughAssetsToConvert) Error() string {
	return fmt.Sprintf("not enough assets to convert (batch: %d, remaining: %d, requested: %d)", n.BatchID, n.Remaining, n.Requested)
}

// NotEnoughForwards is the error for a batch with fewer forward assets than
// its allocation requires.
type NotEnoughForwards struct {
	BatchID   uint64
	Forwards  uint64
	Requested uint64
}

// Error implements the error interface.
func (n NotEnoughForwards) Error() string {
	return fmt.Sprintf("not enough forwards to convert (batch: %d, forwards: %d, requested: %d)", n.BatchID, n.Forwards, n.Requested)
}
