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

// Package processor applies the operations of an authenticated transaction
// to a ledger snapshot, operation by operation, in transaction order. Any
// failure aborts the whole transaction; the caller discards the snapshot, so
// no rollback machinery is needed.
package processor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/ledger/failure"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
)

// Processor is the operation state machine of the ledger.
type Processor struct {
	cfg   Config
	log   zerolog.Logger
	codec cjson.Codec
}

// New returns a Processor using the given options.
func New(log zerolog.Logger, options ...Option) *Processor {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	p := Processor{
		cfg:   cfg,
		log:   log.With().Str("component", "processor").Logger(),
		codec: cjson.NewCodec(),
	}

	return &p
}

// Process applies the given operations to the snapshot in order. The nonce
// is consumed before any operation runs, and the dataset identifier of the
// transaction must match the persisted dataset once one exists.
func (p *Processor) Process(s *snapshot.Snapshot, tx *ledger.Transaction, ops []ledger.Op) error {

	if s.Initialized() && s.Dataset.ID != tx.DatasetID {
		return failure.InvalidDataset{Have: tx.DatasetID, Want: s.Dataset.ID}
	}

	if s.HasNonce(tx.Nonce) {
		return failure.InvalidNonce{Nonce: tx.Nonce}
	}
	s.Nonces = append(s.Nonces, tx.Nonce)

	for index, op := range ops {
		err := p.apply(s, tx, op)
		if err != nil {
			return fmt.Errorf("could not apply operation (index: %d, ref: %s): %w", index, op.Ref(), err)
		}
	}

	return nil
}

// apply dispatches one operation to its arm. The switch is exhaustive over
// the closed operation set; the schema layer never hands us anything else.
func (p *Processor) apply(s *snapshot.Snapshot, tx *ledger.Transaction, op ledger.Op) error {
	switch op := op.(type) {
	case *ledger.DatasetInit:
		return p.applyInit(s, tx, op)
	case *ledger.OwnershipAdd:
		return p.applyOwnershipAdd(s, tx, op)
	case *ledger.OwnershipRevoke:
		return p.applyOwnershipRevoke(s, tx, op)
	case *ledger.MetadataUpdate:
		return p.applyMetadataUpdate(s, tx, op)
	case *ledger.MintForwardBatch:
		return p.applyMintForwardBatch(s, tx, op)
	case *ledger.MintCarbonCredits:
		return p.applyMintCarbonCredits(s, tx, op)
	case *ledger.Transfer:
		return p.applyTransfer(s, tx, op)
	default:
		return fmt.Errorf("unknown operation type (%T)", op)
	}
}

func (p *Processor) applyInit(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.DatasetInit) error {

	if s.Initialized() {
		return failure.AlreadyInitialized{DatasetID: s.Dataset.ID}
	}

	s.Dataset = &ledger.DatasetInfo{
		ID:      op.DatasetID,
		Name:    p.cfg.DatasetName,
		Version: p.cfg.DatasetVersion,
	}
	s.Owners = append(s.Owners, op.Owner)

	p.log.Info().Str("dataset", op.DatasetID).Str("owner", op.Owner).Msg("dataset initialized")

	return p.emit(s, tx, ledger.ModuleDataset, ledger.MethodInit, map[string]interface{}{
		"ref":   op.Ref(),
		"id":    op.DatasetID,
		"owner": op.Owner,
	})
}

func (p *Processor) applyOwnershipAdd(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.OwnershipAdd) error {

	err := p.gate(s, tx, ledger.ModuleOwnership, ledger.MethodAdd)
	if err != nil {
		return err
	}

	// Duplicates are kept deliberately; a later revoke removes all of them
	// at once.
	s.Owners = append(s.Owners, op.Owner)

	return p.emit(s, tx, ledger.ModuleOwnership, ledger.MethodAdd, map[string]interface{}{
		"ref":   op.Ref(),
		"owner": op.Owner,
	})
}

func (p *Processor) applyOwnershipRevoke(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.OwnershipRevoke) error {

	err := p.gate(s, tx, ledger.ModuleOwnership, ledger.MethodRevoke)
	if err != nil {
		return err
	}

	owners := s.Owners[:0]
	for _, owner := range s.Owners {
		if owner != op.Owner {
			owners = append(owners, owner)
		}
	}
	s.Owners = owners

	return p.emit(s, tx, ledger.ModuleOwnership, ledger.MethodRevoke, map[string]interface{}{
		"ref":   op.Ref(),
		"owner": op.Owner,
	})
}

func (p *Processor) applyMetadataUpdate(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.MetadataUpdate) error {

	err := p.gate(s, tx, ledger.ModuleMetadata, ledger.MethodUpdate)
	if err != nil {
		return err
	}

	s.Metadata = op.Metadata

	// The metadata payload itself is not echoed into the event log.
	return p.emit(s, tx, ledger.ModuleMetadata, ledger.MethodUpdate, map[string]interface{}{
		"ref": op.Ref(),
	})
}

func (p *Processor) applyMintForwardBatch(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.MintForwardBatch) error {

	err := p.gate(s, tx, ledger.ModuleAssets, ledger.MethodMintForwardBatch)
	if err != nil {
		return err
	}

	batchID := s.NextBatchID()
	firstTokenID := s.NextTokenID()

	s.Batches = append(s.Batches, &ledger.Batch{
		ID:           batchID,
		Name:         op.BatchName,
		Amount:       op.BatchAmount,
		Percentage:   op.BatchPercentage,
		FirstTokenID: firstTokenID,
		Converted:    0,
		Remaining:    op.BatchAmount,
	})

	for i := uint64(0); i < op.BatchAmount; i++ {
		meta := ledger.AssetMeta{}.Merge(op.AssetMetadata)
		meta[ledger.MetaStatus] = ledger.StatusForward
		meta[ledger.MetaVcu] = ""
		s.Assets = append(s.Assets, &ledger.Asset{
			BatchID:  batchID,
			TokenID:  firstTokenID + i,
			Owner:    ledger.PoolAccount,
			Metadata: meta,
		})
	}
	s.Balances[ledger.PoolAccount] += int64(op.BatchAmount)

	p.log.Info().
		Uint64("batch", batchID).
		Str("name", op.BatchName).
		Uint64("amount", op.BatchAmount).
		Uint64("first_token", firstTokenID).
		Msg("forward batch minted")

	return p.emit(s, tx, ledger.ModuleAssets, ledger.MethodMintForwardBatch, map[string]interface{}{
		"ref":             op.Ref(),
		"batchId":         batchID,
		"batchName":       op.BatchName,
		"batchPercentage": op.BatchPercentage,
		"batchAmount":     op.BatchAmount,
		"assetMetadata":   op.AssetMetadata,
		"firstTokenId":    firstTokenID,
		"owner":           ledger.PoolAccount,
	})
}

func (p *Processor) applyTransfer(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.Transfer) error {

	if !s.Initialized() {
		return failure.NotInitialized{Module: ledger.ModuleAssets, Method: ledger.MethodTransfer}
	}

	asset, ok := s.Asset(op.TokenID)
	if !ok {
		return failure.InvalidAsset{TokenID: op.TokenID}
	}

	// Pool-held assets can be moved by any dataset owner; individually held
	// assets only by their current holder.
	if asset.Owner == ledger.PoolAccount && !s.IsOwner(tx.From) {
		return failure.NotOwner{Sender: tx.From}
	}
	if asset.Owner != ledger.PoolAccount && tx.From != asset.Owner {
		return failure.NotAssetOwner{Sender: tx.From, TokenID: op.TokenID}
	}

	from := asset.Owner
	asset.Owner = op.To
	s.Balances[from]--
	s.Balances[op.To]++

	return p.emit(s, tx, ledger.ModuleAssets, ledger.MethodTransfer, map[string]interface{}{
		"ref":     op.Ref(),
		"tokenId": op.TokenID,
		"from":    from,
		"to":      op.To,
	})
}

// gate enforces dataset initialization and owner authorization for an
// operation. Authorization uses the current owner set, so an operation that
// changed ownership earlier in the same transaction affects later ones.
func (p *Processor) gate(s *snapshot.Snapshot, tx *ledger.Transaction, module string, method string) error {
	if !s.Initialized() {
		return failure.NotInitialized{Module: module, Method: method}
	}
	if !s.IsOwner(tx.From) {
		return failure.NotOwner{Sender: tx.From}
	}
	return nil
}

// emit appends an event to the log, encoding the data payload canonically so
// the persisted log is byte-stable.
func (p *Processor) emit(s *snapshot.Snapshot, tx *ledger.Transaction, module string, etype string, data map[string]interface{}) error {
	payload, err := p.codec.Marshal(data)
	if err != nil {
		return fmt.Errorf("could not encode event data: %w", err)
	}
	s.Events = append(s.Events, ledger.Event{
		TransactionHash: tx.Hash,
		From:            tx.From,
		Module:          module,
		Type:            etype,
		Data:            payload,
	})
	return nil
}
