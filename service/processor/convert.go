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

package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zippiehq/cartesi-rwa-verification/ledger/failure"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
)

// serialPlaceholder is the substitution marker the serial format must carry.
// Only its first occurrence is substituted.
const serialPlaceholder = "{serialNumber}"

// allocation assigns part of a conversion to one batch. A batch identifier
// of zero stands for direct minting into the pool account.
type allocation struct {
	BatchID       uint64 `json:"batchId"`
	ConvertAmount uint64 `json:"convertAmount"`
}

// applyMintCarbonCredits converts a contiguous serial range of verified
// credits into carbon credit assets. The range is drawn proportionally from
// each existing batch's unconverted remainder, in batch creation order, and
// any shortfall is minted fresh into the pool account. Serials are consumed
// strictly in ascending order and never reused.
func (p *Processor) applyMintCarbonCredits(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.MintCarbonCredits) error {

	err := p.gate(s, tx, ledger.ModuleAssets, ledger.MethodMintCarbonCredits)
	if err != nil {
		return err
	}

	vcus := op.AssetVcus
	if vcus.SerialStart != math.Trunc(vcus.SerialStart) || vcus.SerialEnd != math.Trunc(vcus.SerialEnd) {
		return failure.InvalidVcuRange{SerialStart: vcus.SerialStart, SerialEnd: vcus.SerialEnd}
	}
	if !strings.Contains(vcus.SerialFormat, serialPlaceholder) {
		return failure.InvalidVcuFormat{SerialFormat: vcus.SerialFormat}
	}

	start := int64(vcus.SerialStart)
	total := int64(vcus.SerialEnd) - start + 1
	if total <= 0 {
		return failure.InvalidVcus{Total: total}
	}

	serials := make([]string, 0, total)
	for i := int64(0); i < total; i++ {
		serial := strings.Replace(vcus.SerialFormat, serialPlaceholder, strconv.FormatInt(start+i, 10), 1)
		serials = append(serials, serial)
	}

	// Allocate proportionally across batches in creation order. The
	// percentage share is computed in floating point on purpose: signers
	// compute the same allocation and the trunc of an inexact product must
	// come out identical on both sides.
	allocations := make([]allocation, 0, len(s.Batches)+1)
	var sum uint64
	for _, batch := range s.Batches {
		amount := uint64(math.Trunc(float64(batch.Percentage) / 100 * float64(total)))
		if batch.Remaining < amount {
			amount = batch.Remaining
		}
		allocations = append(allocations, allocation{BatchID: batch.ID, ConvertAmount: amount})
		sum += amount
	}

	// Whatever the batches cannot cover is minted directly into the pool.
	if sum < uint64(total) {
		allocations = append(allocations, allocation{BatchID: 0, ConvertAmount: uint64(total) - sum})
	}

	var final uint64
	for _, alloc := range allocations {
		final += alloc.ConvertAmount
	}
	if final != uint64(total) {
		return failure.ConvertAmountMismatch{Have: final, Want: uint64(total)}
	}

	// The summary event precedes every per-asset event.
	err = p.emit(s, tx, ledger.ModuleAssets, ledger.MethodMintCarbonCredits, map[string]interface{}{
		"ref":                op.Ref(),
		"batchConvertAmount": allocations,
		"assetVcus":          vcus,
		"assetMetadata":      op.AssetMetadata,
	})
	if err != nil {
		return err
	}

	used := 0
	for _, alloc := range allocations {

		if alloc.BatchID == 0 {
			for i := uint64(0); i < alloc.ConvertAmount; i++ {
				err = p.mintConverted(s, tx, op, serials[used])
				if err != nil {
					return err
				}
				used++
			}
			continue
		}

		batch, ok := s.Batch(alloc.BatchID)
		if !ok {
			return fmt.Errorf("could not find batch for allocation (batch: %d)", alloc.BatchID)
		}
		if batch.Remaining < alloc.ConvertAmount {
			return failure.NotEnoughAssetsToConvert{BatchID: batch.ID, Remaining: batch.Remaining, Requested: alloc.ConvertAmount}
		}

		forwards := s.Forwards(batch.ID)
		if uint64(len(forwards)) < alloc.ConvertAmount {
			return failure.NotEnoughForwards{BatchID: batch.ID, Forwards: uint64(len(forwards)), Requested: alloc.ConvertAmount}
		}

		for _, asset := range forwards[:alloc.ConvertAmount] {
			meta := asset.Metadata.Merge(op.AssetMetadata)
			meta[ledger.MetaStatus] = ledger.StatusCarbonCredit
			meta[ledger.MetaVcu] = serials[used]
			asset.Metadata = meta

			err = p.emit(s, tx, ledger.ModuleAssets, "convertForwardToCarbonCredit", map[string]interface{}{
				"ref":     op.Ref(),
				"batchId": batch.ID,
				"tokenId": asset.TokenID,
				"vcu":     serials[used],
			})
			if err != nil {
				return err
			}
			used++
		}

		batch.Converted += alloc.ConvertAmount
		batch.Remaining -= alloc.ConvertAmount
		if batch.Converted+batch.Remaining != batch.Amount {
			return failure.ConvertAmountMismatch{Have: batch.Converted + batch.Remaining, Want: batch.Amount}
		}

		p.log.Info().
			Uint64("batch", batch.ID).
			Uint64("converted", alloc.ConvertAmount).
			Uint64("remaining", batch.Remaining).
			Msg("forwards converted to carbon credits")
	}

	return nil
}

// mintConverted mints one brand-new carbon credit asset into the pool
// account, without a backing forward.
func (p *Processor) mintConverted(s *snapshot.Snapshot, tx *ledger.Transaction, op *ledger.MintCarbonCredits, serial string) error {

	tokenID := s.NextTokenID()
	meta := ledger.AssetMeta{}.Merge(op.AssetMetadata)
	meta[ledger.MetaStatus] = ledger.StatusCarbonCredit
	meta[ledger.MetaVcu] = serial

	s.Assets = append(s.Assets, &ledger.Asset{
		BatchID:  0,
		TokenID:  tokenID,
		Owner:    ledger.PoolAccount,
		Metadata: meta,
	})
	s.Balances[ledger.PoolAccount]++

	return p.emit(s, tx, ledger.ModuleAssets, "mintCarbonCreditWithoutConvert", map[string]interface{}{
		"ref":     op.Ref(),
		"batchId": uint64(0),
		"tokenId": tokenID,
		"vcu":     serial,
	})
}
