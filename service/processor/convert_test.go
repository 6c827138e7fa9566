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

package processor_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zippiehq/cartesi-rwa-verification/ledger/failure"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/processor"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
	"github.com/zippiehq/cartesi-rwa-verification/testing/mocks"
)

func TestProcessor_MintCarbonCredits(t *testing.T) {
	t.Run("converts forwards in ascending token order", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 50})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  100,
					SerialEnd:    104,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{"registry": "verra"},
			},
		})

		require.NoError(t, err)

		// trunc(50/100 * 5) = 2 from the batch, 3 minted fresh.
		batch := s.Batches[0]
		assert.Equal(t, uint64(2), batch.Converted)
		assert.Equal(t, uint64(8), batch.Remaining)

		require.Len(t, s.Assets, 13)
		for i, want := range []string{"VCU-100", "VCU-101"} {
			asset := s.Assets[i]
			assert.Equal(t, ledger.StatusCarbonCredit, asset.Metadata.Status())
			assert.Equal(t, want, asset.Metadata.Vcu())
			assert.Equal(t, "verra", asset.Metadata["registry"])
		}
		for i, want := range []string{"VCU-102", "VCU-103", "VCU-104"} {
			asset := s.Assets[10+i]
			assert.Equal(t, uint64(0), asset.BatchID)
			assert.Equal(t, uint64(11+i), asset.TokenID)
			assert.Equal(t, ledger.PoolAccount, asset.Owner)
			assert.Equal(t, ledger.StatusCarbonCredit, asset.Metadata.Status())
			assert.Equal(t, want, asset.Metadata.Vcu())
		}

		assert.Equal(t, int64(13), s.BalanceOf(ledger.PoolAccount))
		assert.NoError(t, s.Validate())
	})

	t.Run("summary event precedes per-asset events", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 100})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    4,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		require.NoError(t, err)

		// One mint event, one conversion summary, four per-asset events.
		require.Len(t, s.Events, 6)
		assert.Equal(t, ledger.MethodMintCarbonCredits, s.Events[1].Type)
		for _, event := range s.Events[2:] {
			assert.Equal(t, "convertForwardToCarbonCredit", event.Type)
		}

		var summary struct {
			BatchConvertAmount []struct {
				BatchID       uint64 `json:"batchId"`
				ConvertAmount uint64 `json:"convertAmount"`
			} `json:"batchConvertAmount"`
		}
		require.NoError(t, json.Unmarshal(s.Events[1].Data, &summary))
		require.Len(t, summary.BatchConvertAmount, 1)
		assert.Equal(t, uint64(1), summary.BatchConvertAmount[0].BatchID)
		assert.Equal(t, uint64(4), summary.BatchConvertAmount[0].ConvertAmount)
	})

	t.Run("allocates across batches in creation order", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t,
			forwardBatch{name: "first", amount: 10, percentage: 50},
			forwardBatch{name: "second", amount: 10, percentage: 25},
		)

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    8,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		require.NoError(t, err)

		// trunc(0.5*8) = 4 from the first batch, trunc(0.25*8) = 2 from the
		// second, 2 minted fresh into the pool.
		assert.Equal(t, uint64(4), s.Batches[0].Converted)
		assert.Equal(t, uint64(2), s.Batches[1].Converted)
		assert.Len(t, s.Assets, 22)

		// Serials run through the first batch, then the second, then the
		// fresh mints.
		assert.Equal(t, "VCU-1", s.Assets[0].Metadata.Vcu())
		assert.Equal(t, "VCU-4", s.Assets[3].Metadata.Vcu())
		assert.Equal(t, "VCU-5", s.Assets[10].Metadata.Vcu())
		assert.Equal(t, "VCU-6", s.Assets[11].Metadata.Vcu())
		assert.Equal(t, "VCU-7", s.Assets[20].Metadata.Vcu())
		assert.Equal(t, "VCU-8", s.Assets[21].Metadata.Vcu())
	})

	t.Run("caps allocation at batch remainder", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 2, percentage: 50})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    10,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		require.NoError(t, err)

		// trunc(0.5*10) = 5 exceeds the 2 remaining, so the batch converts 2
		// and the other 8 are minted fresh.
		assert.Equal(t, uint64(2), s.Batches[0].Converted)
		assert.Equal(t, uint64(0), s.Batches[0].Remaining)
		assert.Len(t, s.Assets, 10)
		assert.Equal(t, int64(10), s.BalanceOf(ledger.PoolAccount))
		assert.NoError(t, s.Validate())
	})

	t.Run("truncates inexact percentage products", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 100, percentage: 29})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    100,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		require.NoError(t, err)

		// 29/100*100 lands just below 29 in floating point and truncates to
		// 28, which every signer computing the same allocation must match.
		assert.Equal(t, uint64(28), s.Batches[0].Converted)
		assert.Len(t, s.Assets, 172)
	})

	t.Run("substitutes only the first placeholder occurrence", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 100})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  7,
					SerialEnd:    7,
					SerialFormat: "VCU-{serialNumber}-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "VCU-7-{serialNumber}", s.Assets[0].Metadata.Vcu())
	})

	t.Run("rejects non-integral serial bounds", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 100})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1.5,
					SerialEnd:    5,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		var invalidRange failure.InvalidVcuRange
		assert.ErrorAs(t, err, &invalidRange)
	})

	t.Run("rejects format without placeholder", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 100})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    5,
					SerialFormat: "VCU-fixed",
				},
				AssetMetadata: map[string]any{},
			},
		})

		var invalidFormat failure.InvalidVcuFormat
		assert.ErrorAs(t, err, &invalidFormat)
	})

	t.Run("rejects reversed serial range", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 100})

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  5,
					SerialEnd:    1,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		var invalidVcus failure.InvalidVcus
		assert.ErrorAs(t, err, &invalidVcus)
	})

	t.Run("converts into pool with no batches at all", func(t *testing.T) {
		t.Parallel()

		s := initializedSnapshot(t)

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, baselineTransaction("nonce-convert"), []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    3,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		require.NoError(t, err)
		require.Len(t, s.Assets, 3)
		for i, asset := range s.Assets {
			assert.Equal(t, uint64(0), asset.BatchID)
			assert.Equal(t, uint64(i+1), asset.TokenID)
			assert.Equal(t, fmt.Sprintf("VCU-%d", i+1), asset.Metadata.Vcu())
		}
		assert.Equal(t, int64(3), s.BalanceOf(ledger.PoolAccount))
	})

	t.Run("rejects non-owner sender", func(t *testing.T) {
		t.Parallel()

		s := batchSnapshot(t, forwardBatch{name: "first", amount: 10, percentage: 100})
		tx := baselineTransaction("nonce-convert")
		tx.From = testSender

		process := processor.New(mocks.NoopLogger)
		err := process.Process(s, tx, []ledger.Op{
			&ledger.MintCarbonCredits{
				Params: ledger.Params{Tag: "r1"},
				AssetVcus: ledger.Vcus{
					SerialStart:  1,
					SerialEnd:    5,
					SerialFormat: "VCU-{serialNumber}",
				},
				AssetMetadata: map[string]any{},
			},
		})

		var notOwner failure.NotOwner
		assert.ErrorAs(t, err, &notOwner)
	})
}

type forwardBatch struct {
	name       string
	amount     uint64
	percentage uint64
}

func batchSnapshot(t *testing.T, batches ...forwardBatch) *snapshot.Snapshot {
	t.Helper()

	s := initializedSnapshot(t)
	process := processor.New(mocks.NoopLogger)
	for i, batch := range batches {
		err := process.Process(s, baselineTransaction(fmt.Sprintf("nonce-batch-%d", i)), []ledger.Op{
			&ledger.MintForwardBatch{
				Params:          ledger.Params{Tag: "mint"},
				BatchName:       batch.name,
				BatchAmount:     batch.amount,
				BatchPercentage: batch.percentage,
				AssetMetadata:   map[string]any{},
			},
		})
		require.NoError(t, err)
	}

	return s
}
