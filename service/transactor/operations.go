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

package transactor

import (
	"fmt"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// DatasetInit builds the operation that initializes a dataset with its first
// owner.
func DatasetInit(ref string, datasetID string, owner string) (ledger.Operation, error) {
	return operation(ledger.ModuleDataset, ledger.MethodInit, ledger.DatasetInit{
		Params:    ledger.Params{Tag: ref},
		DatasetID: datasetID,
		Owner:     owner,
	})
}

// OwnershipAdd builds the operation that adds an owner to the dataset.
func OwnershipAdd(ref string, owner string) (ledger.Operation, error) {
	return operation(ledger.ModuleOwnership, ledger.MethodAdd, ledger.OwnershipAdd{
		Params: ledger.Params{Tag: ref},
		Owner:  owner,
	})
}

// OwnershipRevoke builds the operation that revokes an owner from the dataset.
func OwnershipRevoke(ref string, owner string) (ledger.Operation, error) {
	return operation(ledger.ModuleOwnership, ledger.MethodRevoke, ledger.OwnershipRevoke{
		Params: ledger.Params{Tag: ref},
		Owner:  owner,
	})
}

// MetadataUpdate builds the operation that replaces the dataset metadata.
func MetadataUpdate(ref string, metadata []byte) (ledger.Operation, error) {
	return operation(ledger.ModuleMetadata, ledger.MethodUpdate, ledger.MetadataUpdate{
		Params:   ledger.Params{Tag: ref},
		Metadata: metadata,
	})
}

// MintForwardBatch builds the operation that mints a batch of forward credits.
func MintForwardBatch(ref string, name string, amount uint64, percentage uint64, metadata map[string]any) (ledger.Operation, error) {
	return operation(ledger.ModuleAssets, ledger.MethodMintForwardBatch, ledger.MintForwardBatch{
		Params:          ledger.Params{Tag: ref},
		BatchName:       name,
		BatchAmount:     amount,
		BatchPercentage: percentage,
		AssetMetadata:   metadata,
	})
}

// MintCarbonCredits builds the operation that converts a serial range of
// verified credits into carbon credit assets.
func MintCarbonCredits(ref string, vcus ledger.Vcus, metadata map[string]any) (ledger.Operation, error) {
	return operation(ledger.ModuleAssets, ledger.MethodMintCarbonCredits, ledger.MintCarbonCredits{
		Params:        ledger.Params{Tag: ref},
		AssetVcus:     vcus,
		AssetMetadata: metadata,
	})
}

// Transfer builds the operation that reassigns ownership of a single asset.
func Transfer(ref string, tokenID uint64, to string) (ledger.Operation, error) {
	return operation(ledger.ModuleAssets, ledger.MethodTransfer, ledger.Transfer{
		Params:  ledger.Params{Tag: ref},
		TokenID: tokenID,
		To:      to,
	})
}

func operation(module string, method string, params any) (ledger.Operation, error) {
	data, err := cjson.Marshal(params)
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("could not encode operation parameters: %w", err)
	}
	op := ledger.Operation{
		Module: module,
		Method: method,
		Params: data,
	}
	return op, nil
}
