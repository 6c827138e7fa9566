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

// Module and method names of the supported operations.
const (
	ModuleDataset   = "dataset"
	ModuleOwnership = "ownership"
	ModuleMetadata  = "metadata"
	ModuleAssets    = "assets"

	MethodInit              = "init"
	MethodAdd               = "add"
	MethodRevoke            = "revoke"
	MethodUpdate            = "update"
	MethodMintForwardBatch  = "mintForwardBatch"
	MethodMintCarbonCredits = "mintCarbonCredits"
	MethodTransfer          = "transfer"
)

// Op is one of the closed set of ledger operations. Adding an operation kind
// means adding a type here, a decode arm in the schema layer and an apply arm
// in the processor; the processor's type switch keeps dispatch exhaustive.
type Op interface {
	Ref() string
	sealed()
}

// Params holds the fields common to all operation parameters. The ref is a
// free-form caller-supplied tag that is echoed into every emitted event.
type Params struct {
	Tag string `json:"ref"`
}

// Ref returns the caller-supplied reference tag.
func (p Params) Ref() string {
	return p.Tag
}

func (p Params) sealed() {}

// DatasetInit creates the dataset record and registers the first owner. It is
// the only operation allowed on an uninitialized dataset.
type DatasetInit struct {
	Params
	DatasetID string `json:"datasetId" validate:"required"`
	Owner     string `json:"owner" validate:"required"`
}

// OwnershipAdd appends a public key to the owner set. Duplicates are kept.
type OwnershipAdd struct {
	Params
	Owner string `json:"owner" validate:"required"`
}

// OwnershipRevoke removes every occurrence of a public key from the owner set.
type OwnershipRevoke struct {
	Params
	Owner string `json:"owner" validate:"required"`
}

// MetadataUpdate replaces the dataset metadata document wholesale.
type MetadataUpdate struct {
	Params
	Metadata json.RawMessage `json:"metadata" validate:"required"`
}

// MintForwardBatch mints a named cohort of forward credits into the pool
// account.
type MintForwardBatch struct {
	Params
	BatchName       string         `json:"batchName" validate:"required"`
	BatchAmount     uint64         `json:"batchAmount" validate:"min=1"`
	BatchPercentage uint64         `json:"batchPercentage" validate:"min=1,max=100"`
	AssetMetadata   map[string]any `json:"assetMetadata" validate:"required"`
}

// Vcus describes a contiguous serial range of verified carbon units. The
// serial bounds are carried as floating point numbers on the wire; whether
// they are integral is a domain check of the conversion algorithm, not a
// shape check.
type Vcus struct {
	SerialStart  float64 `json:"serialStart"`
	SerialEnd    float64 `json:"serialEnd"`
	SerialFormat string  `json:"serialFormat" validate:"required"`
}

// MintCarbonCredits converts a serial range of verified credits into carbon
// credit assets, drawing proportionally from the existing forward batches.
type MintCarbonCredits struct {
	Params
	AssetVcus     Vcus           `json:"assetVcus" validate:"required"`
	AssetMetadata map[string]any `json:"assetMetadata" validate:"required"`
}

// Transfer reassigns ownership of a single asset.
type Transfer struct {
	Params
	TokenID uint64 `json:"tokenId" validate:"min=1"`
	To      string `json:"to" validate:"required"`
}
