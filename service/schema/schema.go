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

// Package schema checks transaction and operation shapes against the fixed
// contract and decodes operations into their typed form. Shape checking is
// the first authentication step; nothing malformed reaches the processor.
package schema

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/zippiehq/cartesi-rwa-verification/ledger/failure"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// Validator validates transactions against the fixed schema contract.
type Validator struct {
	validate *validator.Validate
}

// New creates a new schema validator.
func New() *Validator {

	v := Validator{
		validate: validator.New(),
	}

	return &v
}

// Transaction validates the shape of the given transaction and of every
// embedded operation, and returns the operations in their typed form, in
// transaction order.
func (v *Validator) Transaction(tx *ledger.Transaction) ([]ledger.Op, error) {

	err := v.validate.Struct(tx)
	if err != nil {
		return nil, failure.SchemaInvalid{Reason: err.Error()}
	}

	ops := make([]ledger.Op, 0, len(tx.Operations))
	for _, operation := range tx.Operations {
		op, err := v.Operation(operation)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// Operation decodes and validates a single wire operation. Unknown module and
// method combinations are rejected here, before dispatch.
func (v *Validator) Operation(operation ledger.Operation) (ledger.Op, error) {

	var op ledger.Op
	switch {

	case operation.Module == ledger.ModuleDataset && operation.Method == ledger.MethodInit:
		op = &ledger.DatasetInit{}

	case operation.Module == ledger.ModuleOwnership && operation.Method == ledger.MethodAdd:
		op = &ledger.OwnershipAdd{}

	case operation.Module == ledger.ModuleOwnership && operation.Method == ledger.MethodRevoke:
		op = &ledger.OwnershipRevoke{}

	case operation.Module == ledger.ModuleMetadata && operation.Method == ledger.MethodUpdate:
		op = &ledger.MetadataUpdate{}

	case operation.Module == ledger.ModuleAssets && operation.Method == ledger.MethodMintForwardBatch:
		op = &ledger.MintForwardBatch{}

	case operation.Module == ledger.ModuleAssets && operation.Method == ledger.MethodMintCarbonCredits:
		op = &ledger.MintCarbonCredits{}

	case operation.Module == ledger.ModuleAssets && operation.Method == ledger.MethodTransfer:
		op = &ledger.Transfer{}

	default:
		return nil, failure.SchemaInvalid{
			Module: operation.Module,
			Method: operation.Method,
			Reason: "unknown operation",
		}
	}

	err := json.Unmarshal(operation.Params, op)
	if err != nil {
		return nil, failure.SchemaInvalid{
			Module: operation.Module,
			Method: operation.Method,
			Reason: err.Error(),
		}
	}

	err = v.validate.Struct(op)
	if err != nil {
		return nil, failure.SchemaInvalid{
			Module: operation.Module,
			Method: operation.Method,
			Reason: err.Error(),
		}
	}

	return op, nil
}
