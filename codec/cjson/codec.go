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

// Package cjson implements the canonical JSON encoding of the ledger.
// Structurally equal values always encode to the same bytes: object keys are
// sorted, there is no insignificant whitespace and number literals survive a
// round trip untouched. The output is byte-compatible with a sorted-key
// JSON.stringify, which is what transaction senders sign over.
package cjson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Codec encodes and decodes values using the canonical JSON encoding. It
// satisfies the ledger codec interface so it can back a document store
// directly.
type Codec struct{}

// NewCodec creates a new canonical JSON codec.
func NewCodec() Codec {
	return Codec{}
}

// Marshal renders the given value as compact canonical JSON.
func (c Codec) Marshal(value interface{}) ([]byte, error) {
	generic, err := genericize(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

// MarshalDocument renders the given value as canonical JSON indented with two
// spaces, the layout used for the persisted ledger documents.
func (c Codec) MarshalDocument(value interface{}) ([]byte, error) {
	generic, err := genericize(value)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(generic, "", "  ")
}

// Unmarshal decodes canonical JSON into the given value.
func (c Codec) Unmarshal(data []byte, value interface{}) error {
	return json.Unmarshal(data, value)
}

// genericize reduces a value to maps, slices and literals. Maps marshal with
// sorted keys and json.Number keeps number literals verbatim, which is what
// makes the subsequent marshal canonical regardless of how the value was
// built up.
func genericize(value interface{}) (interface{}, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("could not encode value: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var generic interface{}
	err = decoder.Decode(&generic)
	if err != nil {
		return nil, fmt.Errorf("could not genericize value: %w", err)
	}
	return generic, nil
}

// Marshal renders the given value as compact canonical JSON.
func Marshal(value interface{}) ([]byte, error) {
	return NewCodec().Marshal(value)
}

// MarshalDocument renders the given value in the persisted document layout.
func MarshalDocument(value interface{}) ([]byte, error) {
	return NewCodec().MarshalDocument(value)
}

// Unmarshal decodes canonical JSON into the given value.
func Unmarshal(data []byte, value interface{}) error {
	return NewCodec().Unmarshal(data, value)
}
