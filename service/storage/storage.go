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

// Package storage keeps ledger documents in a Badger database. Each document
// is wrapped in an envelope that carries a checksum of the raw payload, so
// corruption is detected on read rather than when the snapshot is decoded.
package storage

import (
	"errors"
	"fmt"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v2"

	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// Store is a Badger-backed document store. The injected codec encodes the
// document envelopes for storage.
type Store struct {
	db    *badger.DB
	codec ledger.Codec
}

// envelope wraps a document payload with its checksum for on-disk storage.
type envelope struct {
	Name     string
	Data     []byte
	Checksum uint64
}

// New creates a document store on the given Badger database, using the given
// codec to encode document envelopes.
func New(db *badger.DB, codec ledger.Codec) *Store {

	s := Store{
		db:    db,
		codec: codec,
	}

	return &s
}

// Read returns the contents of the named document.
func (s *Store) Read(name string) ([]byte, error) {
	var env envelope
	err := s.db.View(s.retrieve(encodeKey(prefixDocument, name), &env))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve document: %w", err)
	}

	checksum := xxhash.Checksum64(env.Data)
	if checksum != env.Checksum {
		return nil, fmt.Errorf("invalid document checksum (name: %s, have: %x, want: %x)", name, checksum, env.Checksum)
	}

	return env.Data, nil
}

// Write replaces the named document.
func (s *Store) Write(name string, data []byte) error {
	env := envelope{
		Name:     name,
		Data:     data,
		Checksum: xxhash.Checksum64(data),
	}
	err := s.db.Update(s.save(encodeKey(prefixDocument, name), &env))
	if err != nil {
		return fmt.Errorf("could not save document: %w", err)
	}
	return nil
}

// Close releases the underlying Badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) retrieve(key []byte, v interface{}) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return fmt.Errorf("could not get value (key: %x): %w", key, err)
		}

		err = item.Value(func(val []byte) error {
			return s.codec.Unmarshal(val, v)
		})
		if err != nil {
			return fmt.Errorf("could not decode value (key: %x): %w", key, err)
		}

		return nil
	}
}

func (s *Store) save(key []byte, value interface{}) func(*badger.Txn) error {
	// NOTE: We want to encode the value right away, rather than doing it inside
	// of the closure. Otherwise, if value is a loop variable, it might not be
	// the same underlying value anymore by the time that the closure is called
	// in the Badger transaction.
	val, err := s.codec.Marshal(value)
	return func(tx *badger.Txn) error {
		if err != nil {
			return fmt.Errorf("could not encode value (key: %x): %w", key, err)
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not set value (key: %x): %w", key, err)
		}

		return nil
	}
}
