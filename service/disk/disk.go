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

// Package disk stores ledger documents as flat JSON files in a directory,
// the layout used inside the rollup machine.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
)

// Store is a filesystem-backed document store.
type Store struct {
	dir string
}

// FromDir creates a document store on the given directory.
func FromDir(dir string) *Store {

	s := Store{
		dir: dir,
	}

	return &s
}

// Read returns the contents of the named document.
func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read document file: %w", err)
	}
	return data, nil
}

// Write replaces the named document. The data is staged to a temporary file
// and moved into place, so a reader never observes a partial write.
func (s *Store) Write(name string, data []byte) error {
	err := os.MkdirAll(s.dir, 0o755)
	if err != nil {
		return fmt.Errorf("could not create document directory: %w", err)
	}
	staging := s.path(name) + ".tmp"
	err = os.WriteFile(staging, data, 0o644)
	if err != nil {
		return fmt.Errorf("could not stage document file: %w", err)
	}
	err = os.Rename(staging, s.path(name))
	if err != nil {
		return fmt.Errorf("could not move document file into place: %w", err)
	}
	return nil
}

// Close implements the store interface; a disk store holds no resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
