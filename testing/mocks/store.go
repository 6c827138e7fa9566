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

package mocks

import (
	"testing"
)

type Store struct {
	ReadFunc  func(name string) ([]byte, error)
	WriteFunc func(name string, data []byte) error
	CloseFunc func() error
}

func BaselineStore(t *testing.T) *Store {
	t.Helper()

	s := Store{
		ReadFunc: func(name string) ([]byte, error) {
			return GenericBytes, nil
		},
		WriteFunc: func(name string, data []byte) error {
			return nil
		},
		CloseFunc: func() error {
			return nil
		},
	}

	return &s
}

func (s *Store) Read(name string) ([]byte, error) {
	return s.ReadFunc(name)
}

func (s *Store) Write(name string, data []byte) error {
	return s.WriteFunc(name, data)
}

func (s *Store) Close() error {
	return s.CloseFunc()
}
