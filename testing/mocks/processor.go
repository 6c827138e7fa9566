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

	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
)

type Processor struct {
	ProcessFunc func(s *snapshot.Snapshot, tx *ledger.Transaction, ops []ledger.Op) error
}

func BaselineProcessor(t *testing.T) *Processor {
	t.Helper()

	p := Processor{
		ProcessFunc: func(s *snapshot.Snapshot, tx *ledger.Transaction, ops []ledger.Op) error {
			return nil
		},
	}

	return &p
}

func (p *Processor) Process(s *snapshot.Snapshot, tx *ledger.Transaction, ops []ledger.Op) error {
	return p.ProcessFunc(s, tx, ops)
}
