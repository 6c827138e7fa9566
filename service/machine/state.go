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

package machine

import (
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
)

// State is the run controller's state for one invocation. The snapshot it
// holds is the only place mutations live before the commit; discarding the
// state discards them all.
type State struct {
	status      Status
	transaction *ledger.Transaction
	operations  []ledger.Op
	snapshot    *snapshot.Snapshot
}

// EmptyState returns the state a run starts from.
func EmptyState() *State {

	s := State{
		status: StatusInitialize,
	}

	return &s
}
