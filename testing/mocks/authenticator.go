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
)

type Authenticator struct {
	AuthenticateFunc func(tx *ledger.Transaction) error
}

func BaselineAuthenticator(t *testing.T) *Authenticator {
	t.Helper()

	a := Authenticator{
		AuthenticateFunc: func(tx *ledger.Transaction) error {
			return nil
		},
	}

	return &a
}

func (a *Authenticator) Authenticate(tx *ledger.Transaction) error {
	return a.AuthenticateFunc(tx)
}
