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
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// Global variables that can be used for testing. They are non-nil valid values
// for the types commonly needed by ledger components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericBytes = []byte(`test`)

	GenericDatasetID = "carbon-dataset-1"

	GenericNonce = "8e61a3bbb08b7890e1a2fa1f1a2b8f2f8e61a3bbb08b7890e1a2fa1f1a2b8f2f"

	// GenericKey and GenericKey2 are well-known throwaway secp256k1 private
	// keys, so that signed fixtures are reproducible across test runs.
	GenericKey  = "eb8e6e1b2f89b5863b73777855fb160c5fdf0e2d51f92a645ba6c17906e03f6f"
	GenericKey2 = "b58a3b22e9d5c7248ddcae731703da1f84fd265d370ffb559494c64c54769a3b"
)
