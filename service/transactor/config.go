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

package transactor

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultConfig is the default configuration for the transactor, generating a
// random nonce for each transaction.
var DefaultConfig = Config{
	Nonce: randomNonce,
}

// Config is the configuration for a transactor.
type Config struct {
	Nonce func() (string, error)
}

// Option is an option to configure a transactor.
type Option func(*Config)

// WithNonce makes the transactor use the given fixed nonce instead of a
// random one, which makes signed transactions reproducible.
func WithNonce(nonce string) Option {
	return func(cfg *Config) {
		cfg.Nonce = func() (string, error) {
			return nonce, nil
		}
	}
}

func randomNonce() (string, error) {
	data := make([]byte, 32)
	_, err := rand.Read(data)
	if err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	return hex.EncodeToString(data), nil
}
