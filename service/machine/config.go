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
	"time"
)

// DefaultConfig is the default configuration for the run controller.
var DefaultConfig = Config{
	Timestamp: time.Now,
}

// Config contains optional parameters we can set for the run controller.
type Config struct {
	// Timestamp supplies the wall clock for verification records. It is the
	// only non-deterministic input of a run; re-execution harnesses inject a
	// fixed clock here.
	Timestamp func() time.Time
}

// Option configures the run controller.
type Option func(*Config)

// WithTimestamp sets the clock used to stamp verification records.
func WithTimestamp(timestamp func() time.Time) Option {
	return func(cfg *Config) {
		cfg.Timestamp = timestamp
	}
}
