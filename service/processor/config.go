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

package processor

// DefaultConfig is the default configuration of the operation processor.
var DefaultConfig = Config{
	DatasetName:    "airimpact-carbon-credit-dataset-v1",
	DatasetVersion: "1.1",
}

// Config contains optional parameters we can set for the processor.
type Config struct {
	DatasetName    string
	DatasetVersion string
}

// Option configures the processor.
type Option func(*Config)

// WithDatasetName sets the name recorded for the dataset on initialization.
func WithDatasetName(name string) Option {
	return func(cfg *Config) {
		cfg.DatasetName = name
	}
}

// WithDatasetVersion sets the version recorded for the dataset on
// initialization.
func WithDatasetVersion(version string) Option {
	return func(cfg *Config) {
		cfg.DatasetVersion = version
	}
}
