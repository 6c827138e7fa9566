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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/zippiehq/cartesi-rwa-verification/codec/zbor"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/disk"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
	"github.com/zippiehq/cartesi-rwa-verification/service/storage"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Command line parameter initialization.
	var (
		flagData  string
		flagDoc   string
		flagLevel string
		flagStore string
	)

	pflag.StringVarP(&flagData, "data", "d", "data", "path to the ledger state documents")
	pflag.StringVarP(&flagDoc, "doc", "c", "", "name of a single document to print")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagStore, "store", "s", "disk", "ledger state backend (disk or badger)")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	// Initialize the ledger state store.
	var state ledger.Store
	switch flagStore {
	case "disk":
		state = disk.FromDir(flagData)
	case "badger":
		db, err := badger.Open(storage.DefaultOptions(flagData).WithReadOnly(true))
		if err != nil {
			log.Error().Str("data", flagData).Err(err).Msg("could not open ledger database")
			return failure
		}
		state = storage.New(db, zbor.NewCodec())
	default:
		log.Error().Str("store", flagStore).Msg("invalid ledger state backend")
		return failure
	}
	defer state.Close()

	// Load the snapshot and print the requested documents in their canonical
	// form, so the output matches what the engine would commit.
	snap, err := snapshot.FromStore(state)
	if err != nil {
		log.Error().Err(err).Msg("could not load snapshot")
		return failure
	}

	names := snapshot.Names()
	if flagDoc != "" {
		names = []string{flagDoc}
	}

	for _, name := range names {
		doc, err := snap.Document(name)
		if err != nil {
			log.Error().Str("doc", name).Err(err).Msg("could not render document")
			return failure
		}
		fmt.Fprintf(os.Stdout, "=== %s ===\n%s\n", name, doc)
	}

	return success
}
