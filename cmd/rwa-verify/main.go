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
	"os"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/zippiehq/cartesi-rwa-verification/codec/zbor"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/disk"
	"github.com/zippiehq/cartesi-rwa-verification/service/machine"
	"github.com/zippiehq/cartesi-rwa-verification/service/processor"
	"github.com/zippiehq/cartesi-rwa-verification/service/schema"
	"github.com/zippiehq/cartesi-rwa-verification/service/storage"
	"github.com/zippiehq/cartesi-rwa-verification/service/verifier"
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
		flagData    string
		flagInput   string
		flagLevel   string
		flagName    string
		flagOutput  string
		flagStore   string
		flagVersion string
	)

	pflag.StringVarP(&flagData, "data", "d", "data", "path to the ledger state documents")
	pflag.StringVarP(&flagInput, "input", "i", "input", "path to the directory holding the transaction input")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagName, "name", "n", processor.DefaultConfig.DatasetName, "name recorded on dataset initialization")
	pflag.StringVarP(&flagOutput, "output", "o", "output", "path to the directory receiving the run outputs")
	pflag.StringVarP(&flagStore, "store", "s", "disk", "ledger state backend (disk or badger)")
	pflag.StringVar(&flagVersion, "dataset-version", processor.DefaultConfig.DatasetVersion, "version recorded on dataset initialization")

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

	// Initialize the document stores. The input and output directories are
	// always plain files, since they are the interface with the host; the
	// ledger state can optionally live in a Badger database.
	input := disk.FromDir(flagInput)
	output := disk.FromDir(flagOutput)

	var state ledger.Store
	switch flagStore {
	case "disk":
		state = disk.FromDir(flagData)
	case "badger":
		db, err := badger.Open(storage.DefaultOptions(flagData))
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

	// Initialize the engine components.
	validate := schema.New()
	verify := verifier.New()
	process := processor.New(log,
		processor.WithDatasetName(flagName),
		processor.WithDatasetVersion(flagVersion),
	)

	// Initialize the run controller and drive it to completion. A failed run
	// leaves the ledger state untouched.
	transitions := machine.NewTransitions(log, input, state, output, validate, verify, process)
	fsm := machine.NewFSM(machine.EmptyState(),
		machine.WithTransition(machine.StatusInitialize, transitions.LoadTransaction),
		machine.WithTransition(machine.StatusAuthenticate, transitions.AuthenticateTransaction),
		machine.WithTransition(machine.StatusLoad, transitions.LoadSnapshot),
		machine.WithTransition(machine.StatusProcess, transitions.ProcessOperations),
		machine.WithTransition(machine.StatusCommit, transitions.CommitSnapshot),
	)
	err = fsm.Run()
	if err != nil {
		log.Error().Err(err).Msg("verification run aborted")
		return failure
	}

	log.Info().Msg("verification run complete")

	return success
}
