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
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/transactor"
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
		flagDataset    string
		flagKey        string
		flagLevel      string
		flagNonce      string
		flagOperations string
		flagOutput     string
	)

	pflag.StringVarP(&flagDataset, "dataset", "d", "", "identifier of the dataset the transaction targets")
	pflag.StringVarP(&flagKey, "key", "k", "", "hex-encoded private key used to sign the transaction")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVar(&flagNonce, "nonce", "", "fixed nonce instead of a random one")
	pflag.StringVarP(&flagOperations, "operations", "p", "operations.json", "path to file with the JSON operation list")
	pflag.StringVarP(&flagOutput, "output", "o", "-", "path of the signed transaction document, - for standard output")

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

	if flagKey == "" {
		log.Error().Msg("missing private key")
		return failure
	}
	if flagDataset == "" {
		log.Error().Msg("missing dataset identifier")
		return failure
	}

	// Read the operation list.
	data, err := os.ReadFile(flagOperations)
	if err != nil {
		log.Error().Str("operations", flagOperations).Err(err).Msg("could not read operation list")
		return failure
	}
	var ops []ledger.Operation
	err = json.Unmarshal(data, &ops)
	if err != nil {
		log.Error().Err(err).Msg("could not decode operation list")
		return failure
	}

	// Initialize the transactor and sign the transaction.
	var options []transactor.Option
	if flagNonce != "" {
		options = append(options, transactor.WithNonce(flagNonce))
	}
	sign, err := transactor.FromHex(flagKey, options...)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize transactor")
		return failure
	}

	tx, err := sign.Sign(flagDataset, ops...)
	if err != nil {
		log.Error().Err(err).Msg("could not sign transaction")
		return failure
	}

	out, err := cjson.MarshalDocument(tx)
	if err != nil {
		log.Error().Err(err).Msg("could not encode transaction document")
		return failure
	}

	if flagOutput == "-" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(flagOutput, out, 0o644)
	}
	if err != nil {
		log.Error().Str("output", flagOutput).Err(err).Msg("could not write transaction document")
		return failure
	}

	log.Info().
		Str("hash", tx.Hash).
		Str("from", tx.From).
		Int("operations", len(tx.Operations)).
		Msg("transaction signed")

	return success
}
