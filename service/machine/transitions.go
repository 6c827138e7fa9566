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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/ledger/failure"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
)

// TransitionFunc is a function that is applied onto the run controller's
// state.
type TransitionFunc func(*State) error

// Validator checks the shape of a transaction and yields its typed
// operations.
type Validator interface {
	Transaction(tx *ledger.Transaction) ([]ledger.Op, error)
}

// Authenticator verifies a transaction's hash and signature.
type Authenticator interface {
	Authenticate(tx *ledger.Transaction) error
}

// Processor applies the operations of a transaction to a snapshot.
type Processor interface {
	Process(s *snapshot.Snapshot, tx *ledger.Transaction, ops []ledger.Op) error
}

// Transitions is what applies transitions to the state of the run
// controller.
type Transitions struct {
	cfg      Config
	log      zerolog.Logger
	input    ledger.Store
	state    ledger.Store
	output   ledger.Store
	validate Validator
	verify   Authenticator
	process  Processor
}

// NewTransitions returns a Transitions component using the given dependencies
// and using the given options.
func NewTransitions(log zerolog.Logger, input ledger.Store, state ledger.Store, output ledger.Store, validate Validator, verify Authenticator, process Processor, options ...Option) *Transitions {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	t := Transitions{
		cfg:      cfg,
		log:      log.With().Str("component", "machine_transitions").Logger(),
		input:    input,
		state:    state,
		output:   output,
		validate: validate,
		verify:   verify,
		process:  process,
	}

	return &t
}

// LoadTransaction reads the transaction input document. A missing input is a
// valid no-op run, not an error.
func (t *Transitions) LoadTransaction(s *State) error {
	if s.status != StatusInitialize {
		return fmt.Errorf("invalid status for loading transaction (%s)", s.status)
	}

	data, err := t.input.Read(ledger.DocTransaction)
	if errors.Is(err, ledger.ErrNotFound) {
		t.log.Info().Msg("no transaction input, running verification only")
		s.status = StatusAuthenticate
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read transaction input: %w", err)
	}

	var tx ledger.Transaction
	err = json.Unmarshal(data, &tx)
	if err != nil {
		return failure.SchemaInvalid{Reason: err.Error()}
	}
	s.transaction = &tx

	s.status = StatusAuthenticate
	return nil
}

// AuthenticateTransaction validates the transaction's shape and verifies its
// hash and signature. A run without a transaction skips straight to loading
// the snapshot.
func (t *Transitions) AuthenticateTransaction(s *State) error {
	if s.status != StatusAuthenticate {
		return fmt.Errorf("invalid status for authenticating transaction (%s)", s.status)
	}

	if s.transaction == nil {
		s.status = StatusLoad
		return nil
	}

	ops, err := t.validate.Transaction(s.transaction)
	if err != nil {
		return fmt.Errorf("could not validate transaction: %w", err)
	}

	err = t.verify.Authenticate(s.transaction)
	if err != nil {
		return fmt.Errorf("could not authenticate transaction: %w", err)
	}

	t.log.Info().
		Str("hash", s.transaction.Hash).
		Str("from", s.transaction.From).
		Int("operations", len(ops)).
		Msg("transaction authenticated")

	s.operations = ops
	s.status = StatusLoad
	return nil
}

// LoadSnapshot materializes the persisted ledger documents for this run.
func (t *Transitions) LoadSnapshot(s *State) error {
	if s.status != StatusLoad {
		return fmt.Errorf("invalid status for loading snapshot (%s)", s.status)
	}

	snap, err := snapshot.FromStore(t.state)
	if err != nil {
		return fmt.Errorf("could not load snapshot: %w", err)
	}

	s.snapshot = snap
	s.status = StatusProcess
	return nil
}

// ProcessOperations applies every operation of the transaction to the
// snapshot, in order.
func (t *Transitions) ProcessOperations(s *State) error {
	if s.status != StatusProcess {
		return fmt.Errorf("invalid status for processing operations (%s)", s.status)
	}

	if s.transaction != nil {
		err := t.process.Process(s.snapshot, s.transaction, s.operations)
		if err != nil {
			return fmt.Errorf("could not process operations: %w", err)
		}
	}

	s.status = StatusCommit
	return nil
}

// CommitSnapshot appends the verification record and persists the run as one
// logical unit, mirroring every written document to the output store. It is
// the only transition that writes.
func (t *Transitions) CommitSnapshot(s *State) error {
	if s.status != StatusCommit {
		return fmt.Errorf("invalid status for committing snapshot (%s)", s.status)
	}

	err := s.snapshot.Validate()
	if err != nil {
		return fmt.Errorf("could not validate snapshot invariants: %w", err)
	}

	verification := ledger.Verification{
		TransactionHash: "",
		Timestamp:       t.cfg.Timestamp().UnixMilli(),
		Status:          ledger.VerificationSuccess,
		Message:         ledger.VerificationMessage,
	}
	if s.transaction != nil {
		verification.TransactionHash = s.transaction.Hash
	}
	s.snapshot.Verifications = append(s.snapshot.Verifications, verification)

	// A run without a transaction only appends its verification record; a
	// run with one rewrites the full document set.
	names := []string{ledger.DocVerifications}
	if s.transaction != nil {
		names = snapshot.Names()
	}

	err = s.snapshot.Commit(names, t.state, t.output)
	if err != nil {
		return fmt.Errorf("could not commit snapshot: %w", err)
	}

	if s.transaction != nil {
		data, err := cjson.MarshalDocument(s.transaction)
		if err != nil {
			return fmt.Errorf("could not encode accepted transaction: %w", err)
		}
		err = t.output.Write(ledger.DocTransaction, data)
		if err != nil {
			return fmt.Errorf("could not mirror accepted transaction: %w", err)
		}
	}

	t.log.Info().
		Str("hash", verification.TransactionHash).
		Int64("timestamp", verification.Timestamp).
		Msg("snapshot committed")

	s.status = StatusDone
	return nil
}
