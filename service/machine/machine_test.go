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

package machine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zippiehq/cartesi-rwa-verification/codec/cjson"
	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/disk"
	"github.com/zippiehq/cartesi-rwa-verification/service/machine"
	"github.com/zippiehq/cartesi-rwa-verification/service/processor"
	"github.com/zippiehq/cartesi-rwa-verification/service/schema"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
	"github.com/zippiehq/cartesi-rwa-verification/service/transactor"
	"github.com/zippiehq/cartesi-rwa-verification/service/verifier"
	"github.com/zippiehq/cartesi-rwa-verification/testing/mocks"
)

// TestMachine_EndToEnd drives full runs through real components and disk
// stores, the way the production binary wires them.
func TestMachine_EndToEnd(t *testing.T) {

	stateDir := t.TempDir()
	now := time.Unix(1700000000, 0)

	sign, err := transactor.FromHex(mocks.GenericKey, transactor.WithNonce(mocks.GenericNonce))
	require.NoError(t, err)

	runOnce := func(t *testing.T, tx *ledger.Transaction) (ledger.Store, error) {
		t.Helper()

		inputDir := t.TempDir()
		outputDir := t.TempDir()

		input := disk.FromDir(inputDir)
		if tx != nil {
			data, err := cjson.MarshalDocument(tx)
			require.NoError(t, err)
			require.NoError(t, input.Write(ledger.DocTransaction, data))
		}

		state := disk.FromDir(stateDir)
		output := disk.FromDir(outputDir)

		transitions := machine.NewTransitions(mocks.NoopLogger, input, state, output,
			schema.New(), verifier.New(), processor.New(mocks.NoopLogger),
			machine.WithTimestamp(func() time.Time { return now }),
		)
		fsm := machine.NewFSM(machine.EmptyState(),
			machine.WithTransition(machine.StatusInitialize, transitions.LoadTransaction),
			machine.WithTransition(machine.StatusAuthenticate, transitions.AuthenticateTransaction),
			machine.WithTransition(machine.StatusLoad, transitions.LoadSnapshot),
			machine.WithTransition(machine.StatusProcess, transitions.ProcessOperations),
			machine.WithTransition(machine.StatusCommit, transitions.CommitSnapshot),
		)

		return output, fsm.Run()
	}

	var accepted *ledger.Transaction

	t.Run("initializes dataset and mints batch", func(t *testing.T) {
		init, err := transactor.DatasetInit("r1", mocks.GenericDatasetID, sign.Address())
		require.NoError(t, err)
		mint, err := transactor.MintForwardBatch("r2", "batch-2023", 3, 100, map[string]any{"project": "reforestation"})
		require.NoError(t, err)
		tx, err := sign.Sign(mocks.GenericDatasetID, init, mint)
		require.NoError(t, err)
		accepted = tx

		output, err2 := runOnce(t, tx)
		require.NoError(t, err2)

		// The ledger state reflects the whole transaction.
		s, err2 := snapshot.FromStore(disk.FromDir(stateDir))
		require.NoError(t, err2)
		require.True(t, s.Initialized())
		assert.Equal(t, mocks.GenericDatasetID, s.Dataset.ID)
		assert.Equal(t, []string{sign.Address()}, s.Owners)
		assert.Len(t, s.Assets, 3)
		assert.Equal(t, int64(3), s.BalanceOf(ledger.PoolAccount))
		require.Len(t, s.Verifications, 1)
		assert.Equal(t, tx.Hash, s.Verifications[0].TransactionHash)
		assert.Equal(t, now.UnixMilli(), s.Verifications[0].Timestamp)

		// The accepted transaction is mirrored to the output.
		mirrored, err2 := output.Read(ledger.DocTransaction)
		require.NoError(t, err2)
		var roundtrip ledger.Transaction
		require.NoError(t, cjson.Unmarshal(mirrored, &roundtrip))
		assert.Equal(t, tx.Hash, roundtrip.Hash)
	})

	t.Run("verification-only run appends a record", func(t *testing.T) {
		output, err := runOnce(t, nil)
		require.NoError(t, err)

		s, err := snapshot.FromStore(disk.FromDir(stateDir))
		require.NoError(t, err)
		require.Len(t, s.Verifications, 2)
		assert.Equal(t, "", s.Verifications[1].TransactionHash)

		// Only the verifications document appears in the output.
		_, err = output.Read(ledger.DocVerifications)
		assert.NoError(t, err)
		_, err = output.Read(ledger.DocTransaction)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})

	t.Run("replayed transaction aborts without writes", func(t *testing.T) {
		require.NotNil(t, accepted)

		_, err := runOnce(t, accepted)
		require.Error(t, err)

		// The failed run left the state untouched.
		s, err := snapshot.FromStore(disk.FromDir(stateDir))
		require.NoError(t, err)
		assert.Len(t, s.Verifications, 2)
		assert.Len(t, s.Nonces, 1)
	})
}
