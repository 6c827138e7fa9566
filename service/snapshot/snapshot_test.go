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

package snapshot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zippiehq/cartesi-rwa-verification/models/ledger"
	"github.com/zippiehq/cartesi-rwa-verification/service/snapshot"
	"github.com/zippiehq/cartesi-rwa-verification/testing/mocks"
)

func TestEmpty(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()

		assert.False(t, s.Initialized())
		assert.Empty(t, s.Nonces)
		assert.Empty(t, s.Owners)
		assert.JSONEq(t, `{}`, string(s.Metadata))
		assert.Empty(t, s.Batches)
		assert.Empty(t, s.Assets)
		assert.Empty(t, s.Balances)
		assert.Empty(t, s.Events)
		assert.Empty(t, s.Verifications)
	})
}

func TestFromStore(t *testing.T) {
	t.Run("missing documents default to empty", func(t *testing.T) {
		t.Parallel()

		store := mocks.BaselineStore(t)
		store.ReadFunc = func(name string) ([]byte, error) {
			return nil, ledger.ErrNotFound
		}

		s, err := snapshot.FromStore(store)

		require.NoError(t, err)
		assert.False(t, s.Initialized())
		assert.Empty(t, s.Assets)
	})

	t.Run("loads persisted documents", func(t *testing.T) {
		t.Parallel()

		store := mocks.BaselineStore(t)
		store.ReadFunc = func(name string) ([]byte, error) {
			switch name {
			case ledger.DocDataset:
				return []byte(`{"id":"carbon-dataset-1","name":"n","version":"1.1"}`), nil
			case ledger.DocOwners:
				return []byte(`["alice","bob"]`), nil
			case ledger.DocBalances:
				return []byte(`{"owner":2}`), nil
			case ledger.DocAssets:
				return []byte(`[{"batchId":1,"tokenId":1,"owner":"owner","metadata":{"status":"forward","vcu":""}},{"batchId":1,"tokenId":2,"owner":"owner","metadata":{"status":"forward","vcu":""}}]`), nil
			default:
				return nil, ledger.ErrNotFound
			}
		}

		s, err := snapshot.FromStore(store)

		require.NoError(t, err)
		require.True(t, s.Initialized())
		assert.Equal(t, "carbon-dataset-1", s.Dataset.ID)
		assert.Equal(t, []string{"alice", "bob"}, s.Owners)
		assert.Equal(t, int64(2), s.BalanceOf(ledger.PoolAccount))
		require.Len(t, s.Assets, 2)
		assert.Equal(t, ledger.StatusForward, s.Assets[0].Metadata.Status())
	})

	t.Run("handles store failure", func(t *testing.T) {
		t.Parallel()

		store := mocks.BaselineStore(t)
		store.ReadFunc = func(name string) ([]byte, error) {
			return nil, mocks.GenericError
		}

		_, err := snapshot.FromStore(store)

		assert.Error(t, err)
	})

	t.Run("handles corrupt document", func(t *testing.T) {
		t.Parallel()

		store := mocks.BaselineStore(t)
		store.ReadFunc = func(name string) ([]byte, error) {
			return []byte(`not json`), nil
		}

		_, err := snapshot.FromStore(store)

		assert.Error(t, err)
	})
}

func TestSnapshot_Document(t *testing.T) {
	t.Run("renders known documents", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Owners = append(s.Owners, "alice")

		doc, err := s.Document(ledger.DocOwners)

		require.NoError(t, err)
		assert.Equal(t, "[\n  \"alice\"\n]", string(doc))
	})

	t.Run("handles unknown document", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		_, err := s.Document("bogus")

		assert.Error(t, err)
	})
}

func TestSnapshot_Commit(t *testing.T) {
	t.Run("writes identical bytes to every store", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Owners = append(s.Owners, "alice")

		first := make(map[string][]byte)
		second := make(map[string][]byte)

		state := mocks.BaselineStore(t)
		state.WriteFunc = func(name string, data []byte) error {
			first[name] = data
			return nil
		}
		output := mocks.BaselineStore(t)
		output.WriteFunc = func(name string, data []byte) error {
			second[name] = data
			return nil
		}

		err := s.Commit(snapshot.Names(), state, output)

		require.NoError(t, err)
		assert.Len(t, first, len(snapshot.Names()))
		assert.Equal(t, first, second)
	})

	t.Run("writes only the requested documents", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()

		written := make(map[string][]byte)
		store := mocks.BaselineStore(t)
		store.WriteFunc = func(name string, data []byte) error {
			written[name] = data
			return nil
		}

		err := s.Commit([]string{ledger.DocVerifications}, store)

		require.NoError(t, err)
		require.Len(t, written, 1)
		assert.Contains(t, written, ledger.DocVerifications)
	})

	t.Run("handles store failure", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()

		store := mocks.BaselineStore(t)
		store.WriteFunc = func(name string, data []byte) error {
			return mocks.GenericError
		}

		err := s.Commit(snapshot.Names(), store)

		assert.Error(t, err)
	})
}

func TestSnapshot_Validate(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Batches = append(s.Batches, &ledger.Batch{ID: 1, Amount: 5, Converted: 2, Remaining: 3})
		s.Assets = append(s.Assets, &ledger.Asset{BatchID: 1, TokenID: 1, Owner: "alice"})
		s.Balances["alice"] = 1
		s.Nonces = append(s.Nonces, "n1", "n2")

		assert.NoError(t, s.Validate())
	})

	t.Run("catches batch imbalance", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Batches = append(s.Batches, &ledger.Batch{ID: 1, Amount: 5, Converted: 2, Remaining: 2})

		assert.Error(t, s.Validate())
	})

	t.Run("catches balance drift", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Assets = append(s.Assets, &ledger.Asset{BatchID: 1, TokenID: 1, Owner: "alice"})
		s.Balances["alice"] = 2

		assert.Error(t, s.Validate())
	})

	t.Run("catches missing balance entry", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Assets = append(s.Assets, &ledger.Asset{BatchID: 1, TokenID: 1, Owner: "alice"})

		assert.Error(t, s.Validate())
	})

	t.Run("catches duplicate nonces", func(t *testing.T) {
		t.Parallel()

		s := snapshot.Empty()
		s.Nonces = append(s.Nonces, "n1", "n1")

		assert.Error(t, s.Validate())
	})
}
