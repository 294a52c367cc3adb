// Package persistenceTest holds behaviour tests shared by every IHashPersistence backend.
package persistenceTest

import (
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	SafeA = "0x1000000000000000000000000000000000000001"
	SafeB = "0x2000000000000000000000000000000000000002"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) persistence.IHashPersistence

// RunSuite exercises the IHashPersistence contract against stores built by newStore.
func RunSuite(t *testing.T, newStore Factory) {
	t.Run("SaveAndLoad", func(t *testing.T) { testSaveAndLoad(t, newStore(t)) })
	t.Run("LoadNotFound", func(t *testing.T) { testLoadNotFound(t, newStore(t)) })
	t.Run("SaveNil", func(t *testing.T) { testSaveNil(t, newStore(t)) })
	t.Run("SaveOverwrites", func(t *testing.T) { testSaveOverwrites(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("ListSortedAndFiltered", func(t *testing.T) { testList(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("DeepCopy", func(t *testing.T) { testDeepCopy(t, newStore(t)) })
	t.Run("Close", func(t *testing.T) { testClose(t, newStore(t)) })
	t.Run("ThreadSafety", func(t *testing.T) { testThreadSafety(t, newStore(t)) })
}

func testSaveAndLoad(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	record := persistence.NewTestHashRecord(59144, SafeA, 60)
	require.NoError(t, store.SaveHashRecord(record))

	loaded, err := store.LoadHashRecord(record.Key())
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, record.Hashes, loaded.Hashes)
	assert.Equal(t, record.SafeAddress, loaded.SafeAddress)
	assert.Equal(t, record.DataHash, loaded.DataHash)
	assert.Equal(t, record.Operation, loaded.Operation)
	assert.Equal(t, record.CreatedAt, loaded.CreatedAt)
	assert.Equal(t, 0, record.ChainID.Cmp(loaded.ChainID))
	assert.Equal(t, 0, record.Nonce.Cmp(loaded.Nonce))
	assert.Equal(t, 0, record.Value.Cmp(loaded.Value))
}

func testLoadNotFound(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	loaded, err := store.LoadHashRecord(common.HexToHash("0xdead"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func testSaveNil(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	err := store.SaveHashRecord(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil HashRecord")
}

func testSaveOverwrites(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	first := persistence.NewTestHashRecord(1, SafeA, 1)
	second := persistence.NewTestHashRecord(1, SafeA, 1)
	require.Equal(t, first.Key(), second.Key())

	require.NoError(t, store.SaveHashRecord(first))
	require.NoError(t, store.SaveHashRecord(second))

	loaded, err := store.LoadHashRecord(first.Key())
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)

	all, err := store.ListHashRecords(nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testDelete(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	record := persistence.NewTestHashRecord(1, SafeA, 7)
	require.NoError(t, store.SaveHashRecord(record))
	require.NoError(t, store.DeleteHashRecord(record.Key()))

	loaded, err := store.LoadHashRecord(record.Key())
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// idempotent
	require.NoError(t, store.DeleteHashRecord(record.Key()))

	all, err := store.ListHashRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testList(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	records := []*persistence.HashRecord{
		persistence.NewTestHashRecord(10, SafeA, 2),
		persistence.NewTestHashRecord(1, SafeB, 1),
		persistence.NewTestHashRecord(1, SafeA, 5),
		persistence.NewTestHashRecord(1, SafeA, 3),
	}
	for _, r := range records {
		require.NoError(t, store.SaveHashRecord(r))
	}

	all, err := store.ListHashRecords(nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, int64(3), all[0].Nonce.Int64())
	assert.Equal(t, int64(5), all[1].Nonce.Int64())
	assert.Equal(t, common.HexToAddress(SafeB), all[2].SafeAddress)
	assert.Equal(t, int64(10), all[3].ChainID.Int64())

	onChain1, err := store.ListHashRecords(&persistence.RecordFilter{ChainID: big.NewInt(1)})
	require.NoError(t, err)
	assert.Len(t, onChain1, 3)

	safeA := common.HexToAddress(SafeA)
	forSafeA, err := store.ListHashRecords(&persistence.RecordFilter{ChainID: big.NewInt(1), SafeAddress: &safeA})
	require.NoError(t, err)
	assert.Len(t, forSafeA, 2)
}

func testListEmpty(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	all, err := store.ListHashRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testDeepCopy(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	record := persistence.NewTestHashRecord(1, SafeA, 1)
	require.NoError(t, store.SaveHashRecord(record))

	record.Nonce.SetInt64(999)
	loaded, err := store.LoadHashRecord(record.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.Nonce.Int64())

	loaded.Nonce.SetInt64(555)
	again, err := store.LoadHashRecord(record.Key())
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Nonce.Int64())
}

func testClose(t *testing.T, store persistence.IHashPersistence) {
	require.NoError(t, store.HealthCheck())
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "close must be idempotent")

	record := persistence.NewTestHashRecord(1, SafeA, 1)
	assert.Error(t, store.SaveHashRecord(record))
	_, err := store.LoadHashRecord(record.Key())
	assert.Error(t, err)
	_, err = store.ListHashRecords(nil)
	assert.Error(t, err)
	assert.Error(t, store.DeleteHashRecord(record.Key()))
	assert.Error(t, store.HealthCheck())
}

func testThreadSafety(t *testing.T, store persistence.IHashPersistence) {
	defer func() { _ = store.Close() }()

	const workers = 10
	const perWorker = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker*2)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				record := persistence.NewTestHashRecord(uint64(w+1), SafeA, int64(i))
				if err := store.SaveHashRecord(record); err != nil {
					errs <- fmt.Errorf("save: %w", err)
					continue
				}
				if _, err := store.LoadHashRecord(record.Key()); err != nil {
					errs <- fmt.Errorf("load: %w", err)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	all, err := store.ListHashRecords(nil)
	require.NoError(t, err)
	assert.Len(t, all, workers*perWorker)
}
