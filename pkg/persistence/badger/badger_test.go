package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/logger"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/persistenceTest"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadger(t *testing.T, dir string) *BadgerPersistence {
	t.Helper()

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	bp, err := NewBadgerPersistence(dir, testLogger)
	require.NoError(t, err)
	return bp
}

func TestBadgerPersistence(t *testing.T) {
	persistenceTest.RunSuite(t, func(t *testing.T) persistence.IHashPersistence {
		return newTestBadger(t, t.TempDir())
	})
}

func TestBadgerPersistence_Persistence_AcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	record := persistence.NewTestHashRecord(1, persistenceTest.SafeA, 42)

	bp := newTestBadger(t, dir)
	require.NoError(t, bp.SaveHashRecord(record))
	require.NoError(t, bp.Close())

	reopened := newTestBadger(t, dir)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadHashRecord(record.Key())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, record.Hashes, loaded.Hashes)
	assert.NoError(t, reopened.HealthCheck())
}

func TestBadgerPersistence_SchemaVersionMismatch(t *testing.T) {
	dir := t.TempDir()

	db, err := badgerdb.Open(badgerdb.DefaultOptions(dir).WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, db.Close())

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	_, err = NewBadgerPersistence(dir, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestBadgerPersistence_SkipsCorruptEntries(t *testing.T) {
	bp := newTestBadger(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	good := persistence.NewTestHashRecord(1, persistenceTest.SafeA, 1)
	require.NoError(t, bp.SaveHashRecord(good))
	require.NoError(t, bp.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyPrefixHashRecord+"garbage"), []byte("{not json"))
	}))

	records, err := bp.ListHashRecords(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, good.ID, records[0].ID)
}

func TestBadgerPersistence_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")

	bp := newTestBadger(t, dir)
	defer func() { _ = bp.Close() }()

	_, err := os.Stat(dir)
	assert.NoError(t, err)
}
