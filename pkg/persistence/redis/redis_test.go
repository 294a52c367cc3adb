package redis

import (
	"testing"

	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/logger"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence"
	"github.com/Layr-Labs/safe-tx-hashes-go/pkg/persistence/persistenceTest"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, mr *miniredis.Miniredis, prefix string) *RedisPersistence {
	t.Helper()

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	rp, err := NewRedisPersistence(&RedisConfig{Address: mr.Addr(), KeyPrefix: prefix}, testLogger)
	require.NoError(t, err)
	return rp
}

func TestRedisPersistence(t *testing.T) {
	persistenceTest.RunSuite(t, func(t *testing.T) persistence.IHashPersistence {
		return newTestRedis(t, miniredis.RunT(t), "")
	})
}

func TestRedisPersistence_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)

	rp := newTestRedis(t, mr, "team-a:")
	defer func() { _ = rp.Close() }()

	record := persistence.NewTestHashRecord(1, persistenceTest.SafeA, 3)
	require.NoError(t, rp.SaveHashRecord(record))

	assert.True(t, mr.Exists("team-a:"+keyPrefixHashRecord+record.Key().Hex()))
	assert.True(t, mr.Exists("team-a:"+keySchemaVersion))

	members, err := mr.SMembers("team-a:" + keySetHashRecords)
	require.NoError(t, err)
	assert.Equal(t, []string{record.Key().Hex()}, members)

	other := newTestRedis(t, mr, "team-b:")
	defer func() { _ = other.Close() }()

	records, err := other.ListHashRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRedisPersistence_ListSkipsDanglingIndex(t *testing.T) {
	mr := miniredis.RunT(t)

	rp := newTestRedis(t, mr, "")
	defer func() { _ = rp.Close() }()

	kept := persistence.NewTestHashRecord(1, persistenceTest.SafeA, 1)
	dropped := persistence.NewTestHashRecord(1, persistenceTest.SafeA, 2)
	require.NoError(t, rp.SaveHashRecord(kept))
	require.NoError(t, rp.SaveHashRecord(dropped))

	mr.Del(keyPrefixHashRecord + dropped.Key().Hex())

	records, err := rp.ListHashRecords(nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, kept.ID, records[0].ID)
}

func TestRedisPersistence_SchemaVersionMismatch(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(keySchemaVersion, "v0"))

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	_, err = NewRedisPersistence(&RedisConfig{Address: mr.Addr()}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestRedisPersistence_HealthCheck_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)

	rp := newTestRedis(t, mr, "")
	defer func() { _ = rp.Close() }()

	require.NoError(t, rp.HealthCheck())
	mr.Close()
	assert.Error(t, rp.HealthCheck())
}

func TestRedisPersistence_Config_Nil(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisPersistence(nil, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestRedisPersistence_Config_EmptyAddress(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewRedisPersistence(&RedisConfig{}, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address cannot be empty")
}
