package persistence

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	safeA = "0x1000000000000000000000000000000000000001"
	safeB = "0x2000000000000000000000000000000000000002"
)

func TestNewHashRecord(t *testing.T) {
	r := NewTestHashRecord(59144, safeA, 60)
	require.NotEmpty(t, r.ID)
	assert.Equal(t, int64(59144), r.ChainID.Int64())
	assert.Equal(t, common.HexToAddress(safeA), r.SafeAddress)
	assert.Equal(t, int64(60), r.Nonce.Int64())
	assert.Equal(t, r.Hashes.FinalHash, r.Key())
	assert.NotEqual(t, common.Hash{}, r.DataHash)
	assert.NotZero(t, r.CreatedAt)

	other := NewTestHashRecord(59144, safeA, 60)
	assert.NotEqual(t, r.ID, other.ID)
	assert.Equal(t, r.Key(), other.Key())
}

func TestHashRecord_Copy(t *testing.T) {
	r := NewTestHashRecord(1, safeA, 1)
	c := r.Copy()
	c.Nonce.SetInt64(99)
	c.ChainID.SetInt64(5)
	assert.Equal(t, int64(1), r.Nonce.Int64())
	assert.Equal(t, int64(1), r.ChainID.Int64())

	var nilRecord *HashRecord
	assert.Nil(t, nilRecord.Copy())
}

func TestSerializationRoundTrip(t *testing.T) {
	r := NewTestHashRecord(10, safeB, 3)
	data, err := MarshalHashRecord(r)
	require.NoError(t, err)

	loaded, err := UnmarshalHashRecord(data)
	require.NoError(t, err)
	assert.Equal(t, r.ID, loaded.ID)
	assert.Equal(t, r.Hashes, loaded.Hashes)
	assert.Equal(t, 0, r.Nonce.Cmp(loaded.Nonce))
	assert.Equal(t, r.SafeAddress, loaded.SafeAddress)

	_, err = MarshalHashRecord(nil)
	require.Error(t, err)
	_, err = UnmarshalHashRecord(nil)
	require.Error(t, err)
	_, err = UnmarshalHashRecord([]byte("{"))
	require.Error(t, err)
}

func TestRecordFilter(t *testing.T) {
	r := NewTestHashRecord(1, safeA, 1)

	var nilFilter *RecordFilter
	assert.True(t, nilFilter.Matches(r))
	assert.True(t, (&RecordFilter{}).Matches(r))
	assert.True(t, (&RecordFilter{ChainID: big.NewInt(1)}).Matches(r))
	assert.False(t, (&RecordFilter{ChainID: big.NewInt(2)}).Matches(r))

	a := common.HexToAddress(safeA)
	b := common.HexToAddress(safeB)
	assert.True(t, (&RecordFilter{SafeAddress: &a}).Matches(r))
	assert.False(t, (&RecordFilter{SafeAddress: &b}).Matches(r))
}

func TestSortHashRecords(t *testing.T) {
	records := []*HashRecord{
		NewTestHashRecord(10, safeA, 2),
		NewTestHashRecord(1, safeB, 1),
		NewTestHashRecord(1, safeA, 5),
		NewTestHashRecord(1, safeA, 3),
	}
	SortHashRecords(records)

	assert.Equal(t, int64(1), records[0].ChainID.Int64())
	assert.Equal(t, int64(3), records[0].Nonce.Int64())
	assert.Equal(t, int64(5), records[1].Nonce.Int64())
	assert.Equal(t, common.HexToAddress(safeB), records[2].SafeAddress)
	assert.Equal(t, int64(10), records[3].ChainID.Int64())
}
