package memorydb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/ethdb/dbtest"
	"github.com/dominant-strategies/quai-evm/log"
)

func TestMemoryDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
			return New(log.NewNullLogger())
		})
	})
}

func TestClosedDatabaseRejectsAccess(t *testing.T) {
	db := NewWithCap(4, log.NewNullLogger())
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	assert.Equal(t, 1, db.Len())

	require.NoError(t, db.Close())
	_, err := db.Get([]byte("k"))
	assert.ErrorIs(t, err, errMemorydbClosed)
	assert.ErrorIs(t, db.Put([]byte("k"), nil), errMemorydbClosed)
}

func TestGetReturnsCopy(t *testing.T) {
	db := New(log.NewNullLogger())
	require.NoError(t, db.Put([]byte("k"), []byte{1, 2, 3}))

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	v[0] = 9

	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}
