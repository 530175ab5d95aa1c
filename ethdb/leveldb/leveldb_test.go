package leveldb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/ethdb/dbtest"
	"github.com/dominant-strategies/quai-evm/log"
)

func TestLevelDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
			db, err := leveldb.Open(storage.NewMemStorage(), nil)
			require.NoError(t, err)
			return &Database{
				db:     db,
				logger: log.NewNullLogger(),
			}
		})
	})
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	db, err := New(dir, 0, 0, "test", false, log.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, dir, db.Path())

	require.NoError(t, db.Put([]byte("a"), []byte("b")))
	stats, err := db.Stat("")
	require.NoError(t, err)
	require.NotEmpty(t, stats)
	require.NoError(t, db.Close())

	db, err = New(dir, 0, 0, "test", true, log.NewNullLogger())
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("b"), v)
}
