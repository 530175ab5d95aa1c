package pebble

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/ethdb/dbtest"
	"github.com/dominant-strategies/quai-evm/log"
)

func TestPebbleDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() ethdb.KeyValueStore {
			db, err := pebble.Open("", &pebble.Options{
				FS: vfs.NewMem(),
			})
			require.NoError(t, err)
			return &Database{
				db:     db,
				logger: log.NewNullLogger(),
			}
		})
	})
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte("kb"), upperBound([]byte("ka")))
	assert.Equal(t, []byte{0x02}, upperBound([]byte{0x01, 0xff}))
	assert.Nil(t, upperBound([]byte{0xff, 0xff}))
	assert.Nil(t, upperBound(nil))
}

func TestDoubleCloseAndClosedAccess(t *testing.T) {
	db, err := New(t.TempDir(), 0, 0, "test", false, log.NewNullLogger())
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	_, err = db.Get([]byte("k"))
	assert.ErrorIs(t, err, errDatabaseClosed)
}
