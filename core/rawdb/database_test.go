package rawdb

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/log"
)

func TestHasPreexistingDb(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", hasPreexistingDb(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "CURRENT"), nil, 0o600))
	assert.Equal(t, dbLeveldb, hasPreexistingDb(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "OPTIONS-000001"), nil, 0o600))
	assert.Equal(t, dbPebble, hasPreexistingDb(dir))
}

func TestOpenLevelDBAndReopen(t *testing.T) {
	dir := t.TempDir()
	logger := log.NewNullLogger()

	db, err := Open(OpenOptions{Type: dbLeveldb, Directory: dir}, logger)
	require.NoError(t, err)
	WriteHeadStateRoot(db, common.Hash{1})
	require.NoError(t, db.Close())

	// Engine is detected from the directory when not specified
	db, err = Open(OpenOptions{Directory: dir}, logger)
	require.NoError(t, err)
	assert.Equal(t, common.Hash{1}, ReadHeadStateRoot(db))
	require.NotNil(t, ReadDatabaseVersion(db))
	assert.Equal(t, DatabaseVersion, *ReadDatabaseVersion(db))
	require.NoError(t, db.Close())

	// Conflicting engine choice is refused
	_, err = Open(OpenOptions{Type: dbPebble, Directory: dir}, logger)
	assert.Error(t, err)
}

func TestOpenRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	logger := log.NewNullLogger()

	db, err := Open(OpenOptions{Type: dbLeveldb, Directory: dir}, logger)
	require.NoError(t, err)
	WriteDatabaseVersion(db, DatabaseVersion+1)
	require.NoError(t, db.Close())

	_, err = Open(OpenOptions{Directory: dir}, logger)
	assert.Error(t, err)
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(OpenOptions{Type: "rocksdb", Directory: t.TempDir()}, log.NewNullLogger())
	assert.Error(t, err)
}

func TestInspectDatabase(t *testing.T) {
	db, err := Open(OpenOptions{Type: dbMemory}, log.NewNullLogger())
	require.NoError(t, err)

	WriteAccount(db, common.HexToAddress("0x01"), types.NewEmptyStateAccount())
	WriteAccount(db, common.HexToAddress("0x02"), types.NewEmptyStateAccount())
	WriteStorage(db, common.HexToAddress("0x01"), common.Hash{1}, common.Hash{2})
	WriteCode(db, common.Hash{9}, []byte{0x00})
	WriteHeadStateRoot(db, common.Hash{3})
	require.NoError(t, db.Put([]byte("junk"), []byte{1}))

	var out bytes.Buffer
	require.NoError(t, InspectDatabase(db, nil, nil, &out, log.NewNullLogger()))

	table := out.String()
	assert.Contains(t, table, "Accounts")
	assert.Contains(t, table, "Contract codes")
	assert.Contains(t, table, "Storage slots")
}
