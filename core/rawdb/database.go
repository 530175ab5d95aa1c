// Copyright 2018 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package rawdb

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/ethdb/leveldb"
	"github.com/dominant-strategies/quai-evm/ethdb/memorydb"
	"github.com/dominant-strategies/quai-evm/log"
)

// NewDatabase creates a high level database on top of a given key-value data
// store.
func NewDatabase(db ethdb.KeyValueStore) ethdb.Database {
	return db
}

// NewMemoryDatabase creates an ephemeral in-memory key-value database.
func NewMemoryDatabase(logger *log.Logger) ethdb.Database {
	return NewDatabase(memorydb.New(logger))
}

// NewMemoryDatabaseWithCap creates an ephemeral in-memory key-value database
// with an initial starting capacity.
func NewMemoryDatabaseWithCap(size int, logger *log.Logger) ethdb.Database {
	return NewDatabase(memorydb.NewWithCap(size, logger))
}

// NewLevelDBDatabase creates a persistent key-value database backed by LevelDB.
func NewLevelDBDatabase(file string, cache int, handles int, namespace string, readonly bool, logger *log.Logger) (ethdb.Database, error) {
	db, err := leveldb.New(file, cache, handles, namespace, readonly, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Using LevelDB as the backing database")
	return NewDatabase(db), nil
}

const (
	dbPebble  = "pebble"
	dbLeveldb = "leveldb"
	dbMemory  = "memory"
)

// hasPreexistingDb checks the given data directory whether a database is already
// instantiated at that location, and if so, returns the type of database (or the
// empty string).
func hasPreexistingDb(path string) string {
	if _, err := os.Stat(filepath.Join(path, "CURRENT")); err != nil {
		return "" // No pre-existing db
	}
	if matches, err := filepath.Glob(filepath.Join(path, "OPTIONS*")); len(matches) > 0 || err != nil {
		if err != nil {
			panic(err) // only possible if the pattern is malformed
		}
		return dbPebble
	}
	return dbLeveldb
}

// OpenOptions contains the options to apply when opening a database.
type OpenOptions struct {
	Type      string // "leveldb" | "pebble" | "memory"
	Directory string // the datadir
	Namespace string // the namespace for database relevant metrics
	Cache     int    // the capacity(in megabytes) of the data caching
	Handles   int    // number of files to be open simultaneously
	ReadOnly  bool
}

// openKeyValueDatabase opens a disk-based key-value database, e.g. leveldb or pebble.
//
//	                      type == null          type != null
//	                   +----------------------------------------
//	db is non-existent |  pebble default   |  specified type
//	db is existent     |  from db          |  specified type (if compatible)
func openKeyValueDatabase(o OpenOptions, logger *log.Logger) (ethdb.Database, error) {
	if o.Type == dbMemory {
		logger.Info("Using an in-memory backing database")
		return NewMemoryDatabase(logger), nil
	}
	existingDb := hasPreexistingDb(o.Directory)
	if len(existingDb) != 0 && len(o.Type) != 0 && o.Type != existingDb {
		return nil, fmt.Errorf("db.engine choice was %v but found pre-existing %v database in specified data directory", o.Type, existingDb)
	}
	if o.Type == dbLeveldb || existingDb == dbLeveldb {
		// Use leveldb, either as pre-existing, or chosen explicitly
		return NewLevelDBDatabase(o.Directory, o.Cache, o.Handles, o.Namespace, o.ReadOnly, logger)
	}
	if len(o.Type) != 0 && o.Type != dbPebble {
		return nil, fmt.Errorf("unknown db.engine %v", o.Type)
	}
	if !PebbleEnabled {
		logger.Info("Pebble is unsupported on this platform, using leveldb")
		return NewLevelDBDatabase(o.Directory, o.Cache, o.Handles, o.Namespace, o.ReadOnly, logger)
	}
	return NewPebbleDBDatabase(o.Directory, o.Cache, o.Handles, o.Namespace, o.ReadOnly, logger)
}

// Open opens a key-value database such as leveldb or pebble and checks its
// schema version.
func Open(o OpenOptions, logger *log.Logger) (ethdb.Database, error) {
	db, err := openKeyValueDatabase(o, logger)
	if err != nil {
		return nil, errors.Wrap(err, "opening state database")
	}
	if version := ReadDatabaseVersion(db); version == nil {
		if !o.ReadOnly {
			WriteDatabaseVersion(db, DatabaseVersion)
		}
	} else if *version != DatabaseVersion {
		db.Close()
		return nil, fmt.Errorf("database version %d is not supported (want %d)", *version, DatabaseVersion)
	}
	return db, nil
}

// DatabaseVersion is the version of the key layout written by this package.
const DatabaseVersion uint64 = 1

type counter uint64

func (c counter) String() string {
	return fmt.Sprintf("%d", c)
}

// stat stores sizes and count for a parameter
type stat struct {
	size  common.StorageSize
	count counter
}

// Add size to the stat and increase the counter by 1
func (s *stat) Add(size common.StorageSize) {
	s.size += size
	s.count++
}

func (s *stat) Size() string {
	return s.size.String()
}

func (s *stat) Count() string {
	return s.count.String()
}

// InspectDatabase traverses the entire database and writes a table with the
// size of all different categories of data to out.
func InspectDatabase(db ethdb.Database, keyPrefix, keyStart []byte, out io.Writer, logger *log.Logger) error {
	it := db.NewIterator(keyPrefix, keyStart)
	defer it.Release()

	var (
		count  int64
		start  = time.Now()
		logged = time.Now()

		// Key-value store statistics
		accounts   stat
		storage    stat
		codes      stat
		receipts   stat
		stateRoots stat

		// Meta- and unaccounted data
		metadata    stat
		unaccounted stat

		// Totals
		total common.StorageSize
	)
	for it.Next() {
		var (
			key  = it.Key()
			size = common.StorageSize(len(key) + len(it.Value()))
		)
		total += size
		switch {
		case bytes.HasPrefix(key, AccountPrefix) && len(key) == (len(AccountPrefix)+common.AddressLength):
			accounts.Add(size)
		case bytes.HasPrefix(key, StoragePrefix) && len(key) == (len(StoragePrefix)+common.AddressLength+common.HashLength):
			storage.Add(size)
		case bytes.HasPrefix(key, receiptPrefix) && len(key) == (len(receiptPrefix)+common.HashLength):
			receipts.Add(size)
		case bytes.HasPrefix(key, stateRootPrefix) && len(key) == (len(stateRootPrefix)+common.HashLength):
			stateRoots.Add(size)
		default:
			if ok, _ := IsCodeKey(key); ok {
				codes.Add(size)
				break
			}
			var accounted bool
			for _, meta := range [][]byte{databaseVersionKey, headStateRootKey, chainConfigKey} {
				if bytes.Equal(key, meta) {
					metadata.Add(size)
					accounted = true
					break
				}
			}
			if !accounted {
				unaccounted.Add(size)
			}
		}
		count++
		if count%1000 == 0 && time.Since(logged) > 8*time.Second {
			logger.WithFields(log.Fields{
				"count":   count,
				"elapsed": common.PrettyDuration(time.Since(start)),
			}).Info("Inspecting database")
			logged = time.Now()
		}
	}
	if err := it.Error(); err != nil {
		return errors.Wrap(err, "iterating database")
	}
	// Display the database statistic.
	stats := [][]string{
		{"Key-Value store", "Accounts", accounts.Size(), accounts.Count()},
		{"Key-Value store", "Storage slots", storage.Size(), storage.Count()},
		{"Key-Value store", "Contract codes", codes.Size(), codes.Count()},
		{"Key-Value store", "Receipts", receipts.Size(), receipts.Count()},
		{"Key-Value store", "State roots", stateRoots.Size(), stateRoots.Count()},
		{"Key-Value store", "Singleton metadata", metadata.Size(), metadata.Count()},
	}
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Database", "Category", "Size", "Items"})
	table.SetFooter([]string{"", "Total", total.String(), " "})
	table.AppendBulk(stats)
	table.Render()

	if unaccounted.size > 0 {
		logger.WithFields(log.Fields{
			"size":  unaccounted.size,
			"count": unaccounted.count,
		}).Warn("Database contains unaccounted data")
	}

	return nil
}
