// Copyright 2017 The go-ethereum Authors
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

package state

import (
	"github.com/VictoriaMetrics/fastcache"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
)

const (
	// Number of analysed contracts to keep in memory.
	codeCacheSize = 1024

	// Size in bytes of the clean storage slot cache.
	storageCacheSize = 32 * 1024 * 1024
)

// Database wraps access to the key-value store backing the state and keeps
// the caches shared between StateDB instances.
type Database struct {
	disk         ethdb.Database
	codeCache    *lru.Cache[common.Hash, *vm.Bytecode]
	storageCache *fastcache.Cache
	logger       *log.Logger
}

// NewDatabase creates a backing store for state. The returned database is
// safe for concurrent use and retains analysed code and clean storage slots
// in memory.
func NewDatabase(db ethdb.Database, logger *log.Logger) *Database {
	if logger == nil {
		logger = db.Logger()
	}
	codeCache, _ := lru.New[common.Hash, *vm.Bytecode](codeCacheSize)
	return &Database{
		disk:         db,
		codeCache:    codeCache,
		storageCache: fastcache.New(storageCacheSize),
		logger:       logger,
	}
}

// DiskDB returns the underlying key-value store.
func (db *Database) DiskDB() ethdb.Database {
	return db.disk
}

// Logger returns the logger state changes are reported to.
func (db *Database) Logger() *log.Logger {
	return db.logger
}

// ReadAccount loads the account stored under addr, nil if there is none.
func (db *Database) ReadAccount(addr common.Address) *types.StateAccount {
	return rawdb.ReadAccount(db.disk, addr)
}

// ReadStorage loads a committed storage slot, going through the clean cache.
func (db *Database) ReadStorage(addr common.Address, key common.Hash) common.Hash {
	ckey := storageCacheKey(addr, key)
	if enc, ok := db.storageCache.HasGet(nil, ckey); ok {
		return common.BytesToHash(enc)
	}
	value := rawdb.ReadStorage(db.disk, addr, key)
	db.storageCache.Set(ckey, value.Bytes())
	return value
}

// ContractCode retrieves the code stored under its hash.
func (db *Database) ContractCode(codeHash common.Hash) []byte {
	if bytecode, ok := db.codeCache.Get(codeHash); ok {
		return bytecode.Code()
	}
	return rawdb.ReadCode(db.disk, codeHash)
}

// ContractBytecode returns the analysed form of code, which must hash to
// codeHash. Analysis results are cached by hash.
func (db *Database) ContractBytecode(codeHash common.Hash, code []byte) (*vm.Bytecode, error) {
	if bytecode, ok := db.codeCache.Get(codeHash); ok {
		return bytecode, nil
	}
	bytecode, err := vm.Analyse(code)
	if err != nil {
		return nil, err
	}
	db.codeCache.Add(codeHash, bytecode)
	return bytecode, nil
}

// storageWritten keeps the clean cache in line with a flushed slot.
func (db *Database) storageWritten(addr common.Address, key, value common.Hash) {
	db.storageCache.Set(storageCacheKey(addr, key), value.Bytes())
}

// storageDeleted drops a flushed slot deletion from the clean cache.
func (db *Database) storageDeleted(addr common.Address, key common.Hash) {
	db.storageCache.Del(storageCacheKey(addr, key))
}

// storageCacheKey is the key of a slot in the clean storage cache.
func storageCacheKey(addr common.Address, key common.Hash) []byte {
	buf := make([]byte, 0, common.AddressLength+common.HashLength)
	buf = append(buf, addr.Bytes()...)
	return append(buf, key.Bytes()...)
}
