// Copyright 2014 The go-ethereum Authors
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
	"bytes"
	"math/big"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/crypto"
)

// Storage is a set of storage slots of one account.
type Storage map[common.Hash]common.Hash

// Copy returns a copy of the storage set.
func (s Storage) Copy() Storage {
	cpy := make(Storage, len(s))
	for key, value := range s {
		cpy[key] = value
	}
	return cpy
}

// stateObject represents a quai account which is being modified.
//
// The usage pattern is as follows:
// First you need to obtain a state object.
// Account values can be accessed and modified through the object.
// Finally, call commit to write the modified storage to the database.
type stateObject struct {
	address common.Address
	data    types.StateAccount
	db      *StateDB

	// Write caches.
	code []byte // contract bytecode, which gets set when code is loaded

	originStorage  Storage                                          // Storage cache of original entries to dedup rewrites, reset for every transaction
	pendingStorage *orderedmap.OrderedMap[common.Hash, common.Hash] // Storage entries that need to be flushed to disk, at the end of an entire block
	dirtyStorage   Storage                                          // Storage entries that have been modified in the current transaction execution

	// Cache flags.
	// When an object is marked self-destructed it will be deleted from the
	// state at the end of the transaction.
	dirtyCode      bool // true if the code was updated
	selfDestructed bool
	deleted        bool
	// created marks accounts (re)created since the last commit. Whatever
	// storage they had on disk is stale.
	created bool
}

// empty returns whether the account is considered empty.
func (s *stateObject) empty() bool {
	return s.data.Empty()
}

// newObject creates a state object.
func newObject(db *StateDB, address common.Address, data types.StateAccount) *stateObject {
	if data.Balance == nil {
		data.Balance = new(big.Int)
	}
	if data.CodeHash == nil {
		data.CodeHash = types.EmptyCodeHash.Bytes()
	}
	return &stateObject{
		db:             db,
		address:        address,
		data:           data,
		originStorage:  make(Storage),
		pendingStorage: orderedmap.New[common.Hash, common.Hash](),
		dirtyStorage:   make(Storage),
	}
}

func (s *stateObject) markSelfDestructed() {
	s.selfDestructed = true
}

func (s *stateObject) touch() {
	s.db.journal.append(touchChange{account: &s.address})
}

// GetState retrieves a value from the account storage.
func (s *stateObject) GetState(key common.Hash) common.Hash {
	if value, dirty := s.dirtyStorage[key]; dirty {
		return value
	}
	return s.GetCommittedState(key)
}

// GetCommittedState retrieves the value of a slot as it was at the start of
// the current transaction.
func (s *stateObject) GetCommittedState(key common.Hash) common.Hash {
	if value, pending := s.pendingStorage.Get(key); pending {
		return value
	}
	if value, cached := s.originStorage[key]; cached {
		return value
	}
	var value common.Hash
	if !s.created {
		value = s.db.db.ReadStorage(s.address, key)
	}
	s.originStorage[key] = value
	return value
}

// SetState updates a value in account storage.
func (s *stateObject) SetState(key, value common.Hash) {
	prev, prevDirty := s.dirtyStorage[key]
	if !prevDirty {
		prev = s.GetCommittedState(key)
	}
	if prev == value && prevDirty {
		return
	}
	s.db.journal.append(storageChange{
		account:   &s.address,
		key:       key,
		prevalue:  prev,
		prevDirty: prevDirty,
	})
	s.setState(key, value)
}

func (s *stateObject) setState(key, value common.Hash) {
	s.dirtyStorage[key] = value
}

// finalise moves all dirty storage slots into the pending area to be written
// on commit.
func (s *stateObject) finalise() {
	keys := make([]common.Hash, 0, len(s.dirtyStorage))
	for key := range s.dirtyStorage {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	for _, key := range keys {
		s.pendingStorage.Set(key, s.dirtyStorage[key])
	}
	if len(s.dirtyStorage) > 0 {
		s.dirtyStorage = make(Storage)
	}
}

// AddBalance adds amount to s's balance.
func (s *stateObject) AddBalance(amount *big.Int) {
	// EIP161: We must check emptiness for the objects such that the account
	// clearing (0,0,0 objects) can take effect.
	if amount.Sign() == 0 {
		if s.empty() {
			s.touch()
		}
		return
	}
	s.SetBalance(new(big.Int).Add(s.Balance(), amount))
}

// SubBalance removes amount from s's balance.
func (s *stateObject) SubBalance(amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	s.SetBalance(new(big.Int).Sub(s.Balance(), amount))
}

func (s *stateObject) SetBalance(amount *big.Int) {
	s.db.journal.append(balanceChange{
		account: &s.address,
		prev:    new(big.Int).Set(s.data.Balance),
	})
	s.setBalance(amount)
}

func (s *stateObject) setBalance(amount *big.Int) {
	s.data.Balance = amount
}

// Code returns the contract code associated with this object, if any.
func (s *stateObject) Code() []byte {
	if s.code != nil {
		return s.code
	}
	if bytes.Equal(s.CodeHash(), types.EmptyCodeHash.Bytes()) {
		return nil
	}
	code := s.db.db.ContractCode(common.BytesToHash(s.CodeHash()))
	if code == nil {
		s.db.setError(errMissingCode(s.address, s.CodeHash()))
	}
	s.code = code
	return code
}

// CodeSize returns the size of the contract code associated with this object,
// or zero if none.
func (s *stateObject) CodeSize() int {
	return len(s.Code())
}

func (s *stateObject) SetCode(code []byte) {
	prevcode := s.Code()
	s.db.journal.append(codeChange{
		account:  &s.address,
		prevhash: s.CodeHash(),
		prevcode: prevcode,
	})
	s.setCode(crypto.Keccak256Hash(code), code)
}

func (s *stateObject) setCode(codeHash common.Hash, code []byte) {
	s.code = code
	s.data.CodeHash = codeHash[:]
	s.dirtyCode = true
}

func (s *stateObject) SetNonce(nonce uint64) {
	s.db.journal.append(nonceChange{
		account: &s.address,
		prev:    s.data.Nonce,
	})
	s.setNonce(nonce)
}

func (s *stateObject) setNonce(nonce uint64) {
	s.data.Nonce = nonce
}

func (s *stateObject) CodeHash() []byte {
	return s.data.CodeHash
}

func (s *stateObject) Balance() *big.Int {
	return s.data.Balance
}

func (s *stateObject) Nonce() uint64 {
	return s.data.Nonce
}

// Address returns the address of the contract/account
func (s *stateObject) Address() common.Address {
	return s.address
}
