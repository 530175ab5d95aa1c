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

// Package state provides the ledger the virtual machine runs against.
package state

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"lukechampine.com/blake3"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
)

// ErrStateUnavailable is returned when opening a state that is not the head
// of the database. Only the latest committed state can be read.
var ErrStateUnavailable = errors.New("state root is not the committed head")

func errMissingCode(addr common.Address, codeHash []byte) error {
	return errors.Errorf("missing code %x of account %x", codeHash, addr)
}

// GetHashFunc returns the hash of the n'th block.
type GetHashFunc func(n uint64) common.Hash

type revision struct {
	id           int
	journalIndex int
}

// StateDB holds the accounts of the ledger and implements vm.Host on top of
// them. Changes are journalled so that nested calls can be rolled back, kept
// in memory across transactions and flushed to the database by Commit.
//
// A StateDB is not safe for concurrent use.
type StateDB struct {
	db     *Database
	root   common.Hash
	logger *log.Logger

	// This map holds 'live' objects, which will get modified while processing
	// a state transition.
	stateObjects        map[common.Address]*stateObject
	stateObjectsPending *orderedmap.OrderedMap[common.Address, struct{}] // State objects finalized but not yet written

	// DB error.
	// State objects are used by the consensus core and VM which are
	// unable to deal with database-level errors. Any error that occurs
	// during a database read is memoized here and will eventually be returned
	// by StateDB.Commit.
	dbErr error

	// The refund counter, also used by state transitioning.
	refund uint64

	// Environment of the running transaction.
	evm     *vm.EVM
	txCtx   vm.TxContext
	getHash GetHashFunc
	thash   common.Hash
	logs    []*types.Log

	// Per-transaction access list
	accessList *accessList

	// Journal of state modifications. This is the backbone of
	// Snapshot and RevertToSnapshot.
	journal        *journal
	validRevisions []revision
	nextRevisionId int
}

// New opens the state committed under root, which has to be the head state
// of the database.
func New(root common.Hash, db *Database) (*StateDB, error) {
	if head := rawdb.ReadHeadStateRoot(db.disk); head != root {
		return nil, errors.Wrapf(ErrStateUnavailable, "root %x, head %x", root, head)
	}
	return &StateDB{
		db:                  db,
		root:                root,
		logger:              db.logger,
		stateObjects:        make(map[common.Address]*stateObject),
		stateObjectsPending: orderedmap.New[common.Address, struct{}](),
		accessList:          newAccessList(),
		journal:             newJournal(),
	}, nil
}

// OpenHead opens the latest committed state of db.
func OpenHead(db *Database) (*StateDB, error) {
	return New(rawdb.ReadHeadStateRoot(db.disk), db)
}

// setError remembers the first non-nil error it is called with.
func (s *StateDB) setError(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

// Error returns the memorized database failure occurred earlier.
func (s *StateDB) Error() error {
	return s.dbErr
}

// Root returns the root of the last committed state.
func (s *StateDB) Root() common.Hash {
	return s.root
}

// Database returns the backing database.
func (s *StateDB) Database() *Database {
	return s.db
}

// AddLog records a log of the running transaction.
func (s *StateDB) AddLog(l *types.Log) {
	s.journal.append(addLogChange{})

	l.TxHash = s.thash
	l.Index = uint(len(s.logs))
	s.logs = append(s.logs, l)
}

// Logs returns the logs of the running transaction in emission order.
func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

// AddRefund adds gas to the refund counter
func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

// SubRefund removes gas from the refund counter.
// This method will panic if the refund counter goes below zero
func (s *StateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		panic("refund counter below zero")
	}
	s.refund -= gas
}

// GetRefund returns the current value of the refund counter.
func (s *StateDB) GetRefund() uint64 {
	return s.refund
}

// Exist reports whether the given account address exists in the state.
// Notably this also returns true for self-destructed accounts.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// Empty returns whether the state object is either non-existent
// or empty according to the EIP161 specification (balance = nonce = code = 0)
func (s *StateDB) Empty(addr common.Address) bool {
	so := s.getStateObject(addr)
	return so == nil || so.empty()
}

// GetNonce retrieves the nonce from the given address or 0 if object not found
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return stateObject.Nonce()
	}
	return 0
}

// GetCode returns the code of the account, nil if it has none.
func (s *StateDB) GetCode(addr common.Address) []byte {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return stateObject.Code()
	}
	return nil
}

// GetCommittedState retrieves a storage slot as it was at the start of the
// running transaction.
func (s *StateDB) GetCommittedState(addr common.Address, hash common.Hash) common.Hash {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return stateObject.GetCommittedState(hash)
	}
	return common.Hash{}
}

// HasSelfDestructed reports whether the account self-destructed in the
// running transaction.
func (s *StateDB) HasSelfDestructed(addr common.Address) bool {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return stateObject.selfDestructed
	}
	return false
}

// Account returns a copy of the account stored under addr. A missing address
// yields the zero account.
func (s *StateDB) Account(addr common.Address) *types.StateAccount {
	stateObject := s.getStateObject(addr)
	if stateObject == nil {
		return types.NewEmptyStateAccount()
	}
	return stateObject.data.Copy()
}

/*
 * SETTERS
 */

// AddBalance adds amount to the account associated with addr.
func (s *StateDB) AddBalance(addr common.Address, amount *big.Int) {
	stateObject := s.GetOrNewStateObject(addr)
	if stateObject != nil {
		stateObject.AddBalance(amount)
	}
}

// SubBalance subtracts amount from the account associated with addr.
func (s *StateDB) SubBalance(addr common.Address, amount *big.Int) {
	stateObject := s.GetOrNewStateObject(addr)
	if stateObject != nil {
		stateObject.SubBalance(amount)
	}
}

func (s *StateDB) SetBalance(addr common.Address, amount *big.Int) {
	stateObject := s.GetOrNewStateObject(addr)
	if stateObject != nil {
		stateObject.SetBalance(new(big.Int).Set(amount))
	}
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	stateObject := s.GetOrNewStateObject(addr)
	if stateObject != nil {
		stateObject.SetNonce(nonce)
	}
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	stateObject := s.GetOrNewStateObject(addr)
	if stateObject != nil {
		stateObject.SetCode(code)
	}
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	stateObject := s.GetOrNewStateObject(addr)
	if stateObject != nil {
		stateObject.SetState(key, value)
	}
}

//
// Setting, updating & deleting state object methods.
//

// getStateObject retrieves a state object given by the address, returning nil if
// the object is not found or was deleted in this execution context.
func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj := s.getDeletedStateObject(addr); obj != nil && !obj.deleted {
		return obj
	}
	return nil
}

// getDeletedStateObject is similar to getStateObject, but instead of returning
// nil for a deleted state object, it returns the actual object with the deleted
// flag set. This is needed by the state journal to revert to the correct
// self-destructed object instead of wiping all knowledge about the state object.
func (s *StateDB) getDeletedStateObject(addr common.Address) *stateObject {
	// Prefer live objects if any is available
	if obj := s.stateObjects[addr]; obj != nil {
		return obj
	}
	data := s.db.ReadAccount(addr)
	if data == nil {
		return nil
	}
	// Insert into the live set
	obj := newObject(s, addr, *data)
	s.setStateObject(obj)
	return obj
}

func (s *StateDB) setStateObject(object *stateObject) {
	s.stateObjects[object.Address()] = object
}

// GetOrNewStateObject retrieves a state object or create a new state object if nil.
func (s *StateDB) GetOrNewStateObject(addr common.Address) *stateObject {
	stateObject := s.getStateObject(addr)
	if stateObject == nil {
		stateObject, _ = s.createObject(addr)
	}
	return stateObject
}

// createObject creates a new state object. If there is an existing account with
// the given address, it is overwritten and returned as the second return value.
func (s *StateDB) createObject(addr common.Address) (newobj, prev *stateObject) {
	prev = s.getDeletedStateObject(addr) // Note, prev might have been deleted, we need that!

	newobj = newObject(s, addr, *types.NewEmptyStateAccount())
	newobj.created = true
	if prev == nil {
		s.journal.append(createObjectChange{account: &addr})
	} else {
		s.journal.append(resetObjectChange{prev: prev})
	}
	s.setStateObject(newobj)
	if prev != nil && !prev.deleted {
		return newobj, prev
	}
	return newobj, nil
}

// CreateAccount explicitly creates a state object. If a state object with the address
// already exists the balance is carried over to the new account.
//
// CreateAccount is called during the EVM CREATE operation. The situation might arise that
// a contract does the following:
//
//  1. sends funds to sha(account ++ (nonce + 1))
//  2. tx_create(sha(account ++ nonce)) (note that this gets the address of 1)
//
// Carrying over the balance ensures that Ether doesn't disappear.
func (s *StateDB) CreateAccount(addr common.Address) {
	newObj, prev := s.createObject(addr)
	if prev != nil {
		newObj.setBalance(prev.data.Balance)
	}
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionId
	s.nextRevisionId++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	// Replay the journal to undo changes and remove invalidated snapshots
	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// Prepare sets up the state for executing a transaction: it installs the
// engine and environment nested calls run with, clears the logs and resets
// the access list to the sender, the destination, the precompiles and the
// transaction access list.
func (s *StateDB) Prepare(evm *vm.EVM, txCtx vm.TxContext, getHash GetHashFunc, thash common.Hash, sender common.Address, dst *common.Address, list types.AccessList) {
	s.evm = evm
	s.txCtx = txCtx
	s.getHash = getHash
	s.thash = thash
	s.logs = nil

	s.accessList = newAccessList()
	s.AddAddressToAccessList(sender)
	if dst != nil {
		s.AddAddressToAccessList(*dst)
	}
	for _, addr := range vm.PrecompiledAddresses {
		s.AddAddressToAccessList(addr)
	}
	for _, el := range list {
		s.AddAddressToAccessList(el.Address)
		for _, key := range el.StorageKeys {
			s.AddSlotToAccessList(el.Address, key)
		}
	}
}

// AddAddressToAccessList adds the given address to the access list
func (s *StateDB) AddAddressToAccessList(addr common.Address) {
	if s.accessList.AddAddress(addr) {
		s.journal.append(accessListAddAccountChange{&addr})
	}
}

// AddSlotToAccessList adds the given (address, slot)-tuple to the access list
func (s *StateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	addrMod, slotMod := s.accessList.AddSlot(addr, slot)
	if addrMod {
		// In practice, this should not happen, since there is no way to enter the
		// scope of 'address' without having the 'address' become already added
		// to the access list (via call-variant, create, etc).
		// Better safe than sorry, though
		s.journal.append(accessListAddAccountChange{&addr})
	}
	if slotMod {
		s.journal.append(accessListAddSlotChange{
			address: &addr,
			slot:    &slot,
		})
	}
}

// AddressInAccessList returns true if the given address is in the access list.
func (s *StateDB) AddressInAccessList(addr common.Address) bool {
	return s.accessList.ContainsAddress(addr)
}

// SlotInAccessList returns true if the given (address, slot)-tuple is in the access list.
func (s *StateDB) SlotInAccessList(addr common.Address, slot common.Hash) (addressPresent bool, slotPresent bool) {
	return s.accessList.Contains(addr, slot)
}

// Finalise finalises the state by removing the self destructed objects and
// clears the journal as well as the refunds. Finalise, however, will not push
// any updates into the database yet; that happens in Commit.
func (s *StateDB) Finalise(deleteEmptyObjects bool) {
	addrs := make([]common.Address, 0, len(s.journal.dirties))
	for addr := range s.journal.dirties {
		addrs = append(addrs, addr)
	}
	// dirty accounts join the pending set in address order, which Commit keeps
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	for _, addr := range addrs {
		obj, exist := s.stateObjects[addr]
		if !exist {
			continue
		}
		if obj.selfDestructed || (deleteEmptyObjects && obj.empty()) {
			obj.deleted = true
		} else {
			obj.finalise()
		}
		s.stateObjectsPending.Set(addr, struct{}{})
	}
	// Invalidate journal because reverting across transactions is not allowed.
	s.clearJournalAndRefund()
}

func (s *StateDB) clearJournalAndRefund() {
	if len(s.journal.entries) > 0 {
		s.journal = newJournal()
		s.refund = 0
	}
	s.validRevisions = s.validRevisions[:0] // Snapshots can be created without journal entries
}

// storageUpdate is a slot change flushed by Commit, replayed into the clean
// cache once the batch is written.
type storageUpdate struct {
	addr    common.Address
	key     common.Hash
	value   common.Hash
	deleted bool
}

// Commit writes the state to the underlying database in one batch and
// returns the new state root. The root commits to the previous root and to
// every account and slot written, in the order they were first finalised.
func (s *StateDB) Commit() (common.Hash, error) {
	if s.dbErr != nil {
		return common.Hash{}, errors.Wrap(s.dbErr, "commit aborted due to earlier error")
	}
	s.Finalise(true)
	if s.stateObjectsPending.Len() == 0 {
		return s.root, nil
	}
	var (
		batch   = s.db.disk.NewBatch()
		hasher  = blake3.New(32, nil)
		updates []storageUpdate
		slots   int
	)
	hasher.Write(s.root[:])
	for pair := s.stateObjectsPending.Oldest(); pair != nil; pair = pair.Next() {
		addr := pair.Key
		obj := s.stateObjects[addr]
		hasher.Write(addr[:])

		if obj.deleted || obj.created {
			deleted, err := s.deleteStorage(batch, addr)
			if err != nil {
				return common.Hash{}, errors.Wrapf(err, "clearing storage of %x", addr)
			}
			updates = append(updates, deleted...)
			obj.data.Root = types.EmptyRootHash
		}
		if obj.deleted {
			rawdb.DeleteAccount(batch, addr)
			hasher.Write([]byte{0})
			continue
		}
		if obj.dirtyCode {
			rawdb.WriteCode(batch, common.BytesToHash(obj.CodeHash()), obj.code)
			obj.dirtyCode = false
		}
		if obj.pendingStorage.Len() > 0 {
			storageHasher := blake3.New(32, nil)
			storageHasher.Write(obj.data.Root[:])
			for slot := obj.pendingStorage.Oldest(); slot != nil; slot = slot.Next() {
				rawdb.WriteStorage(batch, addr, slot.Key, slot.Value)
				storageHasher.Write(slot.Key[:])
				storageHasher.Write(slot.Value[:])
				updates = append(updates, storageUpdate{addr: addr, key: slot.Key, value: slot.Value})
				obj.originStorage[slot.Key] = slot.Value
				slots++
			}
			copy(obj.data.Root[:], storageHasher.Sum(nil))
			obj.pendingStorage = orderedmap.New[common.Hash, common.Hash]()
		}
		obj.created = false

		enc, err := rlp.EncodeToBytes(&obj.data)
		if err != nil {
			return common.Hash{}, errors.Wrapf(err, "encoding account %x", addr)
		}
		hasher.Write(enc)
		rawdb.WriteAccount(batch, addr, &obj.data)
	}
	var root common.Hash
	copy(root[:], hasher.Sum(nil))
	rawdb.WriteStateParent(batch, root, s.root)
	rawdb.WriteHeadStateRoot(batch, root)
	if err := batch.Write(); err != nil {
		return common.Hash{}, errors.Wrap(err, "writing state batch")
	}
	for _, update := range updates {
		if update.deleted {
			s.db.storageDeleted(update.addr, update.key)
		} else {
			s.db.storageWritten(update.addr, update.key, update.value)
		}
	}
	for pair := s.stateObjectsPending.Oldest(); pair != nil; pair = pair.Next() {
		if obj := s.stateObjects[pair.Key]; obj.deleted {
			delete(s.stateObjects, pair.Key)
		}
	}
	s.logger.WithFields(log.Fields{
		"root":     root,
		"parent":   s.root,
		"accounts": s.stateObjectsPending.Len(),
		"slots":    slots,
	}).Debug("Committed state")

	s.stateObjectsPending = orderedmap.New[common.Address, struct{}]()
	s.root = root
	return root, nil
}

// deleteStorage queues the removal of every stored slot of addr.
func (s *StateDB) deleteStorage(w ethdb.KeyValueWriter, addr common.Address) ([]storageUpdate, error) {
	var deleted []storageUpdate
	err := rawdb.IterateStorage(s.db.disk, addr, func(slot, _ common.Hash) bool {
		deleted = append(deleted, storageUpdate{addr: addr, key: slot, deleted: true})
		return true
	})
	if err != nil {
		return nil, err
	}
	for _, update := range deleted {
		rawdb.DeleteStorage(w, addr, update.key)
	}
	return deleted, nil
}
