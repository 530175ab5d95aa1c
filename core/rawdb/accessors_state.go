// Copyright 2020 The go-ethereum Authors
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
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
)

// ReadAccount retrieves the account stored under the given address, nil if
// the registry has no entry for it.
func ReadAccount(db ethdb.KeyValueReader, addr common.Address) *types.StateAccount {
	data, _ := db.Get(accountKey(addr))
	if len(data) == 0 {
		return nil
	}
	account := new(types.StateAccount)
	if err := rlp.DecodeBytes(data, account); err != nil {
		db.Logger().WithFields(log.Fields{
			"address": addr,
			"err":     err,
		}).Error("Invalid account RLP")
		return nil
	}
	return account
}

// HasAccount reports whether the registry holds an entry for the address.
func HasAccount(db ethdb.KeyValueReader, addr common.Address) bool {
	ok, _ := db.Has(accountKey(addr))
	return ok
}

// WriteAccount stores the account under its address.
func WriteAccount(db ethdb.KeyValueWriter, addr common.Address, account *types.StateAccount) {
	data, err := rlp.EncodeToBytes(account)
	if err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to RLP encode account")
	}
	if err := db.Put(accountKey(addr), data); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store account")
	}
}

// DeleteAccount removes the account entry of the address. Storage slots are
// removed separately with DeleteAccountStorage.
func DeleteAccount(db ethdb.KeyValueWriter, addr common.Address) {
	if err := db.Delete(accountKey(addr)); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to delete account")
	}
}

// ReadStorage retrieves a storage slot of the account, the zero hash if it
// was never written.
func ReadStorage(db ethdb.KeyValueReader, addr common.Address, slot common.Hash) common.Hash {
	data, _ := db.Get(storageKey(addr, slot))
	if len(data) == 0 {
		return common.Hash{}
	}
	var value []byte
	if err := rlp.DecodeBytes(data, &value); err != nil {
		db.Logger().WithFields(log.Fields{
			"address": addr,
			"slot":    slot,
			"err":     err,
		}).Error("Invalid storage RLP")
		return common.Hash{}
	}
	return common.BytesToHash(value)
}

// WriteStorage stores a storage slot of the account. Zero values delete the
// slot.
func WriteStorage(db ethdb.KeyValueWriter, addr common.Address, slot common.Hash, value common.Hash) {
	if value == (common.Hash{}) {
		DeleteStorage(db, addr, slot)
		return
	}
	// leading zeroes are trimmed, the slot value is restored left padded
	data, err := rlp.EncodeToBytes(common.TrimLeftZeroes(value[:]))
	if err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to RLP encode storage slot")
	}
	if err := db.Put(storageKey(addr, slot), data); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store storage slot")
	}
}

// DeleteStorage removes a single storage slot of the account.
func DeleteStorage(db ethdb.KeyValueWriter, addr common.Address, slot common.Hash) {
	if err := db.Delete(storageKey(addr, slot)); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to delete storage slot")
	}
}

// IterateStorage calls fn for every stored slot of the account in key order,
// stopping early when fn returns false.
func IterateStorage(db ethdb.Iteratee, addr common.Address, fn func(slot, value common.Hash) bool) error {
	it := db.NewIterator(storagePrefixKey(addr), nil)
	defer it.Release()

	prefixLen := len(StoragePrefix) + common.AddressLength
	for it.Next() {
		key := it.Key()
		if len(key) != prefixLen+common.HashLength {
			continue
		}
		var value []byte
		if err := rlp.DecodeBytes(it.Value(), &value); err != nil {
			return err
		}
		if !fn(common.BytesToHash(key[prefixLen:]), common.BytesToHash(value)) {
			break
		}
	}
	return it.Error()
}

// DeleteAccountStorage removes every storage slot of the account, writing the
// deletions to w.
func DeleteAccountStorage(db ethdb.Iteratee, w ethdb.KeyValueWriter, addr common.Address) error {
	var slots []common.Hash
	err := IterateStorage(db, addr, func(slot, _ common.Hash) bool {
		slots = append(slots, slot)
		return true
	})
	if err != nil {
		return err
	}
	for _, slot := range slots {
		DeleteStorage(w, addr, slot)
	}
	return nil
}

// ReadCode retrieves the contract code of the provided code hash.
func ReadCode(db ethdb.KeyValueReader, hash common.Hash) []byte {
	if hash == types.EmptyCodeHash {
		return nil
	}
	data, _ := db.Get(codeKey(hash))
	if len(data) == 0 {
		return nil
	}
	code, err := snappy.Decode(nil, data)
	if err != nil {
		db.Logger().WithFields(log.Fields{
			"hash": hash,
			"err":  err,
		}).Error("Failed to decompress contract code")
		return nil
	}
	return code
}

// HasCode checks if the contract code corresponding to the
// provided code hash is present in the db.
func HasCode(db ethdb.KeyValueReader, hash common.Hash) bool {
	ok, _ := db.Has(codeKey(hash))
	return ok
}

// WriteCode writes the provided contract code database.
func WriteCode(db ethdb.KeyValueWriter, hash common.Hash, code []byte) {
	if len(code) == 0 {
		return
	}
	if err := db.Put(codeKey(hash), snappy.Encode(nil, code)); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store contract code")
	}
}

// DeleteCode deletes the specified contract code from the database.
func DeleteCode(db ethdb.KeyValueWriter, hash common.Hash) {
	if err := db.Delete(codeKey(hash)); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to delete contract code")
	}
}

// ReadHeadStateRoot retrieves the root of the latest committed state.
func ReadHeadStateRoot(db ethdb.KeyValueReader) common.Hash {
	data, _ := db.Get(headStateRootKey)
	if len(data) == 0 {
		return common.Hash{}
	}
	return common.BytesToHash(data)
}

// WriteHeadStateRoot stores the root of the latest committed state.
func WriteHeadStateRoot(db ethdb.KeyValueWriter, root common.Hash) {
	if err := db.Put(headStateRootKey, root.Bytes()); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store head state root")
	}
}

// ReadStateParent retrieves the root the given state root was committed on.
func ReadStateParent(db ethdb.KeyValueReader, root common.Hash) (common.Hash, bool) {
	data, _ := db.Get(stateRootKey(root))
	if len(data) != common.HashLength {
		return common.Hash{}, false
	}
	return common.BytesToHash(data), true
}

// WriteStateParent links a committed state root to its parent root.
func WriteStateParent(db ethdb.KeyValueWriter, root, parent common.Hash) {
	if err := db.Put(stateRootKey(root), parent.Bytes()); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store state root link")
	}
}

// ReadReceipt retrieves the receipt of the transaction with the given hash.
func ReadReceipt(db ethdb.KeyValueReader, txHash common.Hash) *types.Receipt {
	data, _ := db.Get(receiptKey(txHash))
	if len(data) == 0 {
		return nil
	}
	var stored types.ReceiptForStorage
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		db.Logger().WithFields(log.Fields{
			"hash": txHash,
			"err":  err,
		}).Error("Invalid receipt RLP")
		return nil
	}
	return (*types.Receipt)(&stored)
}

// WriteReceipt stores the receipt under its transaction hash.
func WriteReceipt(db ethdb.KeyValueWriter, receipt *types.Receipt) {
	data, err := rlp.EncodeToBytes((*types.ReceiptForStorage)(receipt))
	if err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to encode receipt")
	}
	if err := db.Put(receiptKey(receipt.TxHash), data); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store receipt")
	}
}

// DeleteReceipt removes the receipt of the transaction.
func DeleteReceipt(db ethdb.KeyValueWriter, txHash common.Hash) {
	if err := db.Delete(receiptKey(txHash)); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to delete receipt")
	}
}
