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

// Package rawdb contains a collection of low level database accessors.
package rawdb

import (
	"bytes"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/dominant-strategies/quai-evm/common"
)

// The fields below define the low level database schema prefixing.
var (
	// databaseVersionKey tracks the current database version.
	databaseVersionKey = []byte("DatabaseVersion")

	// headStateRootKey tracks the root of the latest committed state.
	headStateRootKey = []byte("LastStateRoot")

	// chainConfigKey stores the chain configuration the state was created with.
	chainConfigKey = []byte("quai-evm-config")

	// Data item prefixes (use single byte to avoid mixing data types, avoid `i`, used for indexes).
	AccountPrefix   = []byte("a") // AccountPrefix + address -> account
	StoragePrefix   = []byte("o") // StoragePrefix + address + slot -> storage value
	CodePrefix      = []byte("c") // CodePrefix + code cid -> snappy compressed code
	receiptPrefix   = []byte("r") // receiptPrefix + tx hash -> receipt
	stateRootPrefix = []byte("s") // stateRootPrefix + root -> parent root
)

// accountKey = AccountPrefix + address
func accountKey(addr common.Address) []byte {
	return append(AccountPrefix, addr.Bytes()...)
}

// storageKey = StoragePrefix + address + slot
func storageKey(addr common.Address, slot common.Hash) []byte {
	buf := make([]byte, len(StoragePrefix)+common.AddressLength+common.HashLength)
	n := copy(buf, StoragePrefix)
	n += copy(buf[n:], addr.Bytes())
	copy(buf[n:], slot.Bytes())
	return buf
}

// storagePrefixKey = StoragePrefix + address
func storagePrefixKey(addr common.Address) []byte {
	return append(StoragePrefix, addr.Bytes()...)
}

// CodeCid returns the content identifier under which the code with the given
// Keccak256 hash is stored.
func CodeCid(codeHash common.Hash) cid.Cid {
	// keccak is a registered multihash function, so the digest is wrapped as is
	mhash, _ := multihash.Encode(codeHash.Bytes(), multihash.KECCAK_256)
	return cid.NewCidV1(cid.Raw, mhash)
}

// codeKey = CodePrefix + cid(hash)
func codeKey(codeHash common.Hash) []byte {
	return append(CodePrefix, CodeCid(codeHash).Bytes()...)
}

// IsCodeKey reports whether the given byte slice is the key of contract code,
// if so return the raw code hash as well.
func IsCodeKey(key []byte) (bool, []byte) {
	if !bytes.HasPrefix(key, CodePrefix) {
		return false, nil
	}
	c, err := cid.Cast(key[len(CodePrefix):])
	if err != nil {
		return false, nil
	}
	decoded, err := multihash.Decode(c.Hash())
	if err != nil || decoded.Code != multihash.KECCAK_256 || len(decoded.Digest) != common.HashLength {
		return false, nil
	}
	return true, decoded.Digest
}

// receiptKey = receiptPrefix + hash
func receiptKey(hash common.Hash) []byte {
	return append(receiptPrefix, hash.Bytes()...)
}

// stateRootKey = stateRootPrefix + root
func stateRootKey(root common.Hash) []byte {
	return append(stateRootPrefix, root.Bytes()...)
}
