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

package types

import (
	"bytes"
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
)

var (
	// EmptyRootHash is the storage root of an account without storage.
	EmptyRootHash = common.Hash{}

	// EmptyCodeHash is the known hash of the empty EVM bytecode.
	EmptyCodeHash = common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
)

// StateAccount is the consensus representation of accounts.
// These objects are stored in the state database keyed by address.
type StateAccount struct {
	Nonce    uint64
	Balance  *big.Int
	Root     common.Hash // commitment of the account's storage slots
	CodeHash []byte
}

// NewEmptyStateAccount returns an account with no nonce, balance, code or storage.
func NewEmptyStateAccount() *StateAccount {
	return &StateAccount{
		Balance:  new(big.Int),
		Root:     EmptyRootHash,
		CodeHash: EmptyCodeHash.Bytes(),
	}
}

// Copy returns a deep copy of the account.
func (acct *StateAccount) Copy() *StateAccount {
	balance := new(big.Int)
	if acct.Balance != nil {
		balance.Set(acct.Balance)
	}
	return &StateAccount{
		Nonce:    acct.Nonce,
		Balance:  balance,
		Root:     acct.Root,
		CodeHash: common.CopyBytes(acct.CodeHash),
	}
}

// Empty reports whether the account is empty per EIP-161: zero nonce, zero
// balance and no code.
func (acct *StateAccount) Empty() bool {
	return acct.Nonce == 0 && (acct.Balance == nil || acct.Balance.Sign() == 0) &&
		(len(acct.CodeHash) == 0 || bytes.Equal(acct.CodeHash, EmptyCodeHash.Bytes()))
}
