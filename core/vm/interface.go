// Copyright 2016 The go-ethereum Authors
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

package vm

import (
	"fmt"
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
)

//go:generate mockgen -source interface.go -destination mocks/mock_host.go -package mocks

// Host is the ledger facing side of the interpreter. Every opcode whose result
// depends on state outside the running frame goes through it.
type Host interface {
	// AccountExists reports whether addr has any presence in the ledger.
	AccountExists(addr common.Address) bool

	// GetStorage returns the value of a storage slot, zero if it was never set.
	GetStorage(addr common.Address, key common.Hash) common.Hash
	// SetStorage writes a storage slot and reports the kind of transition.
	SetStorage(addr common.Address, key common.Hash, value common.Hash) StorageStatus

	// GetBalance returns the balance of addr, zero if it does not exist.
	GetBalance(addr common.Address) *big.Int
	// GetCodeSize returns the code size of addr, zero if it does not exist.
	GetCodeSize(addr common.Address) uint64
	// GetCodeHash returns the code hash of addr, zero if it does not exist.
	GetCodeHash(addr common.Address) common.Hash
	// CopyCode copies the code of addr starting at offset into buffer and
	// returns the number of bytes copied.
	CopyCode(addr common.Address, offset uint64, buffer []byte) uint64

	// Call runs a nested message to completion.
	Call(msg *Message) *Output
	// SelfDestruct schedules the balance transfer to beneficiary and the
	// removal of addr.
	SelfDestruct(addr common.Address, beneficiary common.Address)

	// GetBlockHash returns the hash of a block, zero if it is unknown.
	GetBlockHash(number uint64) common.Hash
	// EmitLog appends a log record.
	EmitLog(addr common.Address, data []byte, topics []common.Hash)

	// AccessAccount marks addr warm and returns its previous status.
	AccessAccount(addr common.Address) AccessStatus
	// AccessStorage marks the slot warm and returns its previous status.
	AccessStorage(addr common.Address, key common.Hash) AccessStatus

	// GetTxContext returns the environment of the running transaction.
	GetTxContext() TxContext
}

// TxContext provides the EVM with information about the transaction and the
// block it executes in. All fields can change between transactions.
type TxContext struct {
	Origin      common.Address // Provides information for ORIGIN
	GasPrice    *big.Int       // Provides information for GASPRICE
	Coinbase    common.Address // Provides information for COINBASE
	BlockNumber uint64         // Provides information for NUMBER
	Timestamp   uint64         // Provides information for TIMESTAMP
	GasLimit    uint64         // Provides information for GASLIMIT
	Difficulty  *big.Int       // Provides information for DIFFICULTY
	ChainID     *big.Int       // Provides information for CHAINID
	BaseFee     *big.Int       // Provides information for BASEFEE
}

// CallKind is the kind of a call-like instruction.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	CallCode
	Create
	Create2
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "CALL"
	case DelegateCall:
		return "DELEGATECALL"
	case CallCode:
		return "CALLCODE"
	case Create:
		return "CREATE"
	case Create2:
		return "CREATE2"
	}
	return fmt.Sprintf("CallKind(%d)", int(k))
}

// IsCreate reports whether the kind deploys a new contract.
func (k CallKind) IsCreate() bool {
	return k == Create || k == Create2
}

// Message describes one invocation, including the depth zero call made on
// behalf of a transaction. It is not modified while the invocation runs.
type Message struct {
	Kind   CallKind
	Static bool
	Depth  int
	Gas    uint64

	// Recipient is the account whose storage and balance the code acts on.
	Recipient common.Address
	Sender    common.Address
	// CodeAddress is the account whose code runs. It differs from Recipient
	// for DELEGATECALL and CALLCODE.
	CodeAddress common.Address

	Input []byte
	Value *big.Int
	// Salt is only used by CREATE2.
	Salt common.Hash
}

// Output is the terminal result of one invocation.
type Output struct {
	Status  StatusCode
	GasLeft uint64
	Output  []byte
	// CreatedAddress is set by successful CREATE and CREATE2 messages.
	CreatedAddress *common.Address
	Reverted       bool
}

// Success reports whether the invocation halted normally.
func (o *Output) Success() bool {
	return o.Status == StatusSuccess
}

// Failed returns an output for a message that did not run, keeping gasLeft
// for the caller.
func Failed(status StatusCode, gasLeft uint64) *Output {
	return &Output{Status: status, GasLeft: gasLeft}
}

// AccessStatus is the EIP-2929 warmth of an account or storage slot.
type AccessStatus int

const (
	AccessCold AccessStatus = iota
	AccessWarm
)

func (s AccessStatus) String() string {
	if s == AccessWarm {
		return "warm"
	}
	return "cold"
}

// StorageStatus classifies the effect of a storage write relative to the
// value at the start of the transaction.
type StorageStatus int

const (
	// StorageUnchanged is a write of the current value: 0 -> 0 and X -> X.
	StorageUnchanged StorageStatus = iota
	// StorageModified changes a slot for the first time: X -> Y.
	StorageModified
	// StorageModifiedAgain changes an already modified slot: X -> Y -> Z.
	StorageModifiedAgain
	// StorageAdded fills a clean empty slot: 0 -> X.
	StorageAdded
	// StorageDeleted clears a clean slot: X -> 0.
	StorageDeleted
)

func (s StorageStatus) String() string {
	switch s {
	case StorageUnchanged:
		return "unchanged"
	case StorageModified:
		return "modified"
	case StorageModifiedAgain:
		return "modified again"
	case StorageAdded:
		return "added"
	case StorageDeleted:
		return "deleted"
	}
	return fmt.Sprintf("StorageStatus(%d)", int(s))
}
