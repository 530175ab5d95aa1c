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
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/crypto"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

var _ vm.Host = (*StateDB)(nil)

// AccountExists reports whether addr holds a non-empty account. Accounts
// that are empty per EIP-161 count as absent.
func (s *StateDB) AccountExists(addr common.Address) bool {
	return !s.Empty(addr)
}

// GetStorage retrieves a value from the given account's storage.
func (s *StateDB) GetStorage(addr common.Address, key common.Hash) common.Hash {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return stateObject.GetState(key)
	}
	return common.Hash{}
}

// SetStorage writes a storage slot, classifies the transition against the
// value at the start of the transaction and keeps the EIP-3529 refund counter.
func (s *StateDB) SetStorage(addr common.Address, key common.Hash, value common.Hash) vm.StorageStatus {
	stateObject := s.GetOrNewStateObject(addr)
	var (
		current  = stateObject.GetState(key)
		original = stateObject.GetCommittedState(key)
	)
	s.updateStorageRefund(original, current, value)
	stateObject.SetState(key, value)
	return storageStatus(original, current, value)
}

func storageStatus(original, current, value common.Hash) vm.StorageStatus {
	switch {
	case current == value:
		return vm.StorageUnchanged
	case original != current:
		return vm.StorageModifiedAgain
	case original == (common.Hash{}):
		return vm.StorageAdded
	case value == (common.Hash{}):
		return vm.StorageDeleted
	}
	return vm.StorageModified
}

func (s *StateDB) updateStorageRefund(original, current, value common.Hash) {
	if current == value {
		return
	}
	if original == current {
		if original != (common.Hash{}) && value == (common.Hash{}) { // delete slot (2.1.2b)
			s.AddRefund(params.SstoreClearsScheduleRefundEIP3529)
		}
		return
	}
	if original != (common.Hash{}) {
		if current == (common.Hash{}) { // recreate slot (2.2.1.1)
			s.SubRefund(params.SstoreClearsScheduleRefundEIP3529)
		} else if value == (common.Hash{}) { // delete slot (2.2.1.2)
			s.AddRefund(params.SstoreClearsScheduleRefundEIP3529)
		}
	}
	if original == value {
		if original == (common.Hash{}) { // reset to original inexistent slot (2.2.2.1)
			s.AddRefund(params.SstoreSetGasEIP2200 - params.WarmStorageReadCostEIP2929)
		} else { // reset to original existing slot (2.2.2.2)
			s.AddRefund((params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929) - params.WarmStorageReadCostEIP2929)
		}
	}
}

// GetBalance retrieves the balance from the given address or 0 if object not found
func (s *StateDB) GetBalance(addr common.Address) *big.Int {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return new(big.Int).Set(stateObject.Balance())
	}
	return new(big.Int)
}

func (s *StateDB) GetCodeSize(addr common.Address) uint64 {
	stateObject := s.getStateObject(addr)
	if stateObject != nil {
		return uint64(stateObject.CodeSize())
	}
	return 0
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	stateObject := s.getStateObject(addr)
	if stateObject == nil {
		return common.Hash{}
	}
	return common.BytesToHash(stateObject.CodeHash())
}

func (s *StateDB) CopyCode(addr common.Address, offset uint64, buffer []byte) uint64 {
	code := s.GetCode(addr)
	if offset >= uint64(len(code)) {
		return 0
	}
	return uint64(copy(buffer, code[offset:]))
}

// SelfDestruct moves the balance of addr to beneficiary and marks addr for
// removal at the end of the transaction. Sending to itself burns the balance.
func (s *StateDB) SelfDestruct(addr common.Address, beneficiary common.Address) {
	stateObject := s.getStateObject(addr)
	if stateObject == nil {
		return
	}
	s.AddBalance(beneficiary, stateObject.Balance())
	s.journal.append(selfDestructChange{
		account:     &addr,
		prev:        stateObject.selfDestructed,
		prevbalance: new(big.Int).Set(stateObject.Balance()),
	})
	stateObject.markSelfDestructed()
	stateObject.data.Balance = new(big.Int)
}

func (s *StateDB) GetBlockHash(number uint64) common.Hash {
	if s.getHash == nil {
		return common.Hash{}
	}
	return s.getHash(number)
}

func (s *StateDB) EmitLog(addr common.Address, data []byte, topics []common.Hash) {
	s.AddLog(&types.Log{
		Address: addr,
		Topics:  append([]common.Hash(nil), topics...),
		Data:    common.CopyBytes(data),
	})
}

func (s *StateDB) AccessAccount(addr common.Address) vm.AccessStatus {
	if s.AddressInAccessList(addr) {
		return vm.AccessWarm
	}
	s.AddAddressToAccessList(addr)
	return vm.AccessCold
}

func (s *StateDB) AccessStorage(addr common.Address, key common.Hash) vm.AccessStatus {
	if _, ok := s.SlotInAccessList(addr, key); ok {
		return vm.AccessWarm
	}
	s.AddSlotToAccessList(addr, key)
	return vm.AccessCold
}

func (s *StateDB) GetTxContext() vm.TxContext {
	return s.txCtx
}

// Call runs a nested message against the state. Any failure, including a
// revert, rolls back every change the message made.
func (s *StateDB) Call(msg *vm.Message) *vm.Output {
	if s.evm == nil {
		return vm.Failed(vm.StatusInternalError, msg.Gas)
	}
	if msg.Depth > int(params.CallCreateDepth) {
		return vm.Failed(vm.StatusCallDepthExceeded, msg.Gas)
	}
	var (
		out     *vm.Output
		address common.Address
	)
	if msg.Kind.IsCreate() {
		// The nonce bump and the warm address survive a failed creation.
		if address, out = s.prepareCreate(msg); out != nil {
			return out
		}
	}
	snapshot := s.Snapshot()
	if msg.Kind.IsCreate() {
		out = s.create(msg, address)
	} else {
		out = s.call(msg)
	}
	if !out.Success() {
		s.RevertToSnapshot(snapshot)
		s.logger.WithFields(log.Fields{
			"kind":   msg.Kind,
			"depth":  msg.Depth,
			"status": out.Status,
		}).Trace("Reverted nested message")
	}
	return out
}

func (s *StateDB) canTransfer(from common.Address, value *big.Int) bool {
	return value == nil || s.GetBalance(from).Cmp(value) >= 0
}

func (s *StateDB) transfer(from, to common.Address, value *big.Int) {
	if value == nil {
		value = new(big.Int)
	}
	s.SubBalance(from, value)
	s.AddBalance(to, value)
}

func (s *StateDB) call(msg *vm.Message) *vm.Output {
	if msg.Kind != vm.DelegateCall {
		if !s.canTransfer(msg.Sender, msg.Value) {
			return vm.Failed(vm.StatusInsufficientBalance, msg.Gas)
		}
		precompile, isPrecompile := vm.ActivePrecompile(msg.CodeAddress)
		if !s.Exist(msg.Recipient) && !isPrecompile && (msg.Value == nil || msg.Value.Sign() == 0) {
			// Calling a non-existing account with no value, don't touch it.
			return &vm.Output{Status: vm.StatusSuccess, GasLeft: msg.Gas}
		}
		s.transfer(msg.Sender, msg.Recipient, msg.Value)
		if isPrecompile {
			return runPrecompile(precompile, msg)
		}
	} else if precompile, ok := vm.ActivePrecompile(msg.CodeAddress); ok {
		return runPrecompile(precompile, msg)
	}

	codeAddr := msg.CodeAddress
	code := s.GetCode(codeAddr)
	if len(code) == 0 {
		return &vm.Output{Status: vm.StatusSuccess, GasLeft: msg.Gas}
	}
	bytecode, err := s.db.ContractBytecode(s.GetCodeHash(codeAddr), code)
	if err != nil {
		return vm.Failed(vm.StatusFromError(err), 0)
	}
	return s.evm.ExecuteBytecode(s, msg, bytecode)
}

func runPrecompile(p vm.PrecompiledContract, msg *vm.Message) *vm.Output {
	ret, gasLeft, err := vm.RunPrecompiledContract(p, msg.Input, msg.Gas)
	if err != nil {
		return vm.Failed(vm.StatusFromError(err), 0)
	}
	return &vm.Output{Status: vm.StatusSuccess, GasLeft: gasLeft, Output: ret}
}

// prepareCreate derives the address of a creation and bumps the sender nonce.
// A non-nil output means the creation cannot start.
func (s *StateDB) prepareCreate(msg *vm.Message) (common.Address, *vm.Output) {
	if !s.canTransfer(msg.Sender, msg.Value) {
		return common.Address{}, vm.Failed(vm.StatusInsufficientBalance, msg.Gas)
	}
	nonce := s.GetNonce(msg.Sender)
	if nonce+1 < nonce {
		return common.Address{}, vm.Failed(vm.StatusFailure, msg.Gas)
	}
	var address common.Address
	if msg.Kind == vm.Create2 {
		address = crypto.CreateAddress2(msg.Sender, msg.Salt, crypto.Keccak256(msg.Input))
	} else {
		address = crypto.CreateAddress(msg.Sender, nonce)
	}
	s.SetNonce(msg.Sender, nonce+1)
	// the created address is warm even when the creation fails
	s.AddAddressToAccessList(address)

	// Ensure there's no existing contract already at the designated address
	contractHash := s.GetCodeHash(address)
	if s.GetNonce(address) != 0 || (contractHash != (common.Hash{}) && contractHash != types.EmptyCodeHash) {
		return address, vm.Failed(vm.StatusFailure, 0)
	}
	return address, nil
}

func (s *StateDB) create(msg *vm.Message, address common.Address) *vm.Output {
	s.CreateAccount(address)
	s.SetNonce(address, 1)
	s.transfer(msg.Sender, address, msg.Value)

	bytecode, err := vm.Analyse(msg.Input)
	if err != nil {
		return vm.Failed(vm.StatusFromError(err), 0)
	}
	initMsg := *msg
	initMsg.Recipient, initMsg.CodeAddress, initMsg.Input = address, address, nil
	out := s.evm.ExecuteBytecode(s, &initMsg, bytecode)
	if !out.Success() {
		return out
	}
	// Reject code exceeding the size limit and, per EIP-3541, code starting
	// with the 0xEF byte.
	if len(out.Output) > params.MaxCodeSize || (len(out.Output) > 0 && out.Output[0] == 0xEF) {
		return vm.Failed(vm.StatusContractValidationFailure, 0)
	}
	// Runtime code with undefined instructions could never run.
	if _, err := vm.Analyse(out.Output); err != nil {
		return vm.Failed(vm.StatusContractValidationFailure, 0)
	}
	deposit := uint64(len(out.Output)) * params.CreateDataGas
	if out.GasLeft < deposit {
		return vm.Failed(vm.StatusOutOfGas, 0)
	}
	s.SetCode(address, common.CopyBytes(out.Output))
	return &vm.Output{Status: vm.StatusSuccess, GasLeft: out.GasLeft - deposit, CreatedAddress: &address}
}
