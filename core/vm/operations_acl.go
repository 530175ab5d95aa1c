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

package vm

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/params"
)

// coldAccountSurcharge marks addr warm and returns the extra charge for a
// cold access on top of the warm cost already taken as constant gas.
func coldAccountSurcharge(in *EVMInterpreter, addr common.Address) uint64 {
	if in.host.AccessAccount(addr) == AccessCold {
		return params.ColdAccountAccessCostEIP2929 - params.WarmStorageReadCostEIP2929
	}
	return 0
}

// gasAccountCheck is the dynamic cost of BALANCE, EXTCODESIZE and
// EXTCODEHASH.
func gasAccountCheck(in *EVMInterpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return coldAccountSurcharge(in, common.Address(stack.peek().Bytes20())), nil
}

// gasSLoad charges the cold or warm read cost of the slot.
func gasSLoad(in *EVMInterpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	slot := common.Hash(stack.peek().Bytes32())
	if in.host.AccessStorage(contract.Address(), slot) == AccessCold {
		return params.ColdSloadCostEIP2929, nil
	}
	return params.WarmStorageReadCostEIP2929, nil
}

// gasExtCodeCopy is the copy cost of EXTCODECOPY plus the cold surcharge of
// the account read.
func gasExtCodeCopy(in *EVMInterpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryCopierGas(3)(in, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	var overflow bool
	if gas, overflow = math.SafeAdd(gas, coldAccountSurcharge(in, common.Address(stack.peek().Bytes20()))); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

// gasSelfdestruct charges the full cold access cost of the beneficiary, and
// the new account cost when the balance moves to an account that does not
// exist.
func gasSelfdestruct(in *EVMInterpreter, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	var (
		gas         uint64
		beneficiary = common.Address(stack.peek().Bytes20())
	)
	if in.host.AccessAccount(beneficiary) == AccessCold {
		gas = params.ColdAccountAccessCostEIP2929
	}
	// if empty and transfers value
	if !in.host.AccountExists(beneficiary) && in.host.GetBalance(contract.Address()).Sign() != 0 {
		gas += params.CreateBySelfdestructGas
	}
	return gas, nil
}

// sstoreCost returns the charge of a storage write that the host classified
// as status. The cold slot surcharge is added by the caller.
func sstoreCost(status StorageStatus) uint64 {
	switch status {
	case StorageAdded:
		return params.SstoreSetGasEIP2200
	case StorageModified, StorageDeleted:
		return params.SstoreResetGasEIP2200 - params.ColdSloadCostEIP2929
	default:
		// StorageUnchanged and StorageModifiedAgain only touch a warm slot.
		return params.WarmStorageReadCostEIP2929
	}
}
