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

package core

import (
	"fmt"
	"math"
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/params"
)

/*
The State Transitioning Model

A state transition is a change made when a transaction is applied to the current world state.

1) Nonce handling
2) Pre pay gas
3) Value transfer
== If contract creation ==

	3a) Attempt to run transaction data
	3b) If valid, use result as code for the new state object

== end ==
4) Run Script section
5) Refund unused gas and pay the coinbase
*/
type StateTransition struct {
	msg          Message
	gasPrice     *big.Int
	initialGas   uint64
	gasRemaining uint64
	value        *big.Int
	data         []byte
	state        *state.StateDB
	evm          *vm.EVM
	blockCtx     BlockContext
	chainID      *big.Int
}

// Message represents a message sent to a contract.
type Message interface {
	From() common.Address
	To() *common.Address

	GasPrice() *big.Int
	GasFeeCap() *big.Int
	GasTipCap() *big.Int
	Gas() uint64
	Value() *big.Int

	Nonce() uint64
	Data() []byte
	AccessList() types.AccessList
	Type() byte
	Hash() common.Hash
}

// ExecutionResult includes all output after executing given evm
// message no matter the execution itself is successful or not.
type ExecutionResult struct {
	UsedGas    uint64        // Total used gas, refunds already deducted
	Status     vm.StatusCode // Terminal status of the top level invocation
	ReturnData []byte        // Returned data from evm(function result or data supplied with revert opcode)
	// ContractAddress is the created account of a successful creation.
	ContractAddress *common.Address
}

// Failed returns the indicator whether the execution is successful or not
func (result *ExecutionResult) Failed() bool { return result.Status != vm.StatusSuccess }

// Return is a helper function to help caller distinguish between revert reason
// and function return. Return returns the data after execution if no error occurs.
func (result *ExecutionResult) Return() []byte {
	if result.Failed() {
		return nil
	}
	return common.CopyBytes(result.ReturnData)
}

// Revert returns the concrete revert reason if the execution is aborted by `REVERT`
// opcode. Note the reason can be nil if no data supplied with revert opcode.
func (result *ExecutionResult) Revert() []byte {
	if result.Status != vm.StatusRevert {
		return nil
	}
	return common.CopyBytes(result.ReturnData)
}

// IntrinsicGas computes the 'intrinsic gas' for a message with the given data.
func IntrinsicGas(data []byte, accessList types.AccessList, isContractCreation, isEIP3860 bool) (uint64, error) {
	// Set the starting gas for the raw transaction
	var gas uint64
	if isContractCreation {
		gas = params.TxGasContractCreation
	} else {
		gas = params.TxGas
	}
	dataLen := uint64(len(data))
	// Bump the required gas by the amount of transactional data
	if dataLen > 0 {
		// Zero and non-zero bytes are priced differently
		var nz uint64
		for _, byt := range data {
			if byt != 0 {
				nz++
			}
		}
		// Make sure we don't exceed uint64 for all data combinations
		if (math.MaxUint64-gas)/params.TxDataNonZeroGasEIP2028 < nz {
			return 0, ErrGasUintOverflow
		}
		gas += nz * params.TxDataNonZeroGasEIP2028

		z := dataLen - nz
		if (math.MaxUint64-gas)/params.TxDataZeroGas < z {
			return 0, ErrGasUintOverflow
		}
		gas += z * params.TxDataZeroGas

		if isContractCreation && isEIP3860 {
			lenWords := (dataLen + 31) / 32
			if (math.MaxUint64-gas)/params.InitCodeWordGas < lenWords {
				return 0, ErrGasUintOverflow
			}
			gas += lenWords * params.InitCodeWordGas
		}
	}
	if accessList != nil {
		gas += uint64(len(accessList)) * params.TxAccessListAddressGas
		gas += uint64(accessList.StorageKeys()) * params.TxAccessListStorageKeyGas
	}
	return gas, nil
}

// NewStateTransition initialises and returns a new state transition object.
func NewStateTransition(evm *vm.EVM, statedb *state.StateDB, blockCtx BlockContext, chainID *big.Int, msg Message) *StateTransition {
	return &StateTransition{
		evm:      evm,
		msg:      msg,
		gasPrice: msg.GasPrice(),
		value:    msg.Value(),
		data:     msg.Data(),
		state:    statedb,
		blockCtx: blockCtx,
		chainID:  chainID,
	}
}

// ApplyMessage computes the new state by applying the given message
// against the old state within the environment.
//
// ApplyMessage returns the bytes returned by any EVM execution (if it took place),
// the gas used (which includes gas refunds) and an error if it failed. An error always
// indicates a core error meaning that the message would always fail for that particular
// state and would never be accepted within a block.
func ApplyMessage(evm *vm.EVM, statedb *state.StateDB, blockCtx BlockContext, chainID *big.Int, msg Message) (*ExecutionResult, error) {
	return NewStateTransition(evm, statedb, blockCtx, chainID, msg).TransitionDb()
}

func (st *StateTransition) buyGas() error {
	mgval := new(big.Int).SetUint64(st.msg.Gas())
	mgval = mgval.Mul(mgval, st.gasPrice)
	balanceCheck := mgval
	if st.msg.GasFeeCap() != nil {
		balanceCheck = new(big.Int).SetUint64(st.msg.Gas())
		balanceCheck = balanceCheck.Mul(balanceCheck, st.msg.GasFeeCap())
		balanceCheck.Add(balanceCheck, st.value)
	}
	if have, want := st.state.GetBalance(st.msg.From()), balanceCheck; have.Cmp(want) < 0 {
		return fmt.Errorf("%w: address %v have %v want %v", ErrInsufficientFunds, st.msg.From().Hex(), have, want)
	}
	if st.blockCtx.GasLimit != 0 && st.msg.Gas() > st.blockCtx.GasLimit {
		return fmt.Errorf("%w: have %d, want %d", ErrGasLimitReached, st.blockCtx.GasLimit, st.msg.Gas())
	}
	st.gasRemaining += st.msg.Gas()

	st.initialGas = st.msg.Gas()
	st.state.SubBalance(st.msg.From(), mgval)
	return nil
}

func (st *StateTransition) preCheck() error {
	from := st.msg.From()
	// Make sure this transaction's nonce is correct.
	stNonce := st.state.GetNonce(from)
	if msgNonce := st.msg.Nonce(); stNonce < msgNonce {
		return fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooHigh,
			from.Hex(), msgNonce, stNonce)
	} else if stNonce > msgNonce {
		return fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooLow,
			from.Hex(), msgNonce, stNonce)
	} else if stNonce+1 < stNonce {
		return fmt.Errorf("%w: address %v, nonce: %d", ErrNonceMax,
			from.Hex(), stNonce)
	}
	// Make sure the sender is an EOA
	if codeHash := st.state.GetCodeHash(from); codeHash != types.EmptyCodeHash && codeHash != (common.Hash{}) {
		return fmt.Errorf("%w: address %v, codehash: %s", ErrSenderNoEOA,
			from.Hex(), codeHash)
	}
	// Sanity check the fee fields of dynamic fee transactions
	if st.msg.Type() == types.DynamicFeeTxType {
		if l := st.msg.GasFeeCap().BitLen(); l > 256 {
			return fmt.Errorf("%w: address %v, maxFeePerGas bit length: %d", ErrFeeCapVeryHigh,
				from.Hex(), l)
		}
		if l := st.msg.GasTipCap().BitLen(); l > 256 {
			return fmt.Errorf("%w: address %v, maxPriorityFeePerGas bit length: %d", ErrTipVeryHigh,
				from.Hex(), l)
		}
		if st.msg.GasFeeCap().Cmp(st.msg.GasTipCap()) < 0 {
			return fmt.Errorf("%w: address %v, maxPriorityFeePerGas: %s, maxFeePerGas: %s", ErrTipAboveFeeCap,
				from.Hex(), st.msg.GasTipCap(), st.msg.GasFeeCap())
		}
	}
	// Legacy and access list transactions report their gas price as fee cap.
	if baseFee := st.blockCtx.BaseFee; baseFee != nil && st.msg.GasFeeCap().Cmp(baseFee) < 0 {
		return fmt.Errorf("%w: address %v, maxFeePerGas: %s baseFee: %s", ErrFeeCapTooLow,
			from.Hex(), st.msg.GasFeeCap(), baseFee)
	}
	return st.buyGas()
}

// TransitionDb will transition the state by applying the current message and
// returning the evm execution result with following fields.
//
//   - used gas:
//     total gas used (refunds deducted)
//   - status:
//     the terminal status of the top level invocation, e.g.
//     vm.StatusOutOfGas or vm.StatusRevert
//   - returndata:
//     the returned data from evm
//
// However if any consensus issue encountered, return the error directly with
// nil evm execution result. The ledger is then left as it was.
func (st *StateTransition) TransitionDb() (*ExecutionResult, error) {
	// First check this message satisfies all consensus rules before
	// applying the message. The rules include these clauses
	//
	// 1. the nonce of the message caller is correct
	// 2. caller has enough balance to cover transaction fee(gaslimit * gasprice)
	// 3. the amount of gas required is available in the block
	// 4. the purchased gas is enough to cover intrinsic usage
	// 5. there is no overflow when calculating intrinsic gas
	// 6. caller has enough balance to cover asset transfer for **topmost** call
	snapshot := st.state.Snapshot()
	result, err := st.transition()
	if err != nil {
		st.state.RevertToSnapshot(snapshot)
		return nil, err
	}
	return result, nil
}

func (st *StateTransition) transition() (*ExecutionResult, error) {
	// Check clauses 1-3, buy gas if everything is correct
	if err := st.preCheck(); err != nil {
		return nil, err
	}
	var (
		msg              = st.msg
		from             = msg.From()
		contractCreation = msg.To() == nil
		isEIP3860        = st.evm.IsEIPEnabled(3860)
	)
	// Check clauses 4-5, subtract intrinsic gas if everything is correct
	gas, err := IntrinsicGas(st.data, msg.AccessList(), contractCreation, isEIP3860)
	if err != nil {
		return nil, err
	}
	if st.gasRemaining < gas {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrIntrinsicGas, st.gasRemaining, gas)
	}
	st.gasRemaining -= gas

	// Check clause 6
	if msg.Value().Sign() > 0 && st.state.GetBalance(from).Cmp(msg.Value()) < 0 {
		return nil, fmt.Errorf("%w: address %v", ErrInsufficientFundsForTransfer, from.Hex())
	}
	// Check whether the init code size has been exceeded.
	if isEIP3860 && contractCreation && len(st.data) > params.MaxInitCodeSize {
		return nil, fmt.Errorf("%w: code size %v limit %v", ErrMaxInitCodeSizeExceeded, len(st.data), params.MaxInitCodeSize)
	}

	// Set up the environment and the initial access list.
	txCtx := NewEVMTxContext(msg, st.blockCtx, st.chainID)
	st.state.Prepare(st.evm, txCtx, st.blockCtx.GetHash, msg.Hash(), from, msg.To(), msg.AccessList())

	call := &vm.Message{
		Gas:    st.gasRemaining,
		Sender: from,
		Input:  st.data,
		Value:  st.value,
	}
	if contractCreation {
		call.Kind = vm.Create
	} else {
		// Increment the nonce for the next transaction
		st.state.SetNonce(from, st.state.GetNonce(from)+1)
		call.Kind = vm.Call
		call.Recipient = *msg.To()
		call.CodeAddress = *msg.To()
	}
	out := st.state.Call(call)
	st.gasRemaining = out.GasLeft

	st.refundGas(params.RefundQuotientEIP3529)

	effectiveTip := st.gasPrice
	if baseFee := st.blockCtx.BaseFee; baseFee != nil {
		effectiveTip = new(big.Int).Sub(st.gasPrice, baseFee)
		if effectiveTip.Sign() < 0 {
			effectiveTip = new(big.Int)
		}
	}
	fee := new(big.Int).SetUint64(st.gasUsed())
	st.state.AddBalance(st.blockCtx.Coinbase, fee.Mul(fee, effectiveTip))

	return &ExecutionResult{
		UsedGas:         st.gasUsed(),
		Status:          out.Status,
		ReturnData:      out.Output,
		ContractAddress: out.CreatedAddress,
	}, nil
}

func (st *StateTransition) refundGas(refundQuotient uint64) {
	// Apply refund counter, capped to a refund quotient
	refund := st.gasUsed() / refundQuotient
	if refund > st.state.GetRefund() {
		refund = st.state.GetRefund()
	}
	st.gasRemaining += refund

	// Return ETH for remaining gas, exchanged at the original rate.
	remaining := new(big.Int).Mul(new(big.Int).SetUint64(st.gasRemaining), st.gasPrice)
	st.state.AddBalance(st.msg.From(), remaining)
}

// gasUsed returns the amount of gas used up by the state transition.
func (st *StateTransition) gasUsed() uint64 {
	return st.initialGas - st.gasRemaining
}
