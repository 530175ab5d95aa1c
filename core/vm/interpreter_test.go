// Copyright 2019 The go-ethereum Authors
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
package vm_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/core/vm/mocks"
	"github.com/dominant-strategies/quai-evm/core/vm/vmtest"
	"github.com/dominant-strategies/quai-evm/crypto"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

var (
	sender   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	contract = common.HexToAddress("0x2000000000000000000000000000000000000002")
	callee   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func program(parts ...interface{}) []byte {
	var code []byte
	for _, p := range parts {
		switch v := p.(type) {
		case vm.OpCode:
			code = append(code, byte(v))
		case byte:
			code = append(code, v)
		case int:
			code = append(code, byte(v))
		case []byte:
			code = append(code, v...)
		}
	}
	return code
}

// returnTop stores the top of the stack at memory 0 and returns that word.
func returnTop() []byte {
	return program(vm.PUSH1, 0, vm.MSTORE, vm.PUSH1, 32, vm.PUSH1, 0, vm.RETURN)
}

func newEVM() *vm.EVM {
	return vm.NewEVM(vm.Config{Logger: log.NewNullLogger()})
}

func newHost() *vmtest.Host {
	return vmtest.New(newEVM())
}

func callMsg(gas uint64) *vm.Message {
	return &vm.Message{
		Kind:        vm.Call,
		Gas:         gas,
		Recipient:   contract,
		Sender:      sender,
		CodeAddress: contract,
		Value:       new(big.Int),
	}
}

func execute(t *testing.T, host vm.Host, code []byte, gas uint64) *vm.Output {
	t.Helper()
	return newEVM().Execute(host, callMsg(gas), code)
}

func TestHelloReturn(t *testing.T) {
	var code []byte
	for i, c := range []byte("hello") {
		code = append(code, program(vm.PUSH1, c, vm.PUSH1, i, vm.MSTORE8)...)
	}
	code = append(code, program(vm.PUSH1, 5, vm.PUSH1, 0, vm.RETURN)...)

	out := execute(t, newHost(), code, 100000)
	require.Equal(t, vm.StatusSuccess, out.Status)
	require.Equal(t, []byte("hello"), out.Output)
	require.False(t, out.Reverted)
	require.Nil(t, out.CreatedAddress)
	// 5 x (3 + 3 + 3) for the stores, 3 for the first memory word, 3 + 3 to return.
	require.Equal(t, uint64(100000-45-3-6), out.GasLeft)
}

func TestRevertKeepsGas(t *testing.T) {
	code := program(vm.PUSH1, 0x2a, vm.PUSH1, 0, vm.MSTORE8, vm.PUSH1, 1, vm.PUSH1, 0, vm.REVERT)
	out := execute(t, newHost(), code, 100000)
	require.Equal(t, vm.StatusRevert, out.Status)
	require.True(t, out.Reverted)
	require.Equal(t, []byte{0x2a}, out.Output)
	require.Equal(t, uint64(100000-3-3-3-3-3-3), out.GasLeft)
}

func TestStopAndEndOfCode(t *testing.T) {
	for _, code := range [][]byte{
		nil,
		program(vm.STOP),
		program(vm.PUSH1, 1, vm.PUSH1, 2, vm.ADD),
	} {
		out := execute(t, newHost(), code, 1000)
		require.Equal(t, vm.StatusSuccess, out.Status)
		require.Empty(t, out.Output)
	}
	out := execute(t, newHost(), program(vm.PUSH1, 1, vm.PUSH1, 2, vm.ADD), 1000)
	require.Equal(t, uint64(1000-9), out.GasLeft)
}

func TestFailuresConsumeAllGas(t *testing.T) {
	for _, tc := range []struct {
		name string
		code []byte
		gas  uint64
		want vm.StatusCode
	}{
		{"invalid", program(vm.INVALID), 1000, vm.StatusInvalidInstruction},
		{"undefined", program(vm.PUSH1, 1, 0x0c), 1000, vm.StatusUndefinedInstruction},
		{"bad jump", program(vm.PUSH1, 3, vm.JUMP, vm.STOP), 1000, vm.StatusBadJumpDestination},
		{"jump into push data", program(vm.PUSH1, 4, vm.JUMP, vm.PUSH1, vm.JUMPDEST), 1000, vm.StatusBadJumpDestination},
		{"underflow", program(vm.ADD), 1000, vm.StatusStackUnderflow},
		{"out of gas", program(vm.PUSH1, 1, vm.PUSH1, 2), 5, vm.StatusOutOfGas},
		{"memory beyond 32 bits", program(vm.PUSH5, []byte{1, 0, 0, 0, 0}, vm.MLOAD), 1000000, vm.StatusOutOfGas},
		{"return data out of bounds", program(vm.PUSH1, 1, vm.PUSH1, 0, vm.PUSH1, 0, vm.RETURNDATACOPY), 1000, vm.StatusInvalidMemoryAccess},
	} {
		out := execute(t, newHost(), tc.code, tc.gas)
		require.Equal(t, tc.want, out.Status, tc.name)
		require.Zero(t, out.GasLeft, tc.name)
		require.Empty(t, out.Output, tc.name)
		require.False(t, out.Reverted, tc.name)
	}
}

func TestJumps(t *testing.T) {
	// JUMPI with a zero condition falls through to STOP.
	code := program(vm.PUSH1, 4, vm.JUMP, vm.INVALID, vm.JUMPDEST, vm.PUSH1, 0, vm.PUSH1, 3, vm.JUMPI, vm.STOP)
	out := execute(t, newHost(), code, 1000)
	require.Equal(t, vm.StatusSuccess, out.Status)
}

func TestStackOverflow(t *testing.T) {
	var code []byte
	for i := 0; i < 1025; i++ {
		code = append(code, byte(vm.PC))
	}
	out := execute(t, newHost(), code, 1000000)
	require.Equal(t, vm.StatusStackOverflow, out.Status)

	out = execute(t, newHost(), code[:1024], 1000000)
	require.Equal(t, vm.StatusSuccess, out.Status)
}

func TestCallDepthExceeded(t *testing.T) {
	msg := callMsg(5000)
	msg.Depth = 1025
	out := newEVM().Execute(newHost(), msg, program(vm.STOP))
	require.Equal(t, vm.StatusCallDepthExceeded, out.Status)
	require.Equal(t, uint64(5000), out.GasLeft)
}

func TestSstoreGas(t *testing.T) {
	host := newHost()
	code := program(vm.PUSH1, 1, vm.PUSH1, 0, vm.SSTORE, vm.PUSH1, 2, vm.PUSH1, 0, vm.SSTORE)
	out := execute(t, host, code, 100000)
	require.Equal(t, vm.StatusSuccess, out.Status)
	// cold 0 -> 1 then warm 1 -> 2 on a dirty slot
	require.Equal(t, uint64(100000-6-2100-20000-6-100), out.GasLeft)
	require.Equal(t, common.BigToHash(big.NewInt(2)), host.GetStorage(contract, common.Hash{}))

	// The sentry leaves at least 2300 gas for the caller.
	out = execute(t, newHost(), program(vm.PUSH1, 1, vm.PUSH1, 0, vm.SSTORE), 2306)
	require.Equal(t, vm.StatusOutOfGas, out.Status)
}

func TestStaticModeViolation(t *testing.T) {
	msg := callMsg(100000)
	msg.Static = true
	for _, code := range [][]byte{
		program(vm.PUSH1, 1, vm.PUSH1, 0, vm.SSTORE),
		program(vm.PUSH1, 0, vm.PUSH1, 0, vm.LOG0),
		program(vm.PUSH1, 0, vm.PUSH1, 0, vm.PUSH1, 0, vm.CREATE),
		program(vm.PUSH1, 0, vm.SELFDESTRUCT),
	} {
		out := newEVM().Execute(newHost(), msg, code)
		require.Equal(t, vm.StatusStaticModeViolation, out.Status)
	}
}

func TestNestedCall(t *testing.T) {
	host := newHost()
	host.Deploy(callee, append(program(vm.PUSH1, 0x2a), returnTop()...))
	host.Deploy(contract, program(
		// CALL(gas, callee, 0, 0, 0, 0, 32)
		vm.PUSH1, 32, vm.PUSH1, 0, vm.PUSH1, 0, vm.PUSH1, 0, vm.PUSH1, 0,
		vm.PUSH20, callee.Bytes(), vm.GAS, vm.CALL,
		// return the success flag added to the copied word
		vm.PUSH1, 0, vm.MLOAD, vm.ADD, returnTop(),
	))
	out := host.Call(callMsg(100000))
	require.Equal(t, vm.StatusSuccess, out.Status)
	require.Equal(t, common.BigToHash(big.NewInt(0x2b)).Bytes(), out.Output)
	require.Len(t, host.Calls, 2)
	require.Equal(t, 1, host.Calls[1].Depth)
	require.Equal(t, contract, host.Calls[1].Sender)
}

func TestFailedNestedCallPushesZero(t *testing.T) {
	host := newHost()
	host.Deploy(callee, program(vm.PUSH1, 1, vm.PUSH1, 0, vm.SSTORE, vm.INVALID))
	host.Deploy(contract, program(
		vm.PUSH1, 0, vm.PUSH1, 0, vm.PUSH1, 0, vm.PUSH1, 0, vm.PUSH1, 0,
		vm.PUSH20, callee.Bytes(), vm.GAS, vm.CALL, returnTop(),
	))
	out := host.Call(callMsg(100000))
	require.Equal(t, vm.StatusSuccess, out.Status)
	require.Equal(t, common.Hash{}.Bytes(), out.Output)
	// the callee's write was rolled back
	require.Equal(t, common.Hash{}, host.GetStorage(callee, common.Hash{}))
}

func TestCreate(t *testing.T) {
	host := newHost()
	// init code returning the one byte runtime code 0x00
	initCode := program(vm.PUSH1, 1, vm.PUSH1, 0, vm.RETURN)
	var code []byte
	// store init code at memory 0
	code = append(code, program(vm.PUSH5, initCode, vm.PUSH1, 0, vm.MSTORE)...)
	// CREATE(value 0, offset 27, size 5)
	code = append(code, program(vm.PUSH1, len(initCode), vm.PUSH1, 32-len(initCode), vm.PUSH1, 0, vm.CREATE)...)
	code = append(code, returnTop()...)
	host.Deploy(contract, code)

	out := host.Call(callMsg(200000))
	require.Equal(t, vm.StatusSuccess, out.Status)
	created := crypto.CreateAddress(contract, 0)
	require.Equal(t, common.BytesToHash(created.Bytes()).Bytes(), out.Output)
	require.Equal(t, []byte{0}, host.Account(created).Code)
	require.Equal(t, uint64(1), host.Account(created).Nonce)
}

func TestCreate2(t *testing.T) {
	tracer := vm.NewStructLogger(nil)
	evm := vm.NewEVM(vm.Config{Debug: true, Tracer: tracer, Logger: log.NewNullLogger()})
	host := vmtest.New(evm)

	// init code returning the one byte runtime code 0x00
	initCode := program(vm.PUSH1, 1, vm.PUSH1, 0, vm.RETURN)
	create2 := program(
		// CREATE2(value 0, offset 27, size 5, salt 0x2a)
		vm.PUSH1, 0x2a, vm.PUSH1, len(initCode), vm.PUSH1, 32-len(initCode), vm.PUSH1, 0, vm.CREATE2,
	)
	var code []byte
	code = append(code, program(vm.PUSH5, initCode, vm.PUSH1, 0, vm.MSTORE)...)
	code = append(code, create2...)
	code = append(code, program(vm.PUSH1, 32, vm.MSTORE)...)
	// the same salt and init code again
	code = append(code, create2...)
	code = append(code, program(vm.PUSH1, 64, vm.MSTORE, vm.PUSH1, 64, vm.PUSH1, 32, vm.RETURN)...)

	out := evm.Execute(host, callMsg(1000000), code)
	require.Equal(t, vm.StatusSuccess, out.Status)

	salt := common.BigToHash(big.NewInt(0x2a))
	created := crypto.CreateAddress2(contract, salt, crypto.Keccak256(initCode))
	require.Equal(t, common.BytesToHash(created.Bytes()).Bytes(), out.Output[:32])
	require.Equal(t, common.Hash{}.Bytes(), out.Output[32:], "colliding CREATE2 pushes zero")
	require.Equal(t, []byte{0}, host.Account(created).Code)

	require.Len(t, host.Calls, 2)
	require.Equal(t, vm.Create2, host.Calls[1].Kind)
	require.Equal(t, salt, host.Calls[1].Salt)

	// Both CREATE2 steps pay the base cost plus one word of init code hashing;
	// memory is already expanded by the MSTORE.
	var costs []uint64
	for _, entry := range tracer.StructLogs() {
		if entry.Op == vm.CREATE2 {
			costs = append(costs, entry.GasCost)
		}
	}
	require.Equal(t, []uint64{params.Create2Gas + params.Keccak256WordGas, params.Create2Gas + params.Keccak256WordGas}, costs)
}

func TestExtraEips(t *testing.T) {
	evm := vm.NewEVM(vm.Config{Logger: log.NewNullLogger(), ExtraEips: []int{3860, 3855}})
	require.True(t, evm.IsEIPEnabled(3860))
	require.False(t, evm.IsEIPEnabled(3855))
	require.False(t, newEVM().IsEIPEnabled(3860))

	// PUSH0 stays undefined
	out := evm.Execute(newHost(), callMsg(1000), []byte{0x5f})
	require.Equal(t, vm.StatusUndefinedInstruction, out.Status)
}

func TestLogs(t *testing.T) {
	host := newHost()
	code := program(vm.PUSH1, 0xaa, vm.PUSH1, 0, vm.MSTORE8, vm.PUSH1, 7, vm.PUSH1, 1, vm.PUSH1, 0, vm.LOG1)
	out := execute(t, host, code, 100000)
	require.Equal(t, vm.StatusSuccess, out.Status)
	require.Len(t, host.Logs(), 1)
	entry := host.Logs()[0]
	require.Equal(t, contract, entry.Address)
	require.Equal(t, []byte{0xaa}, entry.Data)
	require.Equal(t, []common.Hash{common.BigToHash(big.NewInt(7))}, entry.Topics)
}

func TestHostQueriesThroughMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)

	host.EXPECT().AccessAccount(callee).Return(vm.AccessCold)
	host.EXPECT().GetBalance(callee).Return(big.NewInt(42))

	code := append(program(vm.PUSH20, callee.Bytes(), vm.BALANCE), returnTop()...)
	out := execute(t, host, code, 100000)
	require.Equal(t, vm.StatusSuccess, out.Status)
	require.Equal(t, common.BigToHash(big.NewInt(42)).Bytes(), out.Output)
	// PUSH20, BALANCE warm cost plus the cold surcharge, then the return sequence.
	require.Equal(t, uint64(100000-3-2600-3-3-3-3-3), out.GasLeft)
}

func TestBlockHashWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)
	hash := common.HexToHash("0xabcdef")

	host.EXPECT().GetTxContext().Return(vm.TxContext{BlockNumber: 300}).AnyTimes()
	host.EXPECT().GetBlockHash(uint64(299)).Return(hash)

	for number, want := range map[int]common.Hash{
		299: hash,
		300: {},
		43:  {},
	} {
		code := append(program(vm.PUSH2, []byte{byte(number >> 8), byte(number)}, vm.BLOCKHASH), returnTop()...)
		out := execute(t, host, code, 100000)
		require.Equal(t, vm.StatusSuccess, out.Status)
		require.Equal(t, want.Bytes(), out.Output, "block %d", number)
	}
}

func TestExtCodeHashOfMissingAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockHost(ctrl)

	host.EXPECT().AccessAccount(callee).Return(vm.AccessWarm)
	host.EXPECT().AccountExists(callee).Return(false)

	code := append(program(vm.PUSH20, callee.Bytes(), vm.EXTCODEHASH), returnTop()...)
	out := execute(t, host, code, 100000)
	require.Equal(t, vm.StatusSuccess, out.Status)
	require.Equal(t, common.Hash{}.Bytes(), out.Output)
}

func TestStructLogger(t *testing.T) {
	tracer := vm.NewStructLogger(nil)
	evm := vm.NewEVM(vm.Config{Debug: true, Tracer: tracer, Logger: log.NewNullLogger()})
	out := evm.Execute(newHost(), callMsg(1000), program(vm.PUSH1, 1, vm.PUSH1, 2, vm.ADD, vm.STOP))
	require.Equal(t, vm.StatusSuccess, out.Status)

	logs := tracer.StructLogs()
	require.Len(t, logs, 4)
	require.Equal(t, vm.ADD, logs[2].Op)
	require.Equal(t, uint64(3), logs[2].GasCost)
	require.Equal(t, uint64(9), tracer.GasUsed())
}
