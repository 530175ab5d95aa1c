// Copyright 2017 The go-ethereum Authors
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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/log"
)

type TwoOperandTestcase struct {
	X        string
	Y        string
	Expected string
}

const (
	minInt   = "8000000000000000000000000000000000000000000000000000000000000000"
	minusOne = "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	maxInt   = "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
)

func newTestInterpreter() *EVMInterpreter {
	evm := NewEVM(Config{Logger: log.NewNullLogger()})
	return newInterpreter(evm, nil, &Message{})
}

func testTwoOperandOp(t *testing.T, tests []TwoOperandTestcase, opFn executionFunc, name string) {
	var (
		interpreter = newTestInterpreter()
		stack       = newstack()
		pc          = uint64(0)
	)
	for i, test := range tests {
		x := new(uint256.Int).SetBytes(common.Hex2Bytes(test.X))
		y := new(uint256.Int).SetBytes(common.Hex2Bytes(test.Y))
		expected := new(uint256.Int).SetBytes(common.Hex2Bytes(test.Expected))
		stack.push(x)
		stack.push(y)
		opFn(&pc, interpreter, &ScopeContext{nil, stack, nil})
		require.Equal(t, 1, stack.len(), "%s %d: stack size", name, i)
		actual := stack.pop()
		require.True(t, actual.Eq(expected), "%s %d: %x %x: expected %x, got %x", name, i, x, y, expected, &actual)
	}
}

func TestByteOp(t *testing.T) {
	tests := []TwoOperandTestcase{
		{"ABCDEF0908070605040302010000000000000000000000000000000000000000", "00", "AB"},
		{"ABCDEF0908070605040302010000000000000000000000000000000000000000", "01", "CD"},
		{"00CDEF090807060504030201ffffffffffffffffffffffffffffffffffffffff", "00", "00"},
		{"00CDEF090807060504030201ffffffffffffffffffffffffffffffffffffffff", "01", "CD"},
		{"0000000000000000000000000000000000000000000000000000000000102030", "1F", "30"},
		{"0000000000000000000000000000000000000000000000000000000000102030", "1E", "20"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "20", "00"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "FFFFFFFFFFFFFFFF", "00"},
	}
	testTwoOperandOp(t, tests, opByte, "byte")
}

func TestAddWraps(t *testing.T) {
	tests := []TwoOperandTestcase{
		{"01", "02", "03"},
		{minusOne, "01", "00"},
		{maxInt, "01", minInt},
		{minusOne, minusOne, "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
	}
	testTwoOperandOp(t, tests, opAdd, "add")

	// ADD is commutative.
	swapped := make([]TwoOperandTestcase, len(tests))
	for i, test := range tests {
		swapped[i] = TwoOperandTestcase{test.Y, test.X, test.Expected}
	}
	testTwoOperandOp(t, swapped, opAdd, "add swapped")
}

func TestDivisionByZero(t *testing.T) {
	tests := []TwoOperandTestcase{
		{"00", "05", "00"},
		{"00", minusOne, "00"},
	}
	// The divisor is the value pushed first (Y sits below X after the pushes
	// in testTwoOperandOp, and the handlers pop X first).
	for _, op := range []struct {
		fn   executionFunc
		name string
	}{{opDiv, "div"}, {opMod, "mod"}, {opSdiv, "sdiv"}, {opSmod, "smod"}} {
		testTwoOperandOp(t, tests, op.fn, op.name)
	}
}

func TestSdiv(t *testing.T) {
	tests := []TwoOperandTestcase{
		// SDIV(MIN, -1) overflows back to MIN.
		{minusOne, minInt, minInt},
		// SDIV(100, -1) = -100
		{minusOne, "64", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff9c"},
		{"02", "0a", "05"},
	}
	testTwoOperandOp(t, tests, opSdiv, "sdiv")
}

func TestSAR(t *testing.T) {
	tests := []TwoOperandTestcase{
		{"0000000000000000000000000000000000000000000000000000000000000001", "00", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"0000000000000000000000000000000000000000000000000000000000000001", "01", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "01", "c000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "ff", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "0100", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "0100", "0000000000000000000000000000000000000000000000000000000000000000"},
	}
	testTwoOperandOp(t, tests, opSAR, "sar")
}

func TestSignExtend(t *testing.T) {
	tests := []TwoOperandTestcase{
		{"ff", "00", minusOne},
		{"7f", "00", "7f"},
		{"ff7f", "00", "7f"},
		{"8000", "01", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff8000"},
		// a >= 31 leaves the value untouched
		{"ff", "1f", "ff"},
		{"ff", "20", "ff"},
	}
	testTwoOperandOp(t, tests, opSignExtend, "signextend")
}

func TestAddModMulModByZero(t *testing.T) {
	var (
		interpreter = newTestInterpreter()
		pc          = uint64(0)
	)
	for _, op := range []executionFunc{opAddmod, opMulmod} {
		stack := newstack()
		stack.push(uint256.NewInt(0)) // modulus
		stack.push(uint256.NewInt(7))
		stack.push(uint256.NewInt(9))
		_, err := op(&pc, interpreter, &ScopeContext{nil, stack, nil})
		require.NoError(t, err)
		result := stack.pop()
		require.True(t, result.IsZero())
	}
}

func TestAddModWidens(t *testing.T) {
	var (
		interpreter = newTestInterpreter()
		pc          = uint64(0)
		stack       = newstack()
		max         = new(uint256.Int).SetAllOne()
	)
	// (2^256-1 + 2^256-1) mod 10 computed over 512 bits = 0
	stack.push(uint256.NewInt(10))
	stack.push(max)
	stack.push(max)
	opAddmod(&pc, interpreter, &ScopeContext{nil, stack, nil})
	result := stack.pop()
	require.Equal(t, uint64(0), result.Uint64())

	// (2^256-1)^2 mod 12 = 9
	stack.push(uint256.NewInt(12))
	stack.push(max)
	stack.push(max)
	opMulmod(&pc, interpreter, &ScopeContext{nil, stack, nil})
	result = stack.pop()
	require.Equal(t, uint64(9), result.Uint64())
}

func TestOpMstore(t *testing.T) {
	var (
		interpreter = newTestInterpreter()
		stack       = newstack()
		mem         = NewMemory()
	)
	mem.Resize(64)
	pc := uint64(0)
	v := "abcdef00000000000000abba000000000deaf000000c0de00100000000133700"
	stack.push(new(uint256.Int).SetBytes(common.Hex2Bytes(v)))
	stack.push(new(uint256.Int))
	opMstore(&pc, interpreter, &ScopeContext{mem, stack, nil})
	require.Equal(t, v, common.Bytes2Hex(mem.GetCopy(0, 32)))

	stack.push(new(uint256.Int).SetUint64(0x1))
	stack.push(new(uint256.Int))
	opMstore(&pc, interpreter, &ScopeContext{mem, stack, nil})
	require.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", common.Bytes2Hex(mem.GetCopy(0, 32)))

	stack.push(new(uint256.Int))
	opMload(&pc, interpreter, &ScopeContext{mem, stack, nil})
	loaded := stack.pop()
	require.Equal(t, uint64(1), loaded.Uint64())
}

func TestPushTruncated(t *testing.T) {
	code, err := Analyse([]byte{byte(PUSH3), 0xaa})
	require.NoError(t, err)
	var (
		interpreter = newTestInterpreter()
		stack       = newstack()
		pc          = uint64(0)
		contract    = &Contract{Code: code}
	)
	makePush(3, 3)(&pc, interpreter, &ScopeContext{nil, stack, contract})
	result := stack.pop()
	require.Equal(t, uint64(0xaa0000), result.Uint64())
	require.Equal(t, uint64(3), pc)
}

func TestJumpTableTraits(t *testing.T) {
	table := NewInstructionSet()
	defined := 0
	for i := 0; i < 256; i++ {
		op := OpCode(i)
		traits, ok := table.Traits(op)
		require.Equal(t, op.Defined(), ok, "opcode %v", op)
		if !ok {
			continue
		}
		defined++
		require.Equal(t, op.String(), traits.Name)
	}
	require.Equal(t, 143, defined)

	traits, _ := table.Traits(ADD)
	require.Equal(t, OpTraits{Name: "ADD", Gas: 3, Required: 2, Change: -1}, traits)
	traits, _ = table.Traits(PUSH32)
	require.Equal(t, OpTraits{Name: "PUSH32", Gas: 3, Required: 0, Change: 1}, traits)
	traits, _ = table.Traits(DUP16)
	require.Equal(t, 16, traits.Required)
	require.Equal(t, 1, traits.Change)
	traits, _ = table.Traits(SWAP16)
	require.Equal(t, 17, traits.Required)
	require.Equal(t, 0, traits.Change)
	traits, _ = table.Traits(CALL)
	require.Equal(t, 7, traits.Required)
	require.Equal(t, -6, traits.Change)

	_, ok := table.Traits(OpCode(0x0c))
	require.False(t, ok)
}
