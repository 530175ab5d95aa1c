// Copyright 2021 The go-ethereum Authors
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
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestMemoryCost(t *testing.T) {
	require.Equal(t, uint64(0), MemoryCost(0))
	require.Equal(t, uint64(3), MemoryCost(1))
	require.Equal(t, uint64(3*32+32*32/512), MemoryCost(32))
	require.Equal(t, uint64(3*1024+1024*1024/512), MemoryCost(1024))
}

func TestMemoryGasCostIsDelta(t *testing.T) {
	mem := NewMemory()
	for words := uint64(1); words <= 100; words++ {
		fee, err := memoryGasCost(mem, words*32)
		require.NoError(t, err)
		require.Equal(t, MemoryCost(words)-MemoryCost(words-1), fee, "words %d", words)
		mem.Resize(words * 32)
	}
	// Touching memory that is already paid for is free.
	fee, err := memoryGasCost(mem, 64)
	require.NoError(t, err)
	require.Zero(t, fee)
}

func TestMemoryGasCostTooLarge(t *testing.T) {
	_, err := memoryGasCost(NewMemory(), 2*math.MaxUint32+1)
	require.ErrorIs(t, err, ErrOutOfGas)
}

func TestCalcMemSize(t *testing.T) {
	for i, tc := range []struct {
		off, size uint64
		big       bool
		want      uint64
		overflow  bool
	}{
		{off: 0, size: 0, want: 0},
		{off: math.MaxUint64, size: 0, want: 0},
		{off: 10, size: 32, want: 42},
		{off: math.MaxUint32, size: 1, want: math.MaxUint32 + 1},
		{off: math.MaxUint32 + 1, size: 1, overflow: true},
		{off: 0, size: math.MaxUint32 + 1, overflow: true},
		{off: 0, size: 1, big: true, overflow: true},
	} {
		off := new(uint256.Int).SetUint64(tc.off)
		if tc.big {
			off.Lsh(off.SetOne(), 100)
		}
		got, overflow := calcMemSize(off, new(uint256.Int).SetUint64(tc.size))
		require.Equal(t, tc.overflow, overflow, "case %d", i)
		if !tc.overflow {
			require.Equal(t, tc.want, got, "case %d", i)
		}
	}
}

func TestMemoryStoreLoad(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)
	mem.Set32(0, uint256.NewInt(0xdeadbeef))
	require.Equal(t, 32, mem.Len())
	got := new(uint256.Int).SetBytes(mem.GetPtr(0, 32))
	require.Equal(t, uint64(0xdeadbeef), got.Uint64())

	mem.Set(31, 1, []byte{0x01})
	require.Equal(t, byte(0x01), mem.Data()[31])
	require.Nil(t, mem.GetCopy(5, 0))
}

func TestGetData(t *testing.T) {
	data := []byte{1, 2, 3}
	require.Equal(t, []byte{2, 3, 0, 0}, getData(data, 1, 4))
	require.Equal(t, []byte{0, 0}, getData(data, 10, 2))
	require.Equal(t, []byte{0}, getData(data, math.MaxUint64, 1))
}
