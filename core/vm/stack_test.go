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
package vm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestStackLimit(t *testing.T) {
	st := NewStack()
	for i := 0; i < 1024; i++ {
		require.NoError(t, st.Push(uint256.NewInt(uint64(i))))
	}
	require.Equal(t, 1024, st.Len())

	err := st.Push(uint256.NewInt(1))
	var overflow *ErrStackOverflow
	require.ErrorAs(t, err, &overflow)
	require.Equal(t, StatusStackOverflow, StatusFromError(err))
	require.Equal(t, 1024, st.Len())
}

func TestStackPopEmpty(t *testing.T) {
	st := NewStack()
	_, err := st.Pop()
	var underflow *ErrStackUnderflow
	require.ErrorAs(t, err, &underflow)
	require.Equal(t, StatusStackUnderflow, StatusFromError(err))
}

func TestStackTopRelative(t *testing.T) {
	st := NewStack()
	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, st.Push(uint256.NewInt(i)))
	}
	top, err := st.Get(0)
	require.NoError(t, err)
	require.Equal(t, uint64(3), top.Uint64())

	bottom, err := st.Get(2)
	require.NoError(t, err)
	require.Equal(t, uint64(1), bottom.Uint64())

	_, err = st.Get(3)
	require.Error(t, err)

	// Get aliases the slot
	top.SetUint64(30)
	require.Equal(t, uint64(30), st.Back(0).Uint64())

	require.NoError(t, st.SwapTop(2))
	require.Equal(t, uint64(1), st.Back(0).Uint64())
	require.Equal(t, uint64(30), st.Back(2).Uint64())
	require.Error(t, st.SwapTop(3))
	require.Error(t, st.SwapTop(0))

	v, err := st.Pop()
	require.NoError(t, err)
	require.Equal(t, uint64(1), v.Uint64())
	require.Equal(t, 2, st.Len())
}
