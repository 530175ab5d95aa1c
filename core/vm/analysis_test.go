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

	"github.com/stretchr/testify/require"
)

func TestJumpDestAnalysis(t *testing.T) {
	// PUSH1 0x5B JUMPDEST: the first 0x5b is push data.
	code, err := Analyse([]byte{byte(PUSH1), byte(JUMPDEST), byte(JUMPDEST)})
	require.NoError(t, err)
	require.False(t, code.ValidJumpDest(0))
	require.False(t, code.ValidJumpDest(1))
	require.True(t, code.ValidJumpDest(2))
	require.False(t, code.ValidJumpDest(3))
	require.False(t, code.ValidJumpDest(1<<40))
}

func TestAnalysePushData(t *testing.T) {
	tests := []struct {
		code  []byte
		dests []uint64
	}{
		{[]byte{byte(PUSH32), 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, 0x5b, byte(JUMPDEST)}, []uint64{33}},
		{[]byte{byte(JUMPDEST), byte(PUSH2), 0x5b, 0x5b, byte(JUMPDEST)}, []uint64{0, 4}},
		{[]byte{byte(PUSH4), 0x5b}, nil},
	}
	for i, test := range tests {
		code, err := Analyse(test.code)
		require.NoError(t, err, "test %d", i)
		var got []uint64
		for pc := uint64(0); pc < uint64(len(test.code)); pc++ {
			if code.ValidJumpDest(pc) {
				got = append(got, pc)
			}
		}
		require.Equal(t, test.dests, got, "test %d", i)
	}
}

func TestAnalyseUndefinedInstruction(t *testing.T) {
	_, err := Analyse([]byte{byte(PUSH1), 0x0c, byte(STOP), 0x0c})
	var invalid *ErrInvalidOpCode
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, uint64(3), invalid.Offset())
	require.Equal(t, StatusUndefinedInstruction, StatusFromError(err))

	// INVALID is a defined instruction; it only fails when executed.
	_, err = Analyse([]byte{byte(INVALID)})
	require.NoError(t, err)
}

func TestBytecodeGetOp(t *testing.T) {
	code, err := Analyse([]byte{byte(ADD)})
	require.NoError(t, err)
	require.Equal(t, ADD, code.GetOp(0))
	require.Equal(t, STOP, code.GetOp(1))
	require.Equal(t, 1, code.Len())
}
