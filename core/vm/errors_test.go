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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want StatusCode
	}{
		{nil, StatusSuccess},
		{ErrExecutionReverted, StatusRevert},
		{ErrOutOfGas, StatusOutOfGas},
		{fmt.Errorf("%w: %v", ErrOutOfGas, ErrGasUintOverflow), StatusOutOfGas},
		{&ErrStackUnderflow{stackLen: 0, required: 2}, StatusStackUnderflow},
		{&ErrStackOverflow{stackLen: 1024, limit: 1023}, StatusStackOverflow},
		{&ErrInvalidOpCode{opcode: 0x0c}, StatusUndefinedInstruction},
		{ErrInvalidInstruction, StatusInvalidInstruction},
		{ErrInvalidJump, StatusBadJumpDestination},
		{ErrReturnDataOutOfBounds, StatusInvalidMemoryAccess},
		{ErrDepth, StatusCallDepthExceeded},
		{ErrWriteProtection, StatusStaticModeViolation},
		{ErrPrecompileFailure, StatusPrecompileFailure},
		{ErrMaxCodeSizeExceeded, StatusContractValidationFailure},
		{ErrInsufficientBalance, StatusInsufficientBalance},
		{ErrContractAddressCollision, StatusFailure},
		{fmt.Errorf("boom"), StatusInternalError},
	} {
		require.Equal(t, tc.want, StatusFromError(tc.err), "%v", tc.err)
	}
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "revert", StatusRevert.String())
	require.Equal(t, "status 99", StatusCode(99).String())
}
