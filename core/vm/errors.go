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
	"errors"
	"fmt"
)

// List evm execution errors
var (
	ErrOutOfGas                 = errors.New("out of gas")
	ErrCodeStoreOutOfGas        = errors.New("contract creation code storage out of gas")
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrExecutionReverted        = errors.New("execution reverted")
	ErrMaxCodeSizeExceeded      = errors.New("max code size exceeded")
	ErrInvalidJump              = errors.New("invalid jump destination")
	ErrWriteProtection          = errors.New("write protection")
	ErrReturnDataOutOfBounds    = errors.New("return data out of bounds")
	ErrGasUintOverflow          = errors.New("gas uint64 overflow")
	ErrInvalidInstruction       = errors.New("invalid instruction")
	ErrPrecompileFailure        = errors.New("precompile failure")
	ErrNonceUintOverflow        = errors.New("nonce uint64 overflow")
)

// ErrStackUnderflow wraps an evm error when the items on the stack less
// than the minimal requirement.
type ErrStackUnderflow struct {
	stackLen int
	required int
}

func (e *ErrStackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow (%d <=> %d)", e.stackLen, e.required)
}

// ErrStackOverflow wraps an evm error when the items on the stack exceeds
// the maximum allowance.
type ErrStackOverflow struct {
	stackLen int
	limit    int
}

func (e *ErrStackOverflow) Error() string {
	return fmt.Sprintf("stack limit reached %d (%d)", e.stackLen, e.limit)
}

// ErrInvalidOpCode wraps an evm error when an undefined opcode is encountered,
// either while loading the code or while executing it.
type ErrInvalidOpCode struct {
	opcode OpCode
	offset uint64
}

func (e *ErrInvalidOpCode) Error() string {
	return fmt.Sprintf("undefined instruction: opcode %#x at offset %d", int(e.opcode), e.offset)
}

// Offset returns the code offset of the undefined byte.
func (e *ErrInvalidOpCode) Offset() uint64 { return e.offset }

// StatusCode is the terminal classification of one invocation.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusFailure
	StatusRevert
	StatusOutOfGas
	StatusInvalidInstruction
	StatusUndefinedInstruction
	StatusStackOverflow
	StatusStackUnderflow
	StatusBadJumpDestination
	StatusInvalidMemoryAccess
	StatusCallDepthExceeded
	StatusStaticModeViolation
	StatusPrecompileFailure
	StatusContractValidationFailure
	StatusArgumentOutOfRange
	StatusInsufficientBalance
	StatusInternalError
)

var statusCodeToString = map[StatusCode]string{
	StatusSuccess:                   "success",
	StatusFailure:                   "failure",
	StatusRevert:                    "revert",
	StatusOutOfGas:                  "out of gas",
	StatusInvalidInstruction:        "invalid instruction",
	StatusUndefinedInstruction:      "undefined instruction",
	StatusStackOverflow:             "stack overflow",
	StatusStackUnderflow:            "stack underflow",
	StatusBadJumpDestination:        "bad jump destination",
	StatusInvalidMemoryAccess:       "invalid memory access",
	StatusCallDepthExceeded:         "call depth exceeded",
	StatusStaticModeViolation:       "static mode violation",
	StatusPrecompileFailure:         "precompile failure",
	StatusContractValidationFailure: "contract validation failure",
	StatusArgumentOutOfRange:        "argument out of range",
	StatusInsufficientBalance:       "insufficient balance",
	StatusInternalError:             "internal error",
}

func (s StatusCode) String() string {
	if str, ok := statusCodeToString[s]; ok {
		return str
	}
	return fmt.Sprintf("status %d", int(s))
}

// StatusFromError classifies an execution error.
func StatusFromError(err error) StatusCode {
	var (
		underflow *ErrStackUnderflow
		overflow  *ErrStackOverflow
		invalidOp *ErrInvalidOpCode
	)
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrExecutionReverted):
		return StatusRevert
	case errors.Is(err, ErrOutOfGas), errors.Is(err, ErrCodeStoreOutOfGas), errors.Is(err, ErrGasUintOverflow):
		return StatusOutOfGas
	case errors.As(err, &underflow):
		return StatusStackUnderflow
	case errors.As(err, &overflow):
		return StatusStackOverflow
	case errors.As(err, &invalidOp):
		return StatusUndefinedInstruction
	case errors.Is(err, ErrInvalidInstruction):
		return StatusInvalidInstruction
	case errors.Is(err, ErrInvalidJump):
		return StatusBadJumpDestination
	case errors.Is(err, ErrReturnDataOutOfBounds):
		return StatusInvalidMemoryAccess
	case errors.Is(err, ErrDepth):
		return StatusCallDepthExceeded
	case errors.Is(err, ErrWriteProtection):
		return StatusStaticModeViolation
	case errors.Is(err, ErrPrecompileFailure):
		return StatusPrecompileFailure
	case errors.Is(err, ErrMaxCodeSizeExceeded):
		return StatusContractValidationFailure
	case errors.Is(err, ErrInsufficientBalance):
		return StatusInsufficientBalance
	case errors.Is(err, ErrContractAddressCollision), errors.Is(err, ErrNonceUintOverflow):
		return StatusFailure
	}
	return StatusInternalError
}
