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

// bitvec is a bit vector which maps bytes in a program.
// An unset bit means the byte is not a valid jump destination.
type bitvec []byte

func (bits bitvec) set1(pos uint64) {
	bits[pos/8] |= 1 << (pos % 8)
}

// isSet checks if the position is in a valid jump destination.
func (bits bitvec) isSet(pos uint64) bool {
	return ((bits[pos/8] >> (pos % 8)) & 1) == 1
}

// Bytecode is contract code together with its jump destination analysis.
// It is immutable once built and may be shared between invocations.
type Bytecode struct {
	code      []byte
	jumpdests bitvec
}

// Analyse scans code once, marking every JUMPDEST that is an instruction
// rather than PUSH immediate data. An undefined byte outside of PUSH data
// fails the analysis with an *ErrInvalidOpCode carrying its offset. A PUSH
// truncated by the end of the code is accepted; its missing bytes read as
// zero.
func Analyse(code []byte) (*Bytecode, error) {
	// The bitmap is 4 bytes longer than necessary, in case the code
	// ends with a PUSH32, the algorithm will push zeroes onto the
	// bitvector outside the bounds of the actual code.
	bits := make(bitvec, len(code)/8+1+4)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])
		switch {
		case op == JUMPDEST:
			bits.set1(pc)
		case !op.Defined():
			return nil, &ErrInvalidOpCode{opcode: op, offset: pc}
		}
		pc += 1 + uint64(op.PushSize())
	}
	return &Bytecode{code: code, jumpdests: bits}, nil
}

// ValidJumpDest reports whether dest is a JUMPDEST instruction inside the code.
func (b *Bytecode) ValidJumpDest(dest uint64) bool {
	if dest >= uint64(len(b.code)) {
		return false
	}
	if OpCode(b.code[dest]) != JUMPDEST {
		return false
	}
	return b.jumpdests.isSet(dest)
}

// GetOp returns the n'th element in the code, STOP past its end.
func (b *Bytecode) GetOp(n uint64) OpCode {
	if n < uint64(len(b.code)) {
		return OpCode(b.code[n])
	}
	return STOP
}

// Code returns the raw code.
func (b *Bytecode) Code() []byte { return b.code }

// Len returns the code length in bytes.
func (b *Bytecode) Len() int { return len(b.code) }
