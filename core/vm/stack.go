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
	"sync"

	"github.com/holiman/uint256"

	"github.com/dominant-strategies/quai-evm/params"
)

var stackPool = sync.Pool{
	New: func() interface{} {
		return &Stack{data: make([]uint256.Int, 0, 16)}
	},
}

// Stack is an object for basic stack operations. Items popped to the stack are
// expected to be changed and modified. stack does not take care of adding newly
// initialised objects.
//
// The exported methods are bounds checked against the 1024 item limit. The
// instruction handlers use the unexported ones, which rely on the stack
// requirements checked by the interpreter before dispatch.
type Stack struct {
	data []uint256.Int
}

func newstack() *Stack {
	return stackPool.Get().(*Stack)
}

func returnStack(s *Stack) {
	s.data = s.data[:0]
	stackPool.Put(s)
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

// Data returns the underlying uint256.Int array, bottom first.
func (st *Stack) Data() []uint256.Int {
	return st.data
}

// Len returns the number of items on the stack.
func (st *Stack) Len() int {
	return len(st.data)
}

// Push appends a copy of d, failing once the stack holds StackLimit items.
func (st *Stack) Push(d *uint256.Int) error {
	if len(st.data) >= int(params.StackLimit) {
		return &ErrStackOverflow{stackLen: len(st.data), limit: int(params.StackLimit)}
	}
	st.push(d)
	return nil
}

// Pop removes and returns the top item.
func (st *Stack) Pop() (uint256.Int, error) {
	if len(st.data) == 0 {
		return uint256.Int{}, &ErrStackUnderflow{stackLen: 0, required: 1}
	}
	return st.pop(), nil
}

// Back returns the n'th item counted from the top; Back(0) is the top. The
// returned pointer aliases the stack slot.
func (st *Stack) Back(n int) *uint256.Int {
	return &st.data[st.len()-n-1]
}

// Get is the bounds checked form of Back.
func (st *Stack) Get(n int) (*uint256.Int, error) {
	if n < 0 || n >= len(st.data) {
		return nil, &ErrStackUnderflow{stackLen: len(st.data), required: n + 1}
	}
	return st.Back(n), nil
}

// SwapTop exchanges the top item with the n'th item below it.
func (st *Stack) SwapTop(n int) error {
	if n < 1 || n >= len(st.data) {
		return &ErrStackUnderflow{stackLen: len(st.data), required: n + 1}
	}
	st.swap(n + 1)
	return nil
}

func (st *Stack) push(d *uint256.Int) {
	// NOTE push limit (1024) is checked in baseCheck
	st.data = append(st.data, *d)
}

func (st *Stack) pop() (ret uint256.Int) {
	ret = st.data[len(st.data)-1]
	st.data = st.data[:len(st.data)-1]
	return
}

func (st *Stack) len() int {
	return len(st.data)
}

func (st *Stack) swap(n int) {
	st.data[st.len()-n], st.data[st.len()-1] = st.data[st.len()-1], st.data[st.len()-n]
}

func (st *Stack) dup(n int) {
	st.push(&st.data[st.len()-n])
}

func (st *Stack) peek() *uint256.Int {
	return &st.data[st.len()-1]
}
