// Copyright 2015 The go-ethereum Authors
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
	"math/big"

	"github.com/holiman/uint256"

	"github.com/dominant-strategies/quai-evm/common"
)

// Contract represents the running frame of one message: the analysed code,
// the addresses it acts for and the gas it has left.
type Contract struct {
	caller common.Address
	self   common.Address
	value  *big.Int

	Code  *Bytecode
	Input []byte
	Gas   uint64
}

// NewContract returns a new contract frame for msg running code.
func NewContract(msg *Message, code *Bytecode) *Contract {
	value := msg.Value
	if value == nil {
		value = new(big.Int)
	}
	return &Contract{
		caller: msg.Sender,
		self:   msg.Recipient,
		value:  value,
		Code:   code,
		Input:  msg.Input,
		Gas:    msg.Gas,
	}
}

func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow {
		return false
	}
	return c.Code.ValidJumpDest(udest)
}

// GetOp returns the n'th element in the contract's byte array
func (c *Contract) GetOp(n uint64) OpCode {
	return c.Code.GetOp(n)
}

// Caller returns the caller of the contract.
func (c *Contract) Caller() common.Address {
	return c.caller
}

// UseGas attempts the use gas and subtracts it and returns true on success
func (c *Contract) UseGas(gas uint64) (ok bool) {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// Address returns the contracts address
func (c *Contract) Address() common.Address {
	return c.self
}

// Value returns the contract's value (sent to it from it's caller)
func (c *Contract) Value() *big.Int {
	return c.value
}
