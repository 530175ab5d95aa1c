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

package common

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Common big integers often used
var (
	Big0     = big.NewInt(0)
	Big1     = big.NewInt(1)
	Big2     = big.NewInt(2)
	Big3     = big.NewInt(3)
	Big8     = big.NewInt(8)
	Big32    = big.NewInt(32)
	Big256   = big.NewInt(256)
	Big2e256 = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), big.NewInt(0))
)

// BigToWord converts b into a 256-bit word. The second return value reports
// whether b was negative or did not fit in 256 bits.
func BigToWord(b *big.Int) (*uint256.Int, bool) {
	if b == nil {
		return new(uint256.Int), false
	}
	if b.Sign() < 0 {
		return new(uint256.Int), true
	}
	return uint256.MustFromBig(new(big.Int).Mod(b, Big2e256)), b.BitLen() > 256
}

// WordToBig returns a fresh big integer holding w, or zero when w is nil.
func WordToBig(w *uint256.Int) *big.Int {
	if w == nil {
		return new(big.Int)
	}
	return w.ToBig()
}
