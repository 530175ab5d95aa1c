// Copyright 2016 The go-ethereum Authors
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

package core

import (
	"math/big"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/ethdb"
)

// BlockContext carries the block level environment a transaction executes in.
type BlockContext struct {
	Coinbase   common.Address
	Number     uint64
	Time       uint64
	GasLimit   uint64
	Difficulty *big.Int
	// BaseFee is the EIP-1559 base fee, nil when the fee market is inactive.
	BaseFee *big.Int
	// GetHash answers BLOCKHASH. A nil function yields zero hashes.
	GetHash state.GetHashFunc
}

// NewEVMTxContext creates a new transaction context for a single transaction.
func NewEVMTxContext(msg Message, blockCtx BlockContext, chainID *big.Int) vm.TxContext {
	ctx := vm.TxContext{
		Origin:      msg.From(),
		GasPrice:    new(big.Int).Set(msg.GasPrice()),
		Coinbase:    blockCtx.Coinbase,
		BlockNumber: blockCtx.Number,
		Timestamp:   blockCtx.Time,
		GasLimit:    blockCtx.GasLimit,
		Difficulty:  new(big.Int),
		ChainID:     new(big.Int),
		BaseFee:     new(big.Int),
	}
	if blockCtx.Difficulty != nil {
		ctx.Difficulty.Set(blockCtx.Difficulty)
	}
	if chainID != nil {
		ctx.ChainID.Set(chainID)
	}
	if blockCtx.BaseFee != nil {
		ctx.BaseFee.Set(blockCtx.BaseFee)
	}
	return ctx
}

// GetHashFn returns a GetHashFunc that treats every committed state root as
// a block: the head root is the hash of block number-1 and each earlier block
// is found by following the stored parent links.
func GetHashFn(db ethdb.KeyValueReader, head common.Hash, number uint64) state.GetHashFunc {
	// Cache will initially contain [head],
	// Then fill up with [head.p, head.pp, head.ppp, ...]
	var cache []common.Hash

	return func(n uint64) common.Hash {
		if n >= number {
			return common.Hash{}
		}
		// If there's no hash cache yet, make one
		if len(cache) == 0 {
			cache = append(cache, head)
		}
		idx := number - n - 1
		if idx < uint64(len(cache)) {
			return cache[idx]
		}
		// No luck in the cache, but we can start iterating from the last element we already know
		lastKnown := cache[len(cache)-1]
		for uint64(len(cache)) <= idx {
			parent, ok := rawdb.ReadStateParent(db, lastKnown)
			if !ok {
				return common.Hash{}
			}
			cache = append(cache, parent)
			lastKnown = parent
		}
		return cache[idx]
	}
}
