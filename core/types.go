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

package core

import (
	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/types"
)

// Processor is an interface for applying transactions using a given initial state.
type Processor interface {
	// Process runs the transactions on statedb and returns their receipts and
	// the gas they used, leaving the changes uncommitted.
	Process(statedb *state.StateDB, blockCtx BlockContext, txs []*types.Transaction) ([]*types.Receipt, uint64, error)
	// Apply processes the transactions on the head state and commits them.
	Apply(blockCtx BlockContext, txs []*types.Transaction) ([]*types.Receipt, common.Hash, error)
}

var _ Processor = (*StateProcessor)(nil)
