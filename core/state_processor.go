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
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

const receiptsCacheLimit = 1024

// StateProcessor is a basic Processor, which takes care of transitioning
// state from one point to another.
type StateProcessor struct {
	config        *params.ChainConfig // Chain configuration options
	stateCache    *state.Database     // State database to reuse between batches (contains state cache)
	receiptsCache *lru.Cache[common.Hash, *types.Receipt]
	vmConfig      vm.Config
	evm           *vm.EVM
	logger        *log.Logger
}

// NewStateProcessor initialises a new StateProcessor.
func NewStateProcessor(config *params.ChainConfig, stateCache *state.Database, vmConfig vm.Config, logger *log.Logger) *StateProcessor {
	if logger == nil {
		logger = stateCache.Logger()
	}
	if vmConfig.Logger == nil {
		vmConfig.Logger = logger
	}
	receiptsCache, _ := lru.New[common.Hash, *types.Receipt](receiptsCacheLimit)
	return &StateProcessor{
		config:        config,
		stateCache:    stateCache,
		receiptsCache: receiptsCache,
		vmConfig:      vmConfig,
		evm:           vm.NewEVM(vmConfig),
		logger:        logger,
	}
}

// Process applies the transactions in order to statedb and returns their
// receipts and the total gas used. A transaction that cannot be applied aborts
// the batch; the ones before it stay applied to statedb.
func (p *StateProcessor) Process(statedb *state.StateDB, blockCtx BlockContext, txs []*types.Transaction) ([]*types.Receipt, uint64, error) {
	var (
		receipts = make([]*types.Receipt, 0, len(txs))
		usedGas  = new(uint64)
	)
	if blockCtx.GetHash == nil {
		blockCtx.GetHash = GetHashFn(p.stateCache.DiskDB(), statedb.Root(), blockCtx.Number)
	}
	for i, tx := range txs {
		if blockCtx.GasLimit != 0 && *usedGas+tx.Gas() > blockCtx.GasLimit {
			return nil, 0, fmt.Errorf("could not apply tx %d [%v]: %w", i, tx.Hash().Hex(), ErrGasLimitReached)
		}
		receipt, err := ApplyTransaction(p.config, statedb, p.evm, blockCtx, tx, usedGas, p.logger)
		if err != nil {
			return nil, 0, fmt.Errorf("could not apply tx %d [%v]: %w", i, tx.Hash().Hex(), err)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, *usedGas, nil
}

// Apply opens the head state, processes txs on it and commits the result. The
// receipts are stored with the new root as their post state.
func (p *StateProcessor) Apply(blockCtx BlockContext, txs []*types.Transaction) ([]*types.Receipt, common.Hash, error) {
	start := time.Now()
	statedb, err := p.State()
	if err != nil {
		return nil, common.Hash{}, err
	}
	receipts, usedGas, err := p.Process(statedb, blockCtx, txs)
	if err != nil {
		return nil, common.Hash{}, err
	}
	time1 := common.PrettyDuration(time.Since(start))
	// Commit all cached state changes into the underlying database.
	root, err := statedb.Commit()
	if err != nil {
		return nil, common.Hash{}, err
	}
	time2 := common.PrettyDuration(time.Since(start))

	batch := p.stateCache.DiskDB().NewBatch()
	for _, receipt := range receipts {
		receipt.PostState = root
		rawdb.WriteReceipt(batch, receipt)
	}
	if err := batch.Write(); err != nil {
		return nil, common.Hash{}, err
	}
	for _, receipt := range receipts {
		p.receiptsCache.Add(receipt.TxHash, receipt)
	}
	p.logger.WithFields(log.Fields{
		"txs":     len(txs),
		"gasUsed": usedGas,
		"root":    root,
		"process": time1,
		"commit":  time2,
		"elapsed": common.PrettyDuration(time.Since(start)),
	}).Info("Applied transactions")
	return receipts, root, nil
}

// ApplyTransaction attempts to apply a transaction to the given state database
// and uses the input parameters for its environment. It returns the receipt
// for the transaction and an error if the transaction could not be applied,
// in which case the ledger is unchanged. usedGas accumulates the gas of the
// applied transactions and may be nil.
func ApplyTransaction(config *params.ChainConfig, statedb *state.StateDB, evm *vm.EVM, blockCtx BlockContext, tx *types.Transaction, usedGas *uint64, logger *log.Logger) (*types.Receipt, error) {
	msg, err := tx.AsMessage(types.NewSigner(config.ChainID), blockCtx.BaseFee)
	if err != nil {
		return nil, err
	}
	// Apply the transaction to the current state (included in the env).
	result, err := ApplyMessage(evm, statedb, blockCtx, config.ChainID, msg)
	if err != nil {
		return nil, err
	}
	// Update the state with pending changes.
	statedb.Finalise(true)

	if usedGas == nil {
		usedGas = new(uint64)
	}
	*usedGas += result.UsedGas

	// Create a new receipt for the transaction, storing the gas used by the tx.
	receipt := &types.Receipt{Type: tx.Type(), CumulativeGasUsed: *usedGas}
	if result.Failed() {
		receipt.Status = types.ReceiptStatusFailed
		logger.WithFields(log.Fields{
			"tx":     tx.Hash(),
			"status": result.Status,
		}).Debug("Transaction failed")
	} else {
		receipt.Status = types.ReceiptStatusSuccessful
		// If the transaction created a contract, store the creation address in the receipt.
		if result.ContractAddress != nil {
			receipt.ContractAddress = *result.ContractAddress
		}
	}
	receipt.TxHash = tx.Hash()
	receipt.GasUsed = result.UsedGas
	receipt.ReturnData = result.ReturnData
	receipt.Logs = statedb.Logs()
	return receipt, nil
}

// ApplyRawTransaction decodes a canonically encoded transaction and applies it
// like ApplyTransaction.
func ApplyRawTransaction(config *params.ChainConfig, statedb *state.StateDB, evm *vm.EVM, blockCtx BlockContext, raw []byte, logger *log.Logger) (*types.Receipt, error) {
	tx, err := types.DecodeTransaction(raw)
	if err != nil {
		return nil, err
	}
	return ApplyTransaction(config, statedb, evm, blockCtx, tx, nil, logger)
}

// GetVMConfig returns the VM config the processor runs with.
func (p *StateProcessor) GetVMConfig() *vm.Config {
	return &p.vmConfig
}

// State returns a new mutable state based on the current head.
func (p *StateProcessor) State() (*state.StateDB, error) {
	return state.OpenHead(p.stateCache)
}

// StateCache returns the caching database underpinning the processor.
func (p *StateProcessor) StateCache() *state.Database {
	return p.stateCache
}

// GetReceipt retrieves the receipt of an applied transaction, nil if the
// transaction is unknown.
func (p *StateProcessor) GetReceipt(hash common.Hash) *types.Receipt {
	if receipt, ok := p.receiptsCache.Get(hash); ok {
		return receipt
	}
	receipt := rawdb.ReadReceipt(p.stateCache.DiskDB(), hash)
	if receipt == nil {
		return nil
	}
	p.receiptsCache.Add(hash, receipt)
	return receipt
}
