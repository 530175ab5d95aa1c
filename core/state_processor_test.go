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
	"errors"
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/genallocs"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/crypto"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

var (
	testKey, _   = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testSender   = crypto.PubkeyToAddress(testKey.PublicKey)
	testFunds    = big.NewInt(1_000_000_000_000_000_000)
	testCoinbase = common.HexToAddress("0xc014ba5e")

	// INVALID
	invalidAddr = common.HexToAddress("0x1000")
	// SSTORE(0, 0)
	clearAddr = common.HexToAddress("0x2000")

	// init code returning PUSH1 42 PUSH1 0 SSTORE STOP
	storeInit = []byte{0x65, 0x60, 0x2a, 0x60, 0x00, 0x55, 0x00, 0x60, 0x00, 0x52, 0x60, 0x06, 0x60, 0x1a, 0xf3}
)

func newTestProcessor(t *testing.T) (*StateProcessor, ethdb.Database) {
	t.Helper()
	logger := log.NewNullLogger()
	db := rawdb.NewMemoryDatabase(logger)
	slots := orderedmap.New[common.Hash, common.Hash]()
	slots.Set(common.Hash{}, common.BigToHash(big.NewInt(1)))
	genesis := &Genesis{
		Config: params.LocalChainConfig,
		Alloc: []genallocs.GenesisAccount{
			{Address: testSender, Balance: new(big.Int).Set(testFunds)},
			{Address: invalidAddr, Balance: new(big.Int), Code: []byte{0xfe}},
			{Address: clearAddr, Balance: new(big.Int), Code: []byte{0x60, 0x00, 0x60, 0x00, 0x55, 0x00}, Storage: slots},
		},
	}
	config, _, err := InitState(db, genesis, logger)
	require.NoError(t, err)
	return NewStateProcessor(config, state.NewDatabase(db, logger), vm.Config{}, logger), db
}

func testBlock(baseFee *big.Int) BlockContext {
	return BlockContext{
		Coinbase: testCoinbase,
		Number:   1,
		Time:     1700000000,
		GasLimit: params.GenesisGasLimit,
		BaseFee:  baseFee,
	}
}

func signTx(t *testing.T, data types.TxData) *types.Transaction {
	t.Helper()
	tx, err := types.SignNewTx(testKey, types.NewSigner(params.LocalChainConfig.ChainID), data)
	require.NoError(t, err)
	return tx
}

func TestApplyValueTransfer(t *testing.T) {
	p, _ := newTestProcessor(t)
	to := common.HexToAddress("0xdead")
	tx := signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(10), Gas: 21000, To: &to, Value: big.NewInt(1000)})

	receipts, root, err := p.Apply(testBlock(nil), []*types.Transaction{tx})
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	receipt := receipts[0]
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status, spew.Sdump(receipt))
	require.Equal(t, uint64(21000), receipt.GasUsed)
	require.Equal(t, uint64(21000), receipt.CumulativeGasUsed)
	require.Equal(t, tx.Hash(), receipt.TxHash)
	require.Equal(t, root, receipt.PostState)

	statedb, err := p.State()
	require.NoError(t, err)
	require.Equal(t, root, statedb.Root())
	require.Equal(t, int64(1000), statedb.GetBalance(to).Int64())
	require.Equal(t, int64(21000*10), statedb.GetBalance(testCoinbase).Int64())
	want := new(big.Int).Sub(testFunds, big.NewInt(1000+21000*10))
	require.Equal(t, want, statedb.GetBalance(testSender))
	require.Equal(t, uint64(1), statedb.GetNonce(testSender))

	stored := p.GetReceipt(tx.Hash())
	require.NotNil(t, stored)
	require.Equal(t, root, stored.PostState)
	require.Nil(t, p.GetReceipt(common.Hash{1}))
}

func TestApplyContractCreation(t *testing.T) {
	p, _ := newTestProcessor(t)
	baseFee := big.NewInt(5)
	tx := signTx(t, &types.DynamicFeeTx{
		ChainID:   params.LocalChainConfig.ChainID,
		Nonce:     0,
		GasTipCap: big.NewInt(2),
		GasFeeCap: big.NewInt(10),
		Gas:       200000,
		Data:      storeInit,
	})
	statedb, err := p.State()
	require.NoError(t, err)
	receipt, err := ApplyTransaction(p.config, statedb, p.evm, testBlock(baseFee), tx, nil, log.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	created := crypto.CreateAddress(testSender, 0)
	require.Equal(t, created, receipt.ContractAddress)
	require.Equal(t, storeInit[1:7], statedb.GetCode(created))
	require.Equal(t, uint64(1), statedb.GetNonce(testSender))

	intrinsic, err := IntrinsicGas(storeInit, nil, true, false)
	require.NoError(t, err)
	require.Greater(t, receipt.GasUsed, intrinsic)

	// The sender pays tip plus base fee, the coinbase only receives the tip.
	used := new(big.Int).SetUint64(receipt.GasUsed)
	require.Equal(t, new(big.Int).Mul(used, big.NewInt(2)), statedb.GetBalance(testCoinbase))
	want := new(big.Int).Sub(testFunds, new(big.Int).Mul(used, big.NewInt(7)))
	require.Equal(t, want, statedb.GetBalance(testSender))
}

func TestApplyFailedTransaction(t *testing.T) {
	p, _ := newTestProcessor(t)
	tx := signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 50000, To: &invalidAddr, Value: big.NewInt(5)})

	statedb, err := p.State()
	require.NoError(t, err)
	receipt, err := ApplyTransaction(p.config, statedb, p.evm, testBlock(nil), tx, nil, log.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusFailed, receipt.Status, spew.Sdump(receipt))
	require.Equal(t, uint64(50000), receipt.GasUsed)
	require.Equal(t, uint64(1), statedb.GetNonce(testSender))
	require.Zero(t, statedb.GetBalance(invalidAddr).Sign())
	want := new(big.Int).Sub(testFunds, big.NewInt(50000))
	require.Equal(t, want, statedb.GetBalance(testSender))
}

func TestApplyRefundIsCapped(t *testing.T) {
	p, _ := newTestProcessor(t)
	tx := signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 100000, To: &clearAddr})

	statedb, err := p.State()
	require.NoError(t, err)
	receipt, err := ApplyTransaction(p.config, statedb, p.evm, testBlock(nil), tx, nil, log.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	// 21000 intrinsic, 6 for the pushes and 5000 for clearing a cold slot,
	// less the 4800 clearing refund which stays under a fifth of the gas used.
	require.Equal(t, uint64(21000+6+5000-4800), receipt.GasUsed)
	require.Equal(t, common.Hash{}, statedb.GetStorage(clearAddr, common.Hash{}))
}

func TestApplyRejectsInvalidTransactions(t *testing.T) {
	p, _ := newTestProcessor(t)
	to := common.HexToAddress("0xdead")
	otherChain := types.NewSigner(big.NewInt(1))

	tests := []struct {
		name string
		tx   func() *types.Transaction
		err  error
	}{
		{"nonce too high", func() *types.Transaction {
			return signTx(t, &types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(10), Gas: 21000, To: &to})
		}, ErrNonceTooHigh},
		{"intrinsic gas", func() *types.Transaction {
			return signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(10), Gas: 20999, To: &to})
		}, ErrIntrinsicGas},
		{"insufficient funds", func() *types.Transaction {
			return signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: testFunds, Gas: 21000, To: &to})
		}, ErrInsufficientFunds},
		{"block gas limit", func() *types.Transaction {
			return signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(10), Gas: params.GenesisGasLimit + 1, To: &to})
		}, ErrGasLimitReached},
		{"tip above fee cap", func() *types.Transaction {
			return signTx(t, &types.DynamicFeeTx{ChainID: params.LocalChainConfig.ChainID, GasTipCap: big.NewInt(3), GasFeeCap: big.NewInt(2), Gas: 21000, To: &to})
		}, ErrTipAboveFeeCap},
		{"gas price below base fee", func() *types.Transaction {
			return signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(4), Gas: 21000, To: &to})
		}, ErrFeeCapTooLow},
		{"fee cap below base fee", func() *types.Transaction {
			return signTx(t, &types.DynamicFeeTx{ChainID: params.LocalChainConfig.ChainID, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(4), Gas: 21000, To: &to})
		}, ErrFeeCapTooLow},
		{"wrong chain", func() *types.Transaction {
			tx, err := types.SignNewTx(testKey, otherChain, &types.DynamicFeeTx{ChainID: big.NewInt(1), GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(10), Gas: 21000, To: &to})
			require.NoError(t, err)
			return tx
		}, types.ErrInvalidChainId},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statedb, err := p.State()
			require.NoError(t, err)
			_, err = ApplyTransaction(p.config, statedb, p.evm, testBlock(big.NewInt(5)), tt.tx(), nil, log.NewNullLogger())
			require.True(t, errors.Is(err, tt.err), "have %v, want %v", err, tt.err)
			require.Equal(t, testFunds, statedb.GetBalance(testSender))
			require.Zero(t, statedb.GetNonce(testSender))
		})
	}
}

func TestApplyRawTransaction(t *testing.T) {
	p, _ := newTestProcessor(t)
	to := common.HexToAddress("0xdead")
	tx := signTx(t, &types.AccessListTx{
		ChainID:    params.LocalChainConfig.ChainID,
		GasPrice:   big.NewInt(1),
		Gas:        30000,
		To:         &to,
		AccessList: types.AccessList{{Address: to, StorageKeys: []common.Hash{{1}}}},
	})
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	statedb, err := p.State()
	require.NoError(t, err)
	receipt, err := ApplyRawTransaction(p.config, statedb, p.evm, testBlock(nil), raw, log.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, uint64(21000+2400+1900), receipt.GasUsed)
	require.Equal(t, uint8(types.AccessListTxType), receipt.Type)

	_, err = ApplyRawTransaction(p.config, statedb, p.evm, testBlock(nil), raw[:len(raw)-1], log.NewNullLogger())
	require.Error(t, err)
}

func TestProcessAccumulatesGas(t *testing.T) {
	p, _ := newTestProcessor(t)
	to := common.HexToAddress("0xdead")
	txs := []*types.Transaction{
		signTx(t, &types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1)}),
		signTx(t, &types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1)}),
	}
	statedb, err := p.State()
	require.NoError(t, err)
	receipts, used, err := p.Process(statedb, testBlock(nil), txs)
	require.NoError(t, err)
	require.Equal(t, uint64(42000), used)
	require.Equal(t, uint64(21000), receipts[0].CumulativeGasUsed)
	require.Equal(t, uint64(42000), receipts[1].CumulativeGasUsed)

	block := testBlock(nil)
	block.GasLimit = 30000
	statedb, err = p.State()
	require.NoError(t, err)
	_, _, err = p.Process(statedb, block, txs)
	require.ErrorIs(t, err, ErrGasLimitReached)
}

func TestIntrinsicGas(t *testing.T) {
	ones := make([]byte, 33)
	for i := range ones {
		ones[i] = 1
	}
	list := types.AccessList{{Address: common.Address{1}, StorageKeys: []common.Hash{{1}, {2}}}}
	tests := []struct {
		name    string
		data    []byte
		list    types.AccessList
		create  bool
		eip3860 bool
		want    uint64
	}{
		{"plain call", nil, nil, false, false, 21000},
		{"call data", []byte{0, 1}, nil, false, false, 21000 + 4 + 16},
		{"creation", nil, nil, true, false, 53000},
		{"metered init code", ones, nil, true, true, 53000 + 33*16 + 2*2},
		{"unmetered init code", ones, nil, true, false, 53000 + 33*16},
		{"access list", nil, list, false, false, 21000 + 2400 + 2*1900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gas, err := IntrinsicGas(tt.data, tt.list, tt.create, tt.eip3860)
			require.NoError(t, err)
			require.Equal(t, tt.want, gas)
		})
	}
}

func TestGetHashFn(t *testing.T) {
	db := rawdb.NewMemoryDatabase(log.NewNullLogger())
	roots := []common.Hash{{1}, {2}, {3}}
	rawdb.WriteStateParent(db, roots[1], roots[0])
	rawdb.WriteStateParent(db, roots[2], roots[1])

	getHash := GetHashFn(db, roots[2], 10)
	require.Equal(t, roots[2], getHash(9))
	require.Equal(t, roots[1], getHash(8))
	require.Equal(t, roots[0], getHash(7))
	require.Equal(t, roots[1], getHash(8), "cached lookups")
	require.Equal(t, common.Hash{}, getHash(6), "before the first root")
	require.Equal(t, common.Hash{}, getHash(10), "current block")
}
