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

package core

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/genallocs"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

func TestInitStateDefault(t *testing.T) {
	logger := log.NewNullLogger()
	db := rawdb.NewMemoryDatabase(logger)

	config, root, err := InitState(db, nil, logger)
	require.NoError(t, err)
	require.Equal(t, params.LocalChainConfig.ChainID, config.ChainID)
	require.Equal(t, common.Hash{}, root)
	require.Equal(t, common.Hash{}, rawdb.ReadHeadStateRoot(db))
	require.Equal(t, uint64(rawdb.DatabaseVersion), *rawdb.ReadDatabaseVersion(db))

	// Reopening returns the stored configuration.
	config, root, err = InitState(db, nil, logger)
	require.NoError(t, err)
	require.Equal(t, params.LocalChainConfig.ChainID, config.ChainID)
	require.Equal(t, common.Hash{}, root)

	_, err = state.OpenHead(state.NewDatabase(db, logger))
	require.NoError(t, err)
}

func TestInitStateWithAllocs(t *testing.T) {
	logger := log.NewNullLogger()
	db := rawdb.NewMemoryDatabase(logger)
	addr := common.HexToAddress("0xabcd")
	genesis := &Genesis{
		Config: params.GardenChainConfig,
		Alloc:  []genallocs.GenesisAccount{{Address: addr, Balance: big.NewInt(77), Nonce: 3}},
	}
	config, root, err := InitState(db, genesis, logger)
	require.NoError(t, err)
	require.Equal(t, params.GardenName, config.Name)
	require.NotEqual(t, common.Hash{}, root)
	require.Equal(t, root, rawdb.ReadHeadStateRoot(db))

	statedb, err := state.New(root, state.NewDatabase(db, logger))
	require.NoError(t, err)
	account := statedb.Account(addr)
	require.Equal(t, int64(77), account.Balance.Int64())
	require.Equal(t, uint64(3), account.Nonce)

	// An initialised ledger is never rewritten.
	_, head, err := InitState(db, genesis, logger)
	require.ErrorIs(t, err, ErrStateExists)
	require.Equal(t, root, head)

	_, _, err = InitState(db, &Genesis{Config: params.OrchardChainConfig}, logger)
	var compatErr *params.ConfigCompatError
	require.True(t, errors.As(err, &compatErr))
	require.Equal(t, "chain id", compatErr.What)

	_, _, err = InitState(db, &Genesis{}, logger)
	require.Error(t, err)
}

func TestGenesisFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prestate.json")
	content := `{"accounts": [{"address": "0x000000000000000000000000000000000000abcd", "balance": "0x10"}]}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	genesis, err := GenesisFromFile(params.LocalChainConfig, file, common.Hash{})
	require.NoError(t, err)
	require.Len(t, genesis.Alloc, 1)
	require.Equal(t, int64(16), genesis.Alloc[0].Balance.Int64())

	hash, err := genallocs.FileHash(file)
	require.NoError(t, err)
	_, err = GenesisFromFile(params.LocalChainConfig, file, hash)
	require.NoError(t, err)

	_, err = GenesisFromFile(params.LocalChainConfig, file, common.Hash{1})
	require.ErrorIs(t, err, genallocs.ErrInvalidAllocs)
}
