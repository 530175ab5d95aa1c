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

package core

import (
	"github.com/pkg/errors"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/genallocs"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

var errGenesisNoConfig = errors.New("genesis has no chain configuration")

// Genesis specifies the chain configuration and the prestate of a new ledger.
type Genesis struct {
	Config *params.ChainConfig
	Alloc  []genallocs.GenesisAccount
}

// GenesisFromFile builds a genesis for config from a prestate file. A non
// zero expectedHash is checked against the file before it is decoded.
func GenesisFromFile(config *params.ChainConfig, filename string, expectedHash common.Hash) (*Genesis, error) {
	var (
		accounts []genallocs.GenesisAccount
		err      error
	)
	if expectedHash != (common.Hash{}) {
		accounts, err = genallocs.VerifyGenesisAllocs(filename, expectedHash)
	} else {
		accounts, err = genallocs.ReadGenesisAllocs(filename)
	}
	if err != nil {
		return nil, err
	}
	return &Genesis{Config: config, Alloc: accounts}, nil
}

// DefaultGenesis returns an empty ledger on the local chain configuration.
func DefaultGenesis() *Genesis {
	return &Genesis{Config: params.LocalChainConfig}
}

// InitState writes the genesis ledger into db and returns its chain
// configuration and head root:
//
//	                     genesis == nil       genesis != nil
//	                  +------------------------------------------
//	db has no ledger  |  local default     |  genesis
//	db has ledger     |  from DB           |  from DB (if compatible)
//
// A fresh ledger without accounts has the zero head root. An initialised
// ledger is never rewritten: a genesis with a different chain id yields a
// *params.ConfigCompatError and one with accounts yields ErrStateExists.
func InitState(db ethdb.Database, genesis *Genesis, logger *log.Logger) (*params.ChainConfig, common.Hash, error) {
	if genesis != nil && genesis.Config == nil {
		return nil, common.Hash{}, errGenesisNoConfig
	}
	if logger == nil {
		logger = db.Logger()
	}
	storedcfg := rawdb.ReadChainConfig(db)
	if storedcfg == nil {
		if genesis == nil {
			logger.Info("Writing default local genesis state")
			genesis = DefaultGenesis()
		} else {
			logger.WithField("network", genesis.Config.Name).Info("Writing custom genesis state")
		}
		root, err := genesis.Commit(db, logger)
		if err != nil {
			return genesis.Config, common.Hash{}, err
		}
		return genesis.Config, root, nil
	}
	if version := rawdb.ReadDatabaseVersion(db); version != nil && *version != rawdb.DatabaseVersion {
		return storedcfg, common.Hash{}, errors.Errorf("database version %d, want %d", *version, rawdb.DatabaseVersion)
	}
	head := rawdb.ReadHeadStateRoot(db)
	if genesis == nil {
		return storedcfg, head, nil
	}
	if compatErr := storedcfg.CheckCompatible(genesis.Config); compatErr != nil {
		return storedcfg, head, compatErr
	}
	if len(genesis.Alloc) > 0 {
		return storedcfg, head, ErrStateExists
	}
	return storedcfg, head, nil
}

// Commit writes the chain configuration and the allocated accounts of g to
// an empty database and returns the resulting head root.
func (g *Genesis) Commit(db ethdb.Database, logger *log.Logger) (common.Hash, error) {
	if g.Config == nil {
		return common.Hash{}, errGenesisNoConfig
	}
	batch := db.NewBatch()
	rawdb.WriteDatabaseVersion(batch, rawdb.DatabaseVersion)
	rawdb.WriteChainConfig(batch, g.Config)
	rawdb.WriteHeadStateRoot(batch, common.Hash{})
	if err := batch.Write(); err != nil {
		return common.Hash{}, err
	}
	statedb, err := state.New(common.Hash{}, state.NewDatabase(db, logger))
	if err != nil {
		return common.Hash{}, err
	}
	statedb.ApplyGenesisAllocs(g.Alloc)
	root, err := statedb.Commit()
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "commit genesis state")
	}
	logger.WithFields(log.Fields{
		"accounts": len(g.Alloc),
		"root":     root,
	}).Info("Initialised ledger")
	return root, nil
}
