// Copyright 2018 The go-ethereum Authors
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

package rawdb

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

// ReadDatabaseVersion retrieves the version number of the database.
func ReadDatabaseVersion(db ethdb.KeyValueReader) *uint64 {
	enc, _ := db.Get(databaseVersionKey)
	if len(enc) == 0 {
		return nil
	}
	var version uint64
	if err := rlp.DecodeBytes(enc, &version); err != nil {
		db.Logger().WithField("err", err).Error("Failed to decode database version")
		return nil
	}
	return &version
}

// WriteDatabaseVersion stores the version number of the database
func WriteDatabaseVersion(db ethdb.KeyValueWriter, version uint64) {
	enc, err := rlp.EncodeToBytes(version)
	if err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to encode database version")
	}
	if err = db.Put(databaseVersionKey, enc); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store the database version")
	}
}

// ReadChainConfig retrieves the chain settings the state was initialised with.
func ReadChainConfig(db ethdb.KeyValueReader) *params.ChainConfig {
	data, _ := db.Get(chainConfigKey)
	if len(data) == 0 {
		return nil
	}
	var config params.ChainConfig
	if err := json.Unmarshal(data, &config); err != nil {
		db.Logger().WithFields(log.Fields{
			"data": string(data),
			"err":  err,
		}).Error("Invalid chain config JSON")
		return nil
	}
	return &config
}

// WriteChainConfig writes the chain config settings to the database.
func WriteChainConfig(db ethdb.KeyValueWriter, cfg *params.ChainConfig) {
	if cfg == nil {
		return
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to JSON encode chain config")
	}
	if err := db.Put(chainConfigKey, data); err != nil {
		db.Logger().WithField("err", err).Fatal("Failed to store chain config")
	}
}
