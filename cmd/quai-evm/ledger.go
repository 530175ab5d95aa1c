package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/dominant-strategies/quai-evm/cmd/utils"
	"github.com/dominant-strategies/quai-evm/core"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

var errNoLedger = errors.New("ledger is not initialised, run the init command first")

// openLedger opens the database and makes sure it holds a ledger, writing the
// default local genesis into an empty one.
func openLedger(logger *log.Logger) (ethdb.Database, *params.ChainConfig, error) {
	db, err := utils.OpenDatabase(false, logger)
	if err != nil {
		return nil, nil, err
	}
	config, _, err := core.InitState(db, nil, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, config, nil
}

// openExistingLedger opens the database read-only and fails if no ledger was
// initialised in it.
func openExistingLedger(logger *log.Logger) (ethdb.Database, *params.ChainConfig, error) {
	db, err := utils.OpenDatabase(true, logger)
	if err != nil {
		return nil, nil, err
	}
	config := rawdb.ReadChainConfig(db)
	if config == nil {
		db.Close()
		return nil, nil, errNoLedger
	}
	return db, config, nil
}

// decodeHexArg decodes a hex string, with or without the 0x prefix.
func decodeHexArg(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	if s == "0x" {
		return nil, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

// readHexFile decodes the hex contents of a file.
func readHexFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeHexArg(string(data))
}
