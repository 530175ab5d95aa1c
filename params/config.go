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

package params

import (
	"fmt"
	"math/big"
	"strings"
)

// Different Network names
const (
	ColosseumName  = "colosseum"
	GardenName     = "garden"
	OrchardName    = "orchard"
	LighthouseName = "lighthouse"
	LocalName      = "local"
)

var (
	// ColosseumChainConfig is the chain parameters to run on the Colosseum network.
	ColosseumChainConfig = &ChainConfig{
		ChainID: big.NewInt(9000),
		Name:    ColosseumName,
	}

	// GardenChainConfig contains the chain parameters to run on the Garden test network.
	GardenChainConfig = &ChainConfig{
		ChainID: big.NewInt(12000),
		Name:    GardenName,
	}

	// OrchardChainConfig contains the chain parameters to run on the Orchard test network.
	OrchardChainConfig = &ChainConfig{
		ChainID: big.NewInt(15000),
		Name:    OrchardName,
	}

	// LighthouseChainConfig contains the chain parameters to run on the Lighthouse test network.
	LighthouseChainConfig = &ChainConfig{
		ChainID: big.NewInt(17000),
		Name:    LighthouseName,
	}

	// LocalChainConfig contains the chain parameters to run on a local test network.
	LocalChainConfig = &ChainConfig{
		ChainID: big.NewInt(1337),
		Name:    LocalName,
	}

	// TestChainConfig is used by the tests, chain id 1 matches the public
	// signing fixtures.
	TestChainConfig = &ChainConfig{big.NewInt(1), "test"}
	TestRules       = TestChainConfig.Rules()
)

// ChainConfig is the core config which determines the execution settings.
//
// ChainConfig is stored in the state database when it is initialised, so a
// state can never be opened with a different chain id than it was created with.
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"` // chainId identifies the current chain and is used for replay protection
	Name    string   `json:"name"`
}

// ChainConfigByName returns the configuration of the named network.
func ChainConfigByName(name string) (*ChainConfig, error) {
	switch strings.ToLower(name) {
	case ColosseumName:
		return ColosseumChainConfig, nil
	case GardenName:
		return GardenChainConfig, nil
	case OrchardName:
		return OrchardChainConfig, nil
	case LighthouseName:
		return LighthouseChainConfig, nil
	case LocalName, "":
		return LocalChainConfig, nil
	}
	return nil, fmt.Errorf("unknown network %q", name)
}

// String implements the fmt.Stringer interface.
func (c *ChainConfig) String() string {
	return fmt.Sprintf("{ChainID: %v, Network: %v}", c.ChainID, c.Name)
}

// CheckCompatible checks whether a stored configuration can be reused for the
// requested one.
func (c *ChainConfig) CheckCompatible(newcfg *ChainConfig) *ConfigCompatError {
	if !configNumEqual(c.ChainID, newcfg.ChainID) {
		return &ConfigCompatError{What: "chain id", StoredConfig: c.ChainID, NewConfig: newcfg.ChainID}
	}
	return nil
}

func configNumEqual(x, y *big.Int) bool {
	if x == nil {
		return y == nil
	}
	if y == nil {
		return x == nil
	}
	return x.Cmp(y) == 0
}

// ConfigCompatError is raised if the locally-stored state is initialised with a
// ChainConfig that would alter the past.
type ConfigCompatError struct {
	What string
	// values of the stored and new configurations
	StoredConfig, NewConfig *big.Int
}

func (err *ConfigCompatError) Error() string {
	return fmt.Sprintf("mismatching %s in database (have %d, want %d)", err.What, err.StoredConfig, err.NewConfig)
}

// Rules wraps ChainConfig and is merely syntactic sugar or can be used for functions
// that do not have or require information about the block.
type Rules struct {
	ChainID *big.Int
}

// Rules ensures c's ChainID is not nil.
func (c *ChainConfig) Rules() Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return Rules{
		ChainID: new(big.Int).Set(chainID),
	}
}
