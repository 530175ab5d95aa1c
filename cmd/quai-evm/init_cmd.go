package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dominant-strategies/quai-evm/cmd/utils"
	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "initialises a new ledger",
	Long: `writes the chain configuration of --network and the accounts of the
--prestate file into the database under --data-dir. An existing ledger is
never rewritten.`,
	RunE:                       runInit,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	Example:                    `quai-evm init --network=garden --prestate=alloc.json`,
}

func init() {
	rootCmd.AddCommand(initCmd)
	bindFlags(initCmd, utils.InitFlags)
}

func runInit(cmd *cobra.Command, args []string) error {
	config, err := params.ChainConfigByName(viper.GetString(utils.NetworkFlag.Name))
	if err != nil {
		return err
	}
	genesis := &core.Genesis{Config: config}
	if prestate := viper.GetString(utils.PrestateFlag.Name); prestate != "" {
		var expected common.Hash
		if hash := viper.GetString(utils.PrestateHashFlag.Name); hash != "" {
			b, err := decodeHexArg(hash)
			if err != nil || len(b) != common.HashLength {
				return fmt.Errorf("invalid prestate hash: %s", hash)
			}
			expected = common.BytesToHash(b)
		}
		if genesis, err = core.GenesisFromFile(config, prestate, expected); err != nil {
			return err
		}
	}

	db, err := utils.OpenDatabase(false, log.Global)
	if err != nil {
		return err
	}
	defer db.Close()

	stored, root, err := core.InitState(db, genesis, log.Global)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "network: %s\nchain id: %v\nhead root: %s\n", stored.Name, stored.ChainID, root.Hex())
	return nil
}
