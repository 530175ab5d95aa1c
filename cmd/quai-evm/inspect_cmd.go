package main

import (
	"github.com/spf13/cobra"

	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/log"
)

var inspectCmd = &cobra.Command{
	Use:                        "inspect [prefix] [start]",
	Short:                      "shows the storage used by each kind of ledger data",
	Args:                       cobra.MaximumNArgs(2),
	RunE:                       runInspect,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	Example:                    `quai-evm inspect`,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	var (
		prefix []byte
		start  []byte
		err    error
	)
	if len(args) > 0 {
		if prefix, err = decodeHexArg(args[0]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if start, err = decodeHexArg(args[1]); err != nil {
			return err
		}
	}
	db, _, err := openExistingLedger(log.Global)
	if err != nil {
		return err
	}
	defer db.Close()
	return rawdb.InspectDatabase(db, prefix, start, cmd.OutOrStdout(), log.Global)
}
