package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/log"
)

var accountCmd = &cobra.Command{
	Use:                        "account <address>...",
	Short:                      "shows accounts of the head state",
	Args:                       cobra.MinimumNArgs(1),
	RunE:                       runAccount,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	Example:                    `quai-evm account 0x000000000000000000000000000000000000c0de`,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	addrs := make([]common.Address, 0, len(args))
	for _, arg := range args {
		if !common.IsHexAddress(arg) {
			return fmt.Errorf("invalid address: %s", arg)
		}
		addrs = append(addrs, common.HexToAddress(arg))
	}

	db, _, err := openExistingLedger(log.Global)
	if err != nil {
		return err
	}
	defer db.Close()
	statedb, err := state.OpenHead(state.NewDatabase(db, log.Global))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Address", "Balance", "Nonce", "Code Size", "Code Hash", "Storage Root"})
	for _, addr := range addrs {
		account := statedb.Account(addr)
		table.Append([]string{
			addr.Hex(),
			account.Balance.String(),
			strconv.FormatUint(account.Nonce, 10),
			strconv.FormatUint(statedb.GetCodeSize(addr), 10),
			common.BytesToHash(account.CodeHash).Hex(),
			account.Root.Hex(),
		})
	}
	table.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "head root: %s\n", statedb.Root().Hex())
	return nil
}
