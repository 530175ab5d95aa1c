package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dominant-strategies/quai-evm/core/types"
)

var decodeCmd = &cobra.Command{
	Use:                        "decode <raw-tx>",
	Short:                      "decodes a signed transaction",
	Args:                       cobra.ExactArgs(1),
	RunE:                       runDecode,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	Example:                    `quai-evm decode 0x02f8...`,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := decodeHexArg(args[0])
	if err != nil {
		return err
	}
	tx, err := types.DecodeTransaction(raw)
	if err != nil {
		return err
	}
	return writeTransaction(cmd.OutOrStdout(), tx)
}

func writeTransaction(out io.Writer, tx *types.Transaction) error {
	sender, err := types.Sender(types.NewSigner(tx.ChainId()), tx)
	if err != nil {
		return fmt.Errorf("failed to recover sender: %w", err)
	}
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"hash", tx.Hash().Hex()},
		{"type", strconv.Itoa(int(tx.Type()))},
		{"chain id", tx.ChainId().String()},
		{"nonce", strconv.FormatUint(tx.Nonce(), 10)},
		{"from", sender.Hex()},
		{"to", tx.Action().String()},
		{"value", tx.Value().String()},
		{"gas", strconv.FormatUint(tx.Gas(), 10)},
		{"gas price", tx.GasPrice().String()},
		{"tip cap", tx.GasTipCap().String()},
		{"fee cap", tx.GasFeeCap().String()},
		{"access list", strconv.Itoa(len(tx.AccessList())) + " accounts"},
		{"data", hexutil.Encode(tx.Data())},
	})
	table.Render()
	return nil
}
