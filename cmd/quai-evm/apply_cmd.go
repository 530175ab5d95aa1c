package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dominant-strategies/quai-evm/cmd/utils"
	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/log"
)

var applyCmd = &cobra.Command{
	Use:   "apply <raw-tx>...",
	Short: "applies signed transactions to the ledger",
	Long: `applies the given signed transactions in order as one block and commits
the resulting state. If any transaction is invalid nothing is written.`,
	Args:                       cobra.MinimumNArgs(1),
	RunE:                       runApply,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	Example:                    `quai-evm apply --block.basefee=7 0x02f8... 0x02f8...`,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	bindFlags(applyCmd, utils.BlockFlags, utils.VMFlags)
}

func runApply(cmd *cobra.Command, args []string) error {
	txs := make([]*types.Transaction, 0, len(args))
	for i, arg := range args {
		raw, err := decodeHexArg(arg)
		if err != nil {
			return err
		}
		tx, err := types.DecodeTransaction(raw)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}

	db, config, err := openLedger(log.Global)
	if err != nil {
		return err
	}
	defer db.Close()
	vmConfig, tracer, err := utils.MakeVMConfig(log.Global)
	if err != nil {
		return err
	}
	blockCtx, err := utils.MakeBlockContext()
	if err != nil {
		return err
	}
	processor := core.NewStateProcessor(config, state.NewDatabase(db, log.Global), vmConfig, log.Global)
	receipts, root, err := processor.Apply(blockCtx, txs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tracer != nil {
		vm.WriteTrace(out, tracer.StructLogs())
	}
	writeReceipts(out, receipts)
	fmt.Fprintf(out, "head root: %s\n", root.Hex())
	return nil
}

func writeReceipts(out io.Writer, receipts []*types.Receipt) {
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tx", "Status", "Gas Used", "Cumulative", "Contract", "Logs", "Return"})
	for _, receipt := range receipts {
		contract := ""
		if receipt.ContractAddress != (common.Address{}) {
			contract = receipt.ContractAddress.Hex()
		}
		status := "failed"
		if receipt.Status == types.ReceiptStatusSuccessful {
			status = "success"
		}
		table.Append([]string{
			receipt.TxHash.Hex(),
			status,
			strconv.FormatUint(receipt.GasUsed, 10),
			strconv.FormatUint(receipt.CumulativeGasUsed, 10),
			contract,
			strconv.Itoa(len(receipt.Logs)),
			hexutil.Encode(receipt.ReturnData),
		})
	}
	table.Render()
}
