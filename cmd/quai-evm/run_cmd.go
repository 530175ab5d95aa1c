package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dominant-strategies/quai-evm/cmd/utils"
	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core"
	"github.com/dominant-strategies/quai-evm/core/state"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/log"
)

var errNoCode = errors.New("no code given, use --code, --codefile or a positional argument")

var runCmd = &cobra.Command{
	Use:   "run [code]",
	Short: "runs bytecode against the head state",
	Long: `runs the given bytecode as the code of --receiver, called by --sender,
against the head state of the ledger. State changes are discarded.`,
	Args:                       cobra.MaximumNArgs(1),
	RunE:                       runCode,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	Example:                    `quai-evm run --trace 6001600201`,
}

func init() {
	rootCmd.AddCommand(runCmd)
	bindFlags(runCmd, utils.BlockFlags, utils.VMFlags, utils.RunFlags)
}

// runResult is what the run command reports.
type runResult struct {
	Output  *vm.Output
	GasUsed uint64
	Logs    []*types.Log
	Elapsed time.Duration
}

func runCode(cmd *cobra.Command, args []string) error {
	code, err := loadCode(args)
	if err != nil {
		return err
	}
	input, err := decodeHexArg(viper.GetString(utils.InputFlag.Name))
	if err != nil {
		return err
	}
	sender, receiver := viper.GetString(utils.SenderFlag.Name), viper.GetString(utils.ReceiverFlag.Name)
	if !common.IsHexAddress(sender) || !common.IsHexAddress(receiver) {
		return fmt.Errorf("invalid sender or receiver address: %s, %s", sender, receiver)
	}
	value, ok := new(big.Int).SetString(viper.GetString(utils.ValueFlag.Name), 10)
	if !ok {
		return fmt.Errorf("invalid value: %s", viper.GetString(utils.ValueFlag.Name))
	}

	db, config, err := openLedger(log.Global)
	if err != nil {
		return err
	}
	defer db.Close()
	statedb, err := state.OpenHead(state.NewDatabase(db, log.Global))
	if err != nil {
		return err
	}
	vmConfig, tracer, err := utils.MakeVMConfig(log.Global)
	if err != nil {
		return err
	}
	blockCtx, err := utils.MakeBlockContext()
	if err != nil {
		return err
	}
	blockCtx.GetHash = core.GetHashFn(db, statedb.Root(), blockCtx.Number)

	msg := &vm.Message{
		Kind:        vm.Call,
		Static:      viper.GetBool(utils.StaticFlag.Name),
		Gas:         viper.GetUint64(utils.GasFlag.Name),
		Sender:      common.HexToAddress(sender),
		Recipient:   common.HexToAddress(receiver),
		CodeAddress: common.HexToAddress(receiver),
		Input:       input,
		Value:       value,
	}
	res := execute(vm.NewEVM(vmConfig), statedb, blockCtx, config.ChainID, msg, code)

	out := cmd.OutOrStdout()
	if tracer != nil {
		vm.WriteTrace(out, tracer.StructLogs())
	}
	printRunResult(out, res)
	return nil
}

// execute runs code for msg on top of statedb the way a transaction's
// outermost call would.
func execute(evm *vm.EVM, statedb *state.StateDB, blockCtx core.BlockContext, chainID *big.Int, msg *vm.Message, code []byte) runResult {
	txMsg := types.NewMessage(msg.Sender, &msg.Recipient, 0, msg.Value, msg.Gas, new(big.Int), msg.Input, nil)
	txCtx := core.NewEVMTxContext(txMsg, blockCtx, chainID)
	statedb.Prepare(evm, txCtx, blockCtx.GetHash, common.Hash{}, msg.Sender, &msg.Recipient, nil)

	start := time.Now()
	output := evm.Execute(statedb, msg, code)
	return runResult{
		Output:  output,
		GasUsed: msg.Gas - output.GasLeft,
		Logs:    statedb.Logs(),
		Elapsed: time.Since(start),
	}
}

func loadCode(args []string) ([]byte, error) {
	switch {
	case len(args) == 1:
		return decodeHexArg(args[0])
	case viper.GetString(utils.CodeFlag.Name) != "":
		return decodeHexArg(viper.GetString(utils.CodeFlag.Name))
	case viper.GetString(utils.CodeFileFlag.Name) != "":
		return readHexFile(viper.GetString(utils.CodeFileFlag.Name))
	}
	return nil, errNoCode
}

func printRunResult(out io.Writer, res runResult) {
	fmt.Fprintf(out, "status: %s\n", res.Output.Status)
	fmt.Fprintf(out, "gas used: %d\n", res.GasUsed)
	fmt.Fprintf(out, "output: %s\n", hexutil.Encode(res.Output.Output))
	for i, l := range res.Logs {
		fmt.Fprintf(out, "log %d: address=%s topics=%d data=%s\n", i, l.Address.Hex(), len(l.Topics), hexutil.Encode(l.Data))
	}
	fmt.Fprintf(out, "execution time: %v\n", res.Elapsed)
}
