package utils

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/common/constants"
	"github.com/dominant-strategies/quai-evm/core"
	"github.com/dominant-strategies/quai-evm/core/rawdb"
	"github.com/dominant-strategies/quai-evm/core/vm"
	"github.com/dominant-strategies/quai-evm/ethdb"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/metrics_config"
)

// OpenDatabase opens the ledger database under the data directory using the
// db.* settings.
func OpenDatabase(readOnly bool, logger *log.Logger) (ethdb.Database, error) {
	dir := filepath.Join(viper.GetString(DataDirFlag.Name), constants.STATE_DB_DIR)
	db, err := rawdb.Open(rawdb.OpenOptions{
		Type:      viper.GetString(DBEngineFlag.Name),
		Directory: dir,
		Namespace: "quai-evm/db/",
		Cache:     viper.GetInt(DBCacheFlag.Name),
		Handles:   viper.GetInt(DBHandlesFlag.Name),
		ReadOnly:  readOnly,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dir, err)
	}
	return db, nil
}

// MakeVMConfig builds the interpreter configuration from the vm flags. The
// struct logger is returned when tracing is requested, nil otherwise.
func MakeVMConfig(logger *log.Logger) (vm.Config, *vm.StructLogger, error) {
	eips, err := parseEips(viper.GetStringSlice(EipsFlag.Name))
	if err != nil {
		return vm.Config{}, nil, err
	}
	cfg := vm.Config{Logger: logger, ExtraEips: eips}
	if !viper.GetBool(TraceFlag.Name) {
		return cfg, nil, nil
	}
	tracer := vm.NewStructLogger(&vm.LogConfig{})
	cfg.Debug = true
	cfg.Tracer = tracer
	return cfg, tracer, nil
}

func parseEips(values []string) ([]int, error) {
	eips := make([]int, 0, len(values))
	for _, value := range values {
		eip, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid eip %q: %w", value, err)
		}
		eips = append(eips, eip)
	}
	return eips, nil
}

// MakeBlockContext builds the block environment from the block flags. The
// GetHash function is left for the processor to fill in.
func MakeBlockContext() (core.BlockContext, error) {
	coinbase := viper.GetString(CoinbaseFlag.Name)
	if !common.IsHexAddress(coinbase) {
		return core.BlockContext{}, fmt.Errorf("invalid coinbase address: %s", coinbase)
	}
	blockCtx := core.BlockContext{
		Coinbase: common.HexToAddress(coinbase),
		Number:   viper.GetUint64(BlockNumberFlag.Name),
		Time:     viper.GetUint64(TimestampFlag.Name),
		GasLimit: viper.GetUint64(BlockGasLimitFlag.Name),
	}
	if blockCtx.Time == 0 {
		blockCtx.Time = uint64(time.Now().Unix())
	}
	difficulty, err := parseBig(viper.GetString(DifficultyFlag.Name))
	if err != nil {
		return core.BlockContext{}, fmt.Errorf("invalid difficulty: %w", err)
	}
	blockCtx.Difficulty = difficulty
	if baseFee := viper.GetString(BaseFeeFlag.Name); baseFee != "" {
		if blockCtx.BaseFee, err = parseBig(baseFee); err != nil {
			return core.BlockContext{}, fmt.Errorf("invalid base fee: %w", err)
		}
	}
	return blockCtx, nil
}

func parseBig(value string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(value, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("not a non-negative integer: %s", value)
	}
	return n, nil
}

// StartMetrics serves the prometheus endpoint in the background when the
// metrics flag is set.
func StartMetrics(logger *log.Logger) {
	if !viper.GetBool(MetricsEnabledFlag.Name) {
		metrics_config.DisableMetrics()
		return
	}
	metrics_config.EnableMetrics()
	addr := viper.GetString(MetricsAddrFlag.Name)
	go func() {
		if err := metrics_config.StartProcessMetrics(addr); err != nil {
			logger.WithField("addr", addr).WithField("err", err).Error("Metrics endpoint stopped")
		}
	}()
}

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}
