package utils

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dominant-strategies/quai-evm/common/constants"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/metrics_config"
	"github.com/dominant-strategies/quai-evm/params"
)

var GlobalFlags = []Flag{
	ConfigDirFlag,
	DataDirFlag,
	LogLevelFlag,
	SaveConfigFlag,
	MetricsEnabledFlag,
	MetricsAddrFlag,
}

var DatabaseFlags = []Flag{
	DBEngineFlag,
	DBCacheFlag,
	DBHandlesFlag,
}

var InitFlags = []Flag{
	NetworkFlag,
	PrestateFlag,
	PrestateHashFlag,
}

var BlockFlags = []Flag{
	CoinbaseFlag,
	BlockNumberFlag,
	TimestampFlag,
	BlockGasLimitFlag,
	BaseFeeFlag,
	DifficultyFlag,
}

var VMFlags = []Flag{
	TraceFlag,
	EipsFlag,
}

var RunFlags = []Flag{
	CodeFlag,
	CodeFileFlag,
	InputFlag,
	GasFlag,
	ValueFlag,
	SenderFlag,
	ReceiverFlag,
	StaticFlag,
}

// Flags groups every flag the config command writes to the default config file.
var Flags = [][]Flag{
	DatabaseFlags,
	InitFlags,
	BlockFlags,
	VMFlags,
}

var (
	// ****************************************
	// **                                    **
	// **         GLOBAL FLAGS               **
	// **                                    **
	// ****************************************
	ConfigDirFlag = Flag{
		Name:         "config-dir",
		Abbreviation: "c",
		Value:        xdg.ConfigHome + "/" + constants.APP_NAME + "/",
		Usage:        "config directory" + generateEnvDoc("config-dir"),
	}

	DataDirFlag = Flag{
		Name:         "data-dir",
		Abbreviation: "d",
		Value:        xdg.DataHome + "/" + constants.APP_NAME + "/",
		Usage:        "data directory" + generateEnvDoc("data-dir"),
	}

	LogLevelFlag = Flag{
		Name:         "log-level",
		Abbreviation: "l",
		Value:        "info",
		Usage:        "log level (trace, debug, info, warn, error, fatal, panic)" + generateEnvDoc("log-level"),
	}

	SaveConfigFlag = Flag{
		Name:         "save-config",
		Abbreviation: "S",
		Value:        false,
		Usage:        "save/update config file with current config parameters" + generateEnvDoc("save-config"),
	}

	MetricsEnabledFlag = Flag{
		Name:  "metrics",
		Value: false,
		Usage: "serve prometheus metrics while the command runs" + generateEnvDoc("metrics"),
	}

	MetricsAddrFlag = Flag{
		Name:  "metrics-addr",
		Value: metrics_config.DefaultAddress,
		Usage: "listen address of the metrics endpoint" + generateEnvDoc("metrics-addr"),
	}

	// ****************************************
	// **                                    **
	// **         DATABASE FLAGS             **
	// **                                    **
	// ****************************************
	DBEngineFlag = Flag{
		Name:  "db.engine",
		Value: "",
		Usage: "backing database implementation to use ('leveldb' or 'pebble', default: existing or pebble)" + generateEnvDoc("db.engine"),
	}

	DBCacheFlag = Flag{
		Name:  "db.cache",
		Value: 64,
		Usage: "megabytes of memory allocated to the database cache" + generateEnvDoc("db.cache"),
	}

	DBHandlesFlag = Flag{
		Name:  "db.handles",
		Value: 128,
		Usage: "number of open files the database may hold" + generateEnvDoc("db.handles"),
	}

	// ****************************************
	// **                                    **
	// **         INIT FLAGS                 **
	// **                                    **
	// ****************************************
	NetworkFlag = Flag{
		Name:         "network",
		Abbreviation: "n",
		Value:        params.LocalName,
		Usage:        "chain configuration of a new ledger (colosseum, garden, orchard, lighthouse, local)" + generateEnvDoc("network"),
	}

	PrestateFlag = Flag{
		Name:  "prestate",
		Value: "",
		Usage: "prestate file (.json, .toml, .yaml) with the accounts of a new ledger" + generateEnvDoc("prestate"),
	}

	PrestateHashFlag = Flag{
		Name:  "prestate-hash",
		Value: "",
		Usage: "expected blake3 hash of the prestate file" + generateEnvDoc("prestate-hash"),
	}

	// ****************************************
	// **                                    **
	// **         BLOCK FLAGS                **
	// **                                    **
	// ****************************************
	CoinbaseFlag = Flag{
		Name:  "coinbase",
		Value: "0x0000000000000000000000000000000000000000",
		Usage: "beneficiary of the transaction fees" + generateEnvDoc("coinbase"),
	}

	BlockNumberFlag = Flag{
		Name:  "block.number",
		Value: uint64(1),
		Usage: "number of the block the transactions run in" + generateEnvDoc("block.number"),
	}

	TimestampFlag = Flag{
		Name:  "block.timestamp",
		Value: uint64(0),
		Usage: "timestamp of the block, 0 for the current time" + generateEnvDoc("block.timestamp"),
	}

	BlockGasLimitFlag = Flag{
		Name:  "block.gaslimit",
		Value: params.GenesisGasLimit,
		Usage: "gas limit of the block" + generateEnvDoc("block.gaslimit"),
	}

	BaseFeeFlag = Flag{
		Name:  "block.basefee",
		Value: "",
		Usage: "base fee of the block, empty to disable the fee market" + generateEnvDoc("block.basefee"),
	}

	DifficultyFlag = Flag{
		Name:  "block.difficulty",
		Value: big.NewInt(0),
		Usage: "difficulty of the block" + generateEnvDoc("block.difficulty"),
	}

	// ****************************************
	// **                                    **
	// **         VM FLAGS                   **
	// **                                    **
	// ****************************************
	TraceFlag = Flag{
		Name:  "trace",
		Value: false,
		Usage: "print a structured log of every executed instruction" + generateEnvDoc("trace"),
	}

	EipsFlag = Flag{
		Name:  "eips",
		Value: []string{},
		Usage: "additional EIPs to enable on top of London, e.g. 3860" + generateEnvDoc("eips"),
	}

	// ****************************************
	// **                                    **
	// **         RUN FLAGS                  **
	// **                                    **
	// ****************************************
	CodeFlag = Flag{
		Name:  "code",
		Value: "",
		Usage: "hex encoded bytecode to run" + generateEnvDoc("code"),
	}

	CodeFileFlag = Flag{
		Name:  "codefile",
		Value: "",
		Usage: "file holding the hex encoded bytecode to run" + generateEnvDoc("codefile"),
	}

	InputFlag = Flag{
		Name:  "input",
		Value: "",
		Usage: "hex encoded call data" + generateEnvDoc("input"),
	}

	GasFlag = Flag{
		Name:  "gas",
		Value: uint64(10_000_000),
		Usage: "gas available to the code" + generateEnvDoc("gas"),
	}

	ValueFlag = Flag{
		Name:  "value",
		Value: big.NewInt(0),
		Usage: "value sent with the call" + generateEnvDoc("value"),
	}

	SenderFlag = Flag{
		Name:  "sender",
		Value: "0x000000000000000000000000000000000000c0de",
		Usage: "caller of the code" + generateEnvDoc("sender"),
	}

	ReceiverFlag = Flag{
		Name:  "receiver",
		Value: "0x000000000000000000000000000000000000face",
		Usage: "account the code runs as" + generateEnvDoc("receiver"),
	}

	StaticFlag = Flag{
		Name:  "static",
		Value: false,
		Usage: "run the code in static mode" + generateEnvDoc("static"),
	}
)

func CreateAndBindFlag(flag Flag, cmd *cobra.Command) {
	switch val := flag.Value.(type) {
	case string:
		cmd.PersistentFlags().StringP(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case bool:
		cmd.PersistentFlags().BoolP(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case []string:
		cmd.PersistentFlags().StringSliceP(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case time.Duration:
		cmd.PersistentFlags().DurationP(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case int:
		cmd.PersistentFlags().IntP(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case int64:
		cmd.PersistentFlags().Int64P(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case uint64:
		cmd.PersistentFlags().Uint64P(flag.GetName(), flag.GetAbbreviation(), val, flag.GetUsage())
	case *big.Int:
		cmd.PersistentFlags().VarP(newBigIntValue(new(big.Int).Set(val)), flag.GetName(), flag.GetAbbreviation(), flag.GetUsage())
	default:
		log.Global.Error("Flag type not supported: " + flag.GetName() + ", " + fmt.Sprintf("%T", val))
	}
	viper.BindPFlag(flag.GetName(), cmd.PersistentFlags().Lookup(flag.GetName()))
}

// helper function that given a cobra flag name, returns the corresponding
// help legend for the equivalent environment variable
func generateEnvDoc(flag string) string {
	envVar := constants.ENV_PREFIX + "_" + envKeyReplacer.Replace(strings.ToUpper(flag))
	return fmt.Sprintf(" [%s]", envVar)
}
