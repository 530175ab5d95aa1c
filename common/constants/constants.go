package constants

const (
	APP_NAME = "quai-evm"
	// prefix used to read config parameters from environment variables
	ENV_PREFIX = "QUAI_EVM"
	// config file name
	CONFIG_FILE_NAME = "config.yaml"
	// config file type
	CONFIG_FILE_TYPE = "yaml"
	// name of the state database directory inside the data dir
	STATE_DB_DIR = "statedb"
	// log file name inside the data dir
	LOG_FILE_NAME = "quai-evm.log"
)
