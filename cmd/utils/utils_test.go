package utils

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/common/constants"
)

// testXDGConfigLoading tests the loading of the config file from the XDG config home
// and verifies values are correctly set in viper.
// This test is nested within the TestCobraFlagConfigLoading test.
func testXDGConfigLoading(t *testing.T) {
	// set configPath to a mock temporary XDG config folder
	mockConfigPath := t.TempDir()
	tempFile := createMockXDGConfigFile(t, mockConfigPath)
	defer tempFile.Close()

	// write 'log-level: debug' config to mock config.yaml file
	_, err := tempFile.WriteString(LogLevelFlag.Name + ": " + "debug\n")
	require.NoError(t, err)

	// Set config path to the temporary config directory
	viper.SetConfigFile(tempFile.Name())

	InitConfig()

	// Assert log level is set to "debug" as per the mock config file
	assert.Equal(t, "debug", viper.GetString(LogLevelFlag.Name))
}

// TestCobraFlagConfigLoading tests the loading of the config file from the XDG config home,
// the loading of the environment variable and the loading of the cobra flag.
// It verifies the expected order of precedence of config loading.
func TestCobraFlagConfigLoading(t *testing.T) {
	// Clear viper instance to simulate a fresh start
	viper.Reset()
	defer viper.Reset()

	// Test loading config from XDG config home
	testXDGConfigLoading(t)
	assert.Equal(t, "debug", viper.GetString(LogLevelFlag.Name))

	// Test loading config from environment variable
	t.Setenv(constants.ENV_PREFIX+"_"+"LOG_LEVEL", "error")
	assert.Equal(t, "error", viper.GetString(LogLevelFlag.Name))

	// Dotted flag names are read from underscored variables
	t.Setenv(constants.ENV_PREFIX+"_"+"DB_ENGINE", "leveldb")
	assert.Equal(t, "leveldb", viper.GetString(DBEngineFlag.Name))

	// Test loading config from cobra flag
	rootCmd := &cobra.Command{}
	CreateAndBindFlag(LogLevelFlag, rootCmd)
	err := rootCmd.PersistentFlags().Set(LogLevelFlag.Name, "trace")
	require.NoError(t, err)
	assert.Equal(t, "trace", viper.GetString(LogLevelFlag.Name))
}

func TestSaveConfigKeepsBackup(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	configFile := filepath.Join(t.TempDir(), "nested", constants.CONFIG_FILE_NAME)
	viper.SetConfigFile(configFile)
	viper.Set(LogLevelFlag.Name, "warn")
	require.NoError(t, SaveConfig())
	require.FileExists(t, configFile)

	viper.Set(LogLevelFlag.Name, "debug")
	require.NoError(t, SaveConfig())
	require.FileExists(t, configFile+".bak")

	backup, err := os.ReadFile(configFile + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "warn")
}

func TestWriteDefaultConfigFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{}
	for _, flag := range BlockFlags {
		CreateAndBindFlag(flag, cmd)
	}
	dir := t.TempDir()
	require.NoError(t, WriteDefaultConfigFile(dir, constants.CONFIG_FILE_NAME, constants.CONFIG_FILE_TYPE))

	data, err := os.ReadFile(filepath.Join(dir, constants.CONFIG_FILE_NAME))
	require.NoError(t, err)
	assert.Contains(t, string(data), "gaslimit")
}

func TestBlockContextFromFlags(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{}
	for _, flag := range BlockFlags {
		CreateAndBindFlag(flag, cmd)
	}
	require.NoError(t, cmd.PersistentFlags().Set(CoinbaseFlag.Name, "0x00000000000000000000000000000000000000cb"))
	require.NoError(t, cmd.PersistentFlags().Set(BaseFeeFlag.Name, "7"))
	require.NoError(t, cmd.PersistentFlags().Set(DifficultyFlag.Name, "131072"))
	require.NoError(t, cmd.PersistentFlags().Set(TimestampFlag.Name, "1700000000"))

	blockCtx, err := MakeBlockContext()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xcb"), blockCtx.Coinbase)
	assert.Equal(t, uint64(1), blockCtx.Number)
	assert.Equal(t, uint64(1700000000), blockCtx.Time)
	assert.Equal(t, big.NewInt(7), blockCtx.BaseFee)
	assert.Equal(t, big.NewInt(131072), blockCtx.Difficulty)

	require.NoError(t, cmd.PersistentFlags().Set(BaseFeeFlag.Name, "seven"))
	_, err = MakeBlockContext()
	assert.Error(t, err)
}

func TestParseEips(t *testing.T) {
	eips, err := parseEips([]string{"3860", " 2929 "})
	require.NoError(t, err)
	assert.Equal(t, []int{3860, 2929}, eips)

	_, err = parseEips([]string{"london"})
	assert.Error(t, err)
}

// helper function to create a mock XDG directory and config file
func createMockXDGConfigFile(t *testing.T, dir string) *os.File {
	t.Helper()
	err := os.MkdirAll(dir, 0755)
	require.NoError(t, err)
	tmpFile, err := os.Create(filepath.Join(dir, constants.CONFIG_FILE_NAME))
	require.NoError(t, err)
	return tmpFile
}
