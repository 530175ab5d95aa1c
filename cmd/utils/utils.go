package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dominant-strategies/quai-evm/common/constants"
	"github.com/dominant-strategies/quai-evm/log"
)

// envKeyReplacer maps flag names to environment variable suffixes.
var envKeyReplacer = strings.NewReplacer("-", "_", ".", "_")

// InitConfig initializes the viper config instance ensuring that environment variables
// take precedence over config file parameters.
// Environment variables should be prefixed with the application name (e.g. QUAI_EVM_LOG_LEVEL).
// It panics if an error occurs while reading the config file.
func InitConfig() {
	// read in config file and merge with defaults
	log.Global.Infof("Loading config from file: %s", viper.ConfigFileUsed())
	err := viper.ReadInConfig()
	if err != nil {
		// if error is type ConfigFileNotFoundError or fs.PathError, ignore error
		if _, ok := err.(*fs.PathError); ok || errors.Is(err, viper.ConfigFileNotFoundError{}) {
			log.Global.Warnf("Config file not found: %s", viper.ConfigFileUsed())
		} else {
			log.Global.Errorf("Error reading config file: %s", err)
			// config file was found but another error was produced. Cannot continue
			panic(err)
		}
	}

	log.Global.Infof("Loading config from environment variables with prefix: '%s_'", constants.ENV_PREFIX)
	viper.SetEnvPrefix(constants.ENV_PREFIX)
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
}

// SaveConfig saves the config file with the current config parameters.
//
// If the config file does not exist, it creates it.
//
// If the config file exists, it creates a backup copy ending with .bak
// and overwrites the existing config file.
func SaveConfig() error {
	// check if config file exists
	configFile := viper.ConfigFileUsed()
	log.Global.Debugf("saving/updating config file: %s", configFile)
	if _, err := os.Stat(configFile); err == nil {
		// config file exists, create backup copy
		err := os.Rename(configFile, configFile+".bak")
		if err != nil {
			return err
		}
	} else if os.IsNotExist(err) {
		// config file does not exist, create directory if it does not exist
		if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
			return err
		}
	} else {
		return err
	}

	// write config file
	return viper.WriteConfigAs(configFile)
}

// WriteDefaultConfigFile writes the current settings, flag defaults included,
// to a new config file in configDir.
func WriteDefaultConfigFile(configDir string, configFileName string, configType string) error {
	path := filepath.Join(configDir, configFileName)
	viper.SetConfigType(configType)
	return viper.WriteConfigAs(path)
}
