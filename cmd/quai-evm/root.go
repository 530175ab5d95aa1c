package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dominant-strategies/quai-evm/cmd/utils"
	"github.com/dominant-strategies/quai-evm/common/constants"
	"github.com/dominant-strategies/quai-evm/log"
)

var rootCmd = &cobra.Command{
	Use:               constants.APP_NAME,
	Short:             "runs EVM transactions and bytecode against a local ledger",
	PersistentPreRunE: rootCmdPreRun,
	SilenceUsage:      true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		return err
	}
	return nil
}

func init() {
	for _, flag := range utils.GlobalFlags {
		utils.CreateAndBindFlag(flag, rootCmd)
	}
	for _, flag := range utils.DatabaseFlags {
		utils.CreateAndBindFlag(flag, rootCmd)
	}
}

func rootCmdPreRun(cmd *cobra.Command, args []string) error {
	// set logger inmediately after parsing cobra flags
	logLevel := cmd.Flag(utils.LogLevelFlag.Name).Value.String()
	log.SetGlobalLogger("", logLevel)
	// set config path to read config file
	configDir := cmd.Flag(utils.ConfigDirFlag.Name).Value.String()
	viper.SetConfigFile(configDir + constants.CONFIG_FILE_NAME)
	viper.SetConfigType(constants.CONFIG_FILE_TYPE)
	// load config from file and environment variables
	utils.InitConfig()
	// bind cobra flags to viper instance
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error binding flags: %s", err)
	}

	// Make sure data dir and config dir exist
	for _, dir := range []string{configDir, viper.GetString(utils.DataDirFlag.Name)} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}

	// save config file if SAVE_CONFIG_FILE flag is set to true
	saveConfigFile := viper.GetBool(utils.SaveConfigFlag.Name)
	if saveConfigFile {
		err := utils.SaveConfig()
		if err != nil {
			log.WithField("error", err).Error("error saving config file. Skipping...")
		} else {
			log.Debug("config file saved successfully")
		}
	}
	utils.StartMetrics(log.Global)
	log.WithField("options", viper.AllSettings()).Debug("config options loaded")
	return nil
}

// bindFlags registers every flag of the given groups on cmd.
func bindFlags(cmd *cobra.Command, groups ...[]utils.Flag) {
	for _, group := range groups {
		for _, flag := range group {
			utils.CreateAndBindFlag(flag, cmd)
		}
	}
}
