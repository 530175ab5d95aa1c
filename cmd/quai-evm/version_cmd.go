package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dominant-strategies/quai-evm/params"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", rootCmd.Use, params.VersionWithCommit(gitCommit, gitDate), runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
