package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/savestate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of savestate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "savestate version %s\n", strings.TrimSpace(savestate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
