package main

import (
	"github.com/aretw0/savestate/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize a save",
	Long:  `Prints the stage, sides and carryover of a save. Use "-" to read from stdin.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		sg, err := app.ReadSave(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		return cli.Inspect(cmd.OutOrStdout(), sg)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
