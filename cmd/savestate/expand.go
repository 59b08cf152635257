package main

import (
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand <file>",
	Short: "Resolve and expand the scenario of a save",
	Long: `Runs the expansion pipeline: the pending scenario is looked up in the catalog, era and
modification events are added, random scenarios and maps are generated, options are applied
and the carryover is merged into the sides.`,
	Args: cobra.ExactArgs(1),
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
		if err := app.Engine.Prepare(sg); err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		return app.WriteSave(sg, out, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
	expandCmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
}
