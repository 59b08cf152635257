package main

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Turn a mid-scenario save into a start save for the next scenario",
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
		if err := app.Engine.StartNextScenario(sg); err != nil {
			return err
		}
		if prepare, _ := cmd.Flags().GetBool("expand"); prepare {
			if err := app.Engine.Prepare(sg); err != nil {
				return err
			}
		}
		out, _ := cmd.Flags().GetString("output")
		return app.WriteSave(sg, out, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
	convertCmd.Flags().Bool("expand", false, "Also expand the next scenario")
}
