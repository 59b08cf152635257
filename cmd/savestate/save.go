package main

import (
	"fmt"

	"github.com/aretw0/savestate/internal/cli"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Manage the save store",
}

var saveListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored saves",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ids, err := app.Sessions.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var saveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored save",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		sg, err := app.Sessions.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			return cli.Inspect(cmd.OutOrStdout(), sg)
		}
		return app.WriteSave(sg, "", cmd.OutOrStdout())
	},
}

var savePutCmd = &cobra.Command{
	Use:   "put <id> <file>",
	Short: "Store a save file under an id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		sg, err := app.ReadSave(args[1], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := app.Sessions.Save(cmd.Context(), args[0], sg); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.ErrOrStderr(), "Stored '%s'.", args[0])
		return nil
	},
}

var saveRemoveCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"remove"},
	Short:   "Delete stored saves",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		for _, id := range args {
			if err := app.Sessions.Delete(cmd.Context(), id); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	saveCmd.AddCommand(saveListCmd, saveShowCmd, savePutCmd, saveRemoveCmd)
	saveShowCmd.Flags().Bool("summary", false, "Print the summary instead of the document")
}
