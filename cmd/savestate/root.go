package main

import (
	"fmt"
	"os"

	"github.com/aretw0/savestate/internal/cli"
	"github.com/aretw0/savestate/internal/config"
	"github.com/aretw0/savestate/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "savestate",
	Short: "savestate manages saved games of a turn-based campaign",
	Long: `savestate reads saved games, resolves and expands their scenarios against the game
content, converts finished scenarios into start saves for the next one and keeps saves in a
file or Redis store.

Settings come from SAVESTATE_* environment variables; flags override them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("catalog", "", "Directory with the game content catalog (eras, modifications, scenarios)")
	flags.String("maps", "", "Directory map files are read from")
	flags.String("generators", "", "Directory with the Lua scenario and map generators")
	flags.String("store", "", "Directory of the file save store")
	flags.String("redis", "", "Redis address; saves go to Redis instead of the file store")
	flags.String("stats-db", "", "SQLite database the statistics of loaded saves are kept in")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	override := func(name string, target *string) {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("catalog", &cfg.CatalogDir)
	override("maps", &cfg.MapDir)
	override("generators", &cfg.GeneratorDir)
	override("store", &cfg.StoreDir)
	override("redis", &cfg.RedisAddr)
	override("stats-db", &cfg.StatisticsDB)

	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return cfg, fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	return cfg, nil
}

// newApp builds the application for a command. The caller closes it.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cfg, logging.New(cfg.LogLevel))
}
