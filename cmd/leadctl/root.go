package main

import (
	"fmt"

	"nasu-match/internal/app"
	"nasu-match/internal/config"
	"nasu-match/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const cliName = "leadctl"

// Actual version can be specified in build command.
var version = "unknown"

var rootCmd = &cobra.Command{
	Use:          cliName,
	Short:        "leadctl operates the store lead counter and match scorer from the shell",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", cliName, version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(versionCmd)
}

func newLogger() (*zap.Logger, error) {
	level, format := "info", "console"
	if viper.GetBool("debug") {
		level = "debug"
	}
	if viper.GetBool("json") {
		format = "json"
	}
	return logger.New(level, format)
}

// openContainer loads the service configuration from the environment and
// builds the same dependency graph the server uses.
func openContainer() (*app.Container, *zap.Logger, error) {
	log, err := newLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, log, fmt.Errorf("loading config: %w", err)
	}

	c, err := app.NewContainer(cfg, log)
	if err != nil {
		return nil, log, fmt.Errorf("building container: %w", err)
	}
	return c, log, nil
}
