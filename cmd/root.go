// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-quality-stats/internal/config"
	"github.com/naka-gawa/pr-quality-stats/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pr-quality-stats",
	Short: "Reports testing and quality signals of merged GitHub pull requests.",
	Long: `pr-quality-stats polls a fleet of GitHub repositories for merged pull requests,
classifies each one (ships tests, exempt from testing, quality improvement) and
publishes leaderboards and percentages to a dashboard.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (default from LOG_FORMAT)")
}

// newLogger builds the logger from the environment and the persistent flags.
func newLogger(cmd *cobra.Command, env *config.Env) (*slog.Logger, error) {
	cfg := &logger.Config{Level: env.LogLevel, Format: env.LogFormat}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Level = "debug"
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Format = format
	}
	return logger.New(cfg, os.Stderr)
}
