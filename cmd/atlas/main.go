// Package main provides the atlas CLI entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-atlas/pkg/config"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath  string
	envFile     string
	logLevel    string
	humanOutput bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Build, cluster and lay out entity graphs from encyclopedia and forum corpora",
	Long: `atlas turns a corpus of linked articles and a corpus of forum posts into
two graphs over the same entities, labels their nodes with root categories
and Louvain communities, lays them out and writes one JSON view per graph.

Commands print JSON by default; pass --human for a readable summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "atlas.yaml", "Path to the run configuration")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// loadEnv reads the env file when present; variables already set win
func loadEnv() {
	if envFile == "" {
		return
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		logging.Warn("Failed to load env file", logging.Path(envFile), logging.Error(err))
	}
}

// mustLoadConfig loads the config and installs the logger it describes
func mustLoadConfig() (*config.Config, logging.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(level))
	logging.SetDefaultLogger(logger)
	return cfg, logger
}
