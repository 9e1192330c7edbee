// Package cli implements the marketd command line.
package cli

import (
	"fmt"
	"os"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "0.1.0-dev"

var (
	// Global flags
	configFile string
	envDir     string
	debug      bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marketd",
	Short: "marketd - multi-token ledger and marketplace daemon",
	Long: `marketd keeps balances of many fungible tokens and runs a marketplace on
top of them: fixed-price listings with whitelists, cooldowns and purchase
limits, escrowed bids, and royalty-aware settlement. Sale proceeds are paid
out asynchronously from a journal.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (default ./marketd.toml)")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding .env files")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

// loadConfig reads the configuration selected by the global flags.
func loadConfig() (*config.Config, error) {
	paths := config.DefaultConfigPaths()
	if configFile != "" {
		paths.Main = configFile
	}
	paths.EnvDir = envDir

	cfg, err := config.LoadConfig(paths)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Debug = true
	}
	if quiet {
		cfg.Log.Level = "warn"
	}
	return cfg, nil
}

// setupLogger installs the process logger described by cfg.
func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	err := logger.Initialize(logger.Config{
		Debug:  cfg.Log.Debug,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, err
	}
	return logger.Default(), nil
}
