// Package main provides the blind-hire command line: the HTTP API server and offline
// scoring, redaction and fixture tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/blind-hire/internal/config"
	"github.com/jonathan/blind-hire/internal/logger"
)

var (
	configPath string
	logJSON    bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "blindhire",
	Short:         "Bias-aware recruitment service",
	Long:          "blindhire screens candidates on skills alone, keeping identity hidden until a recruiter reveals a shortlisted candidate.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit JSON logs")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// loadConfig merges the config file, environment and persistent flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *fileCfg
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = logJSON
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}

	cfg = cfg.MergeWithDefaults(config.Default())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
