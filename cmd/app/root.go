package main

import (
	"fmt"
	"os"

	"github.com/Domenick1991/flightclaim/config"
	"github.com/Domenick1991/flightclaim/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "app",
	Short:        "Flight compensation claim service",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(issueTokenCmd)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default $CONFIG_PATH or config.yaml)")
}

func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}
	return config.LoadConfig(path)
}

// setup loads the configuration and installs the global zap logger. The returned func
// flushes and restores the previous logger.
func setup() (*config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	l, err := logger.InitLog(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(l)

	return cfg, func() {
		_ = l.Sync()
		undo()
	}, nil
}
