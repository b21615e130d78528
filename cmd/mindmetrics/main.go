// Package main implements the mindmetrics CLI: daily mood logging and
// analytical reports over a local entry store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mindmetrics/internal/config"
	"github.com/fyrsmithlabs/mindmetrics/internal/logging"
	"github.com/fyrsmithlabs/mindmetrics/internal/store"
)

var (
	configPath string
	storePath  string
	logLevel   string

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mindmetrics",
	Short: "Track daily mood and surface trends, patterns, and gentle nudges",
	Long: `mindmetrics keeps a local journal of daily mood scores, context tags, and
free-text notes, and turns them into a report: personal baseline, rolling
trend, tag patterns, low-mood anomalies, and recommendations.

It is a reflection aid, not a diagnostic tool.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/mindmetrics/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "override the entry database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mindmetrics version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mindmetrics %s\n", version)
	},
}

// loadConfig applies the persistent flag overrides on top of file/env config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format)
}

func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open entry store: %w", err)
	}
	return st, nil
}
