// Package config provides configuration loading for mindmetrics.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. Analysis thresholds are externalized here so the heuristic
// policy can be tuned without touching detector or synthesizer logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the complete mindmetrics configuration.
type Config struct {
	Store    StoreConfig    `koanf:"store"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Analysis AnalysisConfig `koanf:"analysis"`
}

// StoreConfig locates the entry database.
type StoreConfig struct {
	// Path to the SQLite database file. Defaults to
	// ~/.local/share/mindmetrics/entries.db.
	Path string `koanf:"path"`
}

// ServerConfig holds the HTTP server settings for `mindmetrics serve`.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "console" or "json".
	Format string `koanf:"format"`
}

// AnalysisConfig holds the heuristic thresholds for the analysis pipeline.
// The defaults are a documented policy, not derived constants; each one can
// be overridden independently.
type AnalysisConfig struct {
	WindowSize             int     `koanf:"window_size"`
	MinTagSupport          int     `koanf:"min_tag_support"`
	TrendThreshold         float64 `koanf:"trend_threshold"`
	AnomalyMildSigma       float64 `koanf:"anomaly_mild_sigma"`
	AnomalyModerateSigma   float64 `koanf:"anomaly_moderate_sigma"`
	SeverePersistenceDays  int     `koanf:"severe_persistence_days"`
	SeverePersistenceSigma float64 `koanf:"severe_persistence_sigma"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Store:   StoreConfig{Path: defaultStorePath()},
		Server:  ServerConfig{Host: "localhost", Port: 9340},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Analysis: AnalysisConfig{
			WindowSize:             7,
			MinTagSupport:          3,
			TrendThreshold:         0.5,
			AnomalyMildSigma:       1.5,
			AnomalyModerateSigma:   2.0,
			SeverePersistenceDays:  3,
			SeverePersistenceSigma: 1.0,
		},
	}
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if err := c.Analysis.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the analysis thresholds.
func (a AnalysisConfig) Validate() error {
	var errs []error
	if a.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("analysis.window_size must be >= 1, got %d", a.WindowSize))
	}
	if a.MinTagSupport < 1 {
		errs = append(errs, fmt.Errorf("analysis.min_tag_support must be >= 1, got %d", a.MinTagSupport))
	}
	if a.TrendThreshold < 0 {
		errs = append(errs, fmt.Errorf("analysis.trend_threshold must be >= 0, got %g", a.TrendThreshold))
	}
	if a.AnomalyMildSigma <= 0 || a.AnomalyModerateSigma <= 0 || a.SeverePersistenceSigma <= 0 {
		errs = append(errs, errors.New("analysis sigma multipliers must be > 0"))
	}
	if a.AnomalyModerateSigma < a.AnomalyMildSigma {
		errs = append(errs, fmt.Errorf(
			"analysis.anomaly_moderate_sigma (%g) must be >= anomaly_mild_sigma (%g)",
			a.AnomalyModerateSigma, a.AnomalyMildSigma))
	}
	if a.SeverePersistenceDays < 2 {
		errs = append(errs, fmt.Errorf("analysis.severe_persistence_days must be >= 2, got %d", a.SeverePersistenceDays))
	}
	return errors.Join(errs...)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "entries.db"
	}
	return filepath.Join(home, ".local", "share", "mindmetrics", "entries.db")
}
