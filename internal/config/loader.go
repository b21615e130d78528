package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix guards against unrelated environment variables leaking into the
// config tree.
const envPrefix = "MINDMETRICS_"

// Load builds configuration with the following precedence (highest first):
//
//  1. Environment variables (MINDMETRICS_ANALYSIS_WINDOW_SIZE, ...)
//  2. YAML config file (default ~/.config/mindmetrics/config.yaml)
//  3. Hardcoded defaults
//
// A missing config file is not an error; the defaults simply apply. The
// loaded config is validated before being returned.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "mindmetrics", "config.yaml")
	}

	if content, err := os.ReadFile(configPath); err == nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Environment overrides. The transformer maps the variable name onto the
	// YAML tree: MINDMETRICS_ANALYSIS_WINDOW_SIZE -> analysis.window_size,
	// MINDMETRICS_STORE_PATH -> store.path. Split on the first underscore
	// after the prefix: section, then field name with underscores intact.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
