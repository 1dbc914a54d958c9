// Package config loads the optional TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jrasky/bis/internal/pathutil"
)

// Config holds user preferences. Every field is optional; zero values
// fall back to the defaults applied by Load.
type Config struct {
	// Prompt is the text drawn before the query.
	Prompt string `toml:"prompt"`

	// HistFile overrides $HISTFILE as the history source.
	HistFile string `toml:"histfile"`

	// Log controls the debug log file.
	Log LogConfig `toml:"log"`
}

// LogConfig controls where and how much the tool logs. Logging stays
// off unless a level is set, since stderr belongs to the terminal UI.
type LogConfig struct {
	// File is the log destination. Defaults next to the config file.
	File string `toml:"file"`

	// Level enables logging when set: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// MaxSizeMB caps the log file before rotation.
	MaxSizeMB int `toml:"max_size_mb"`

	// MaxBackups caps the number of rotated files kept.
	MaxBackups int `toml:"max_backups"`
}

// Path returns the config file location: $BIS_CONFIG when set,
// otherwise ~/.config/bis/config.toml.
func Path() (string, error) {
	if p := os.Getenv("BIS_CONFIG"); p != "" {
		return pathutil.Expand(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locate home: %w", err)
	}
	return filepath.Join(home, ".config", "bis", "config.toml"), nil
}

// Load reads the config file at path. A missing file is not an error;
// defaults are returned. A file that exists but fails to parse is an
// error, so a typo does not silently degrade to defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(cfg, path)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Prompt: "Match: ",
		Log: LogConfig{
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

func applyDefaults(cfg *Config, path string) {
	if cfg.Prompt == "" {
		cfg.Prompt = "Match: "
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(path), "bis.log")
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 5
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 2
	}
}
