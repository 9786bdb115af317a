package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the stockroom CLI configuration, read from a TOML file.
type Config struct {
	// Backend selects the cache backend: ini, jsonl or bolt.
	Backend string `toml:"backend"`

	// Path is the cache file location. Empty selects the backend's
	// default under the user cache directory.
	Path string `toml:"path"`
}

// defaults returns a Config with sane defaults.
func defaults() *Config {
	return &Config{
		Backend: "ini",
	}
}

// loadConfig reads a TOML config file and returns the parsed Config.
// With an empty path the default location is tried; a missing file there
// just yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(base, "stockroom", "config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
