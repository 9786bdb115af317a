package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/stockroom"
)

var (
	// Global flags.
	configPath string
	backend    string
	cachePath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "stockroom",
	Short: "Inspect and manipulate stockroom cache files",
	Long: `Stockroom is a CLI tool for working with stockroom cache files: an
INI-style snapshot, a line-oriented record log, or an embedded bbolt
database.

Examples:
  # Store and read back a value
  stockroom set sessions alice '{"admin": true}'
  stockroom get sessions alice

  # Dump every table of a record-log cache
  stockroom dump --backend jsonl --path ./cache.jsonl

  # Export the whole cache to a compressed archive
  stockroom backup cache-backup.jsonl.zst`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "cache backend: ini, jsonl or bolt")
	rootCmd.PersistentFlags().StringVarP(&cachePath, "path", "p", "", "cache file location")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// openClient builds a started client from the config file and flags.
// Flags override config file values. The returned client must be closed
// by the caller.
func openClient(ctx context.Context) (*stockroom.Client, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if cachePath != "" {
		cfg.Path = cachePath
	}

	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	var opt stockroom.Option
	switch cfg.Backend {
	case "ini":
		opt, err = stockroom.WithINIFile(cfg.Path)
	case "jsonl":
		opt, err = stockroom.WithRecordLogFile(cfg.Path)
	case "bolt":
		opt, err = stockroom.WithBoltDB(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown backend %q (want ini, jsonl or bolt)", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	client, err := stockroom.New(opt, stockroom.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	if err := client.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting client: %w", err)
	}
	return client, nil
}
