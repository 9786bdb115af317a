package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set TABLE KEY VALUE",
	Short: "Store a value under a key",
	Long: `Store a value under a key. The value is parsed as JSON; a value that
is not valid JSON is stored as a plain string.

Examples:
  stockroom set sessions alice '{"admin": true}'
  stockroom set counters visits 42
  stockroom set greetings en hello`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	table, key, raw := args[0], args[1], args[2]

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		// Plain-string value.
		value = raw
	}

	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Set(ctx, table, key, value)
}
