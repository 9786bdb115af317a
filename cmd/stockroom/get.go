package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get TABLE KEY",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	table, key := args[0], args[1]

	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	value, ok, err := client.Get(ctx, table, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s.%s: not found", table, key)
	}

	out, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
