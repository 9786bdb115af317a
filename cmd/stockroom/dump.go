package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/stockroom"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [TABLE]",
	Short: "Print every entry of one table, or of all tables",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var tables []string
	if len(args) == 1 {
		tables = args
	} else {
		tables, err = client.Tables(ctx)
		if err != nil {
			return err
		}
	}

	for _, table := range tables {
		if err := dumpTable(ctx, client, table); err != nil {
			return err
		}
	}
	return nil
}

func dumpTable(ctx context.Context, client *stockroom.Client, table string) error {
	entries, err := client.Entries(ctx, table)
	if err != nil {
		return err
	}
	for key, value := range entries {
		out, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s.%s: %w", table, key, err)
		}
		fmt.Printf("%s.%s = %s\n", table, key, out)
	}
	return nil
}
