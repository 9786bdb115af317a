package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Load entries from a zstd-compressed record archive",
	Long: `Load every record of an archive written by 'stockroom backup' into the
configured backend. Existing entries under the same keys are overwritten;
entries not present in the archive are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	records, err := scanRecords(f, func(table, key string, value any) error {
		return client.Set(ctx, table, key, value)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Restored %d entries from %s\n", records, args[0])
	return nil
}
