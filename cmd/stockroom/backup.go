package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup FILE",
	Short: "Export the whole cache to a zstd-compressed record archive",
	Long: `Export every table and entry to a zstd-compressed archive of one
[table, key, value] JSON record per line. The archive can be loaded into
any backend with 'stockroom restore'.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating compressor: %w", err)
	}

	tables, err := client.Tables(ctx)
	if err != nil {
		return err
	}

	records := 0
	for _, table := range tables {
		entries, err := client.Entries(ctx, table)
		if err != nil {
			return err
		}
		for key, value := range entries {
			line, err := json.Marshal([]any{table, key, value})
			if err != nil {
				return fmt.Errorf("encoding %s.%s: %w", table, key, err)
			}
			if _, err := zw.Write(append(line, '\n')); err != nil {
				return fmt.Errorf("writing archive: %w", err)
			}
			records++
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	fmt.Printf("Backed up %d entries from %d tables to %s\n", records, len(tables), args[0])
	return nil
}

// scanRecords is shared by restore; kept here so backup.go and restore.go
// stay symmetric around the archive format.
func scanRecords(f *os.File, apply func(table, key string, value any) error) (int, error) {
	zr, err := zstd.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("creating decompressor: %w", err)
	}
	defer zr.Close()

	records := 0
	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record []json.RawMessage
		if err := json.Unmarshal(line, &record); err != nil {
			return records, fmt.Errorf("parsing record %d: %w", records+1, err)
		}
		if len(record) != 3 {
			return records, fmt.Errorf("record %d has %d elements, want 3", records+1, len(record))
		}
		var (
			table, key string
			value      any
		)
		if err := json.Unmarshal(record[0], &table); err != nil {
			return records, fmt.Errorf("record %d table: %w", records+1, err)
		}
		if err := json.Unmarshal(record[1], &key); err != nil {
			return records, fmt.Errorf("record %d key: %w", records+1, err)
		}
		if err := json.Unmarshal(record[2], &value); err != nil {
			return records, fmt.Errorf("record %d value: %w", records+1, err)
		}
		if err := apply(table, key, value); err != nil {
			return records, err
		}
		records++
	}
	return records, scanner.Err()
}
