package main

import (
	"context"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear TABLE",
	Short: "Remove every entry of a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Clear(ctx, args[0])
}
