// Package main provides the stockroom CLI tool for inspecting and
// manipulating cache files from the command line.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
