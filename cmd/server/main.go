// Package main is the entry point for the combat MCP server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "combat-api",
	Short: "D&D 5e combat MCP server",
	Long:  `combat-api exposes D&D 5e combat mechanics - dice, attacks, saving throws, initiative, and encounters - as MCP tools over stdio.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
