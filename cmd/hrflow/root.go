package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hrflow",
	Short: "HRFlow is a conversational HR self-service engine",
	Long: `HRFlow drives leave requests, attendance excuses and balance queries
through a validate-confirm-commit conversation protocol. It can run as an
HTTP API, an MCP server for AI agents, or an interactive chat on the terminal.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
