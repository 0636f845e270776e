package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peoplehub/hrflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hrflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hrflow version %s\n", strings.TrimSpace(hrflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
