package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate the server configuration",
}

func init() {
	rootCmd.AddCommand(configCmd)
}
