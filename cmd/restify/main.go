package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "restify",
		Short: "A compiler for REST declaration files",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
