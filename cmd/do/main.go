package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/datanexus/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Operator tools for the DataNexus backend",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.HashPasswordCmd())
	rootCmd.AddCommand(cmd.TablesCmd())
	rootCmd.AddCommand(cmd.ConvertCmd())
	rootCmd.AddCommand(cmd.AuditCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
