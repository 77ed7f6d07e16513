package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/datanexus/internal/flatfile"
)

// ConvertCmd rewrites a table in another format, chosen by the target
// extension (.csv or .xlsx).
func ConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "convert <source> <target>",
		Short:   "Convert a table between CSV and XLSX",
		Example: "  do convert server/data/event_inquiries.csv inquiries.xlsx",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, target := args[0], args[1]
			store := flatfile.NewFileStore()

			if !store.Exists(source) {
				return fmt.Errorf("source %s does not exist", source)
			}

			table, err := store.Load(source)
			if err != nil {
				return err
			}

			err = store.Save(target, table.Columns, table.Rows)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(table.Rows), target)
			return nil
		},
	}
}
