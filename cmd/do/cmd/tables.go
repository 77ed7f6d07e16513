package cmd

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/config"
	"github.com/templui/datanexus/internal/flatfile"
)

// TablesCmd checks that every catalog table is present and parses.
func TablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List catalog tables with their row counts and check that they parse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			cat, err := catalog.Load(cfg.CatalogPath, cfg.DataRoot)
			if err != nil {
				return err
			}

			store := flatfile.NewFileStore()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILE\tPRIMARY KEY\tCOLUMNS\tROWS\tSTATUS")

			failed := 0
			for _, t := range cat.Tables {
				status := "ok"
				columns, rows := 0, 0

				switch {
				case !store.Exists(t.Path):
					status = "missing"
					failed++
				default:
					data, err := store.Load(t.Path)
					if err != nil {
						status = err.Error()
						failed++
						break
					}
					columns, rows = len(data.Columns), len(data.Rows)
					if !slices.Contains(data.Columns, t.PrimaryKey) {
						status = "no primary key column"
						failed++
					}
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", t.ID, t.Path, t.PrimaryKey, columns, rows, status)
			}

			err = w.Flush()
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tables failed the check", failed, len(cat.Tables))
			}
			return nil
		},
	}
}
