package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/datanexus/internal/config"
	"github.com/templui/datanexus/internal/db"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/repository"
	"github.com/templui/datanexus/internal/service"
)

// AuditCmd prints the newest audit entries straight from the database.
func AuditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent admin changes from the audit database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			database, err := db.Open(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			auditService := service.NewAuditService(repository.NewAuditRepository(database))
			entries, err := auditService.Recent(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tACTOR\tACTION\tTARGET\tKEY")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.UTC().Format(model.TimeFormat), e.Actor, e.Action, e.Target, e.Key)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultAuditLimit, "number of entries")
	return cmd
}
