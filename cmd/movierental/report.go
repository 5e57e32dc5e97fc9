package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/movierental-go/report"
)

type workbookSource interface {
	Workbook() report.Workbook
}

func newReportCommand(c *cli) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Write XLSX reports into the reports directory, or print them with --json",
	}

	generate := func(use, short string, build func(ctx context.Context, g report.Generator) (workbookSource, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := build(cmd.Context(), c.app.reports)
				if err != nil {
					return err
				}

				if c.json {
					return report.WriteJSON(cmd.OutOrStdout(), r)
				}

				path, err := report.WriteXLSX(c.app.reportsDir, r.Workbook())
				if err != nil {
					return err
				}

				return c.message(cmd, "report written to "+path)
			},
		}
	}

	reportCmd.AddCommand(
		generate("movies", "Movie report with genre statistics and top rented titles",
			func(ctx context.Context, g report.Generator) (workbookSource, error) { return g.Movies(ctx) }),
		generate("customers", "Customer report with top renters and pending late fees",
			func(ctx context.Context, g report.Generator) (workbookSource, error) { return g.Customers(ctx) }),
		generate("rentals", "Rental report with open and overdue rentals, genre and producer statistics",
			func(ctx context.Context, g report.Generator) (workbookSource, error) { return g.Rentals(ctx) }),
	)

	return reportCmd
}
