package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/movierental-go/rental/postgresengine"
)

func newSchemaCommand(c *cli) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Database schema management",
	}

	schema.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create missing tables and indexes and seed the producers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.app.schema == nil {
				return errSchemaUnsupported
			}

			producers := postgresengine.DefaultProducers()
			if err := c.app.schema.ApplySchema(cmd.Context(), producers...); err != nil {
				return err
			}

			return c.message(cmd, fmt.Sprintf("schema applied, %d producers seeded", len(producers)))
		},
	})

	return schema
}
