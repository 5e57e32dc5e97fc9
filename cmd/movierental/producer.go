package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newProducerCommand(c *cli) *cobra.Command {
	producer := &cobra.Command{
		Use:   "producer",
		Short: "Producer reference data",
	}

	producer.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all producers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			producers, err := c.app.producers.List(cmd.Context())
			if err != nil {
				return err
			}

			return c.render(cmd, producers, func(w io.Writer) {
				row(w, "ID", "NAME")
				for _, p := range producers {
					row(w, itoa(p.ID), p.Name)
				}
			})
		},
	})

	return producer
}
