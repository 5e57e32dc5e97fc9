package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AntonStoeckl/movierental-go/rental"
)

type customerFlags struct {
	input rental.CustomerInput
}

func (f *customerFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.input.Title, "title", "", "title: Mr, Mrs, Ms, Dr or Prof")
	flags.StringVar(&f.input.FirstName, "first-name", "", "first name")
	flags.StringVar(&f.input.LastName, "last-name", "", "last name")
	flags.StringVar(&f.input.Phone, "phone", "", "phone number, 10 digits")
	flags.StringVar(&f.input.Email, "email", "", "email address")
}

// mergeInto overrides the fields of current whose flags were set.
func (f *customerFlags) mergeInto(flags *pflag.FlagSet, current rental.Customer) rental.CustomerInput {
	merged := rental.CustomerInput{
		Title:     string(current.Title),
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Phone:     current.Phone,
		Email:     current.Email,
	}

	set := map[string]func(){
		"title":      func() { merged.Title = f.input.Title },
		"first-name": func() { merged.FirstName = f.input.FirstName },
		"last-name":  func() { merged.LastName = f.input.LastName },
		"phone":      func() { merged.Phone = f.input.Phone },
		"email":      func() { merged.Email = f.input.Email },
	}

	flags.Visit(func(flag *pflag.Flag) {
		if apply, ok := set[flag.Name]; ok {
			apply()
		}
	})

	return merged
}

func newCustomerCommand(c *cli) *cobra.Command {
	customer := &cobra.Command{
		Use:   "customer",
		Short: "Customer management commands",
	}

	var addFlags customerFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := c.app.customers.Add(cmd.Context(), addFlags.input)
			if err != nil {
				return err
			}

			return c.renderCustomers(cmd, false, created)
		},
	}
	addFlags.register(add.Flags())

	var updateFlags customerFlags
	update := &cobra.Command{
		Use:   "update [customer-id]",
		Short: "Change a customer, unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldCustomerID, args[0])
			if err != nil {
				return err
			}

			current, err := c.app.customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			updated, err := c.app.customers.Update(cmd.Context(), id, updateFlags.mergeInto(cmd.Flags(), current))
			if err != nil {
				return err
			}

			return c.renderCustomers(cmd, false, updated)
		},
	}
	updateFlags.register(update.Flags())

	remove := &cobra.Command{
		Use:   "delete [customer-id]",
		Short: "Delete a customer without open rentals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldCustomerID, args[0])
			if err != nil {
				return err
			}

			if err := c.app.customers.Delete(cmd.Context(), id); err != nil {
				return err
			}

			return c.message(cmd, fmt.Sprintf("customer %d deleted", id))
		},
	}

	get := &cobra.Command{
		Use:   "get [customer-id]",
		Short: "Show one customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldCustomerID, args[0])
			if err != nil {
				return err
			}

			found, err := c.app.customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return c.renderCustomers(cmd, false, found)
		},
	}

	var filter rental.CustomerFilter
	search := &cobra.Command{
		Use:   "search",
		Short: "Search customers by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := c.app.customers.Search(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return c.renderCustomers(cmd, true, found...)
		},
	}
	search.Flags().StringVar(&filter.NameContains, "name", "", "substring of first or last name")
	search.Flags().Int64Var(&filter.ID, "id", 0, "customer id")

	customer.AddCommand(add, update, remove, get, search)

	return customer
}

func (c *cli) renderCustomers(cmd *cobra.Command, list bool, customers ...rental.Customer) error {
	var value any = customers
	if !list && len(customers) == 1 {
		value = customers[0]
	}

	return c.render(cmd, value, func(w io.Writer) {
		row(w, "ID", "TITLE", "NAME", "PHONE", "EMAIL")
		for _, cu := range customers {
			row(w, itoa(cu.ID), string(cu.Title), cu.FullName(), cu.Phone, cu.Email)
		}
	})
}
