package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/movierental-go/rental"
)

const defaultPeriodDays = "7"

type rentalListFlags struct {
	customer, movie string
	issued, status  string
	open, oldest    bool
}

func (f rentalListFlags) filter() (rental.RentalFilter, error) {
	builder := rental.BuildRentalFilter().
		CustomerNameContains(f.customer).
		MovieTitleContains(f.movie)

	if f.issued != "" {
		day, err := parseDate(fieldIssueDate, f.issued)
		if err != nil {
			return rental.RentalFilter{}, err
		}

		builder = builder.IssuedOn(day)
	}

	if f.status != "" {
		status, err := parseStatus(f.status)
		if err != nil {
			return rental.RentalFilter{}, err
		}

		builder = builder.WithStatus(status)
	}

	if f.open {
		builder = builder.OnlyOpen()
	}

	if f.oldest {
		builder = builder.OrderBy(rental.OldestFirst)
	}

	return builder.Finalize(), nil
}

func parseStatus(raw string) (rental.Status, error) {
	for _, status := range rental.Statuses() {
		if strings.EqualFold(string(status), strings.TrimSpace(raw)) {
			return status, nil
		}
	}

	return "", rental.ValidationError{Field: fieldStatus, Reason: "must be Active, Returned or Overdue"}
}

func newRentalCommand(c *cli) *cobra.Command {
	rentalCmd := &cobra.Command{
		Use:   "rental",
		Short: "Issue, return and list rentals",
	}

	var period string
	issue := &cobra.Command{
		Use:   "issue [customer-id] [movie-id]",
		Short: "Issue a movie to a customer starting today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID(fieldCustomerID, args[0])
			if err != nil {
				return err
			}

			movieID, err := parseID(fieldMovieID, args[1])
			if err != nil {
				return err
			}

			days, err := rental.ParsePeriod(period)
			if err != nil {
				return err
			}

			issued, err := c.app.ledger.Issue(cmd.Context(), customerID, movieID, days)
			if err != nil {
				return err
			}

			return c.render(cmd, issued, func(w io.Writer) {
				row(w, "RENTAL", "CUSTOMER", "MOVIE", "ISSUED", "DUE")
				row(w, itoa(issued.ID), itoa(issued.CustomerID), itoa(issued.MovieID),
					formatDate(&issued.IssueDate), formatDate(&issued.DueDate))
			})
		},
	}
	issue.Flags().StringVar(&period, "days", defaultPeriodDays, "rental period in days")

	returnCmd := &cobra.Command{
		Use:   "return [rental-id]",
		Short: "Take a movie back and settle the late fee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldRentalID, args[0])
			if err != nil {
				return err
			}

			settlement, err := c.app.ledger.Return(cmd.Context(), id)
			if err != nil {
				return err
			}

			return c.render(cmd, settlement, func(w io.Writer) {
				row(w, "RENTAL", "RETURNED", "DAYS LATE", "LATE FEE")
				row(w, itoa(settlement.RentalID), formatDate(&settlement.ReturnDate),
					strconv.Itoa(settlement.DaysLate), settlement.LateFee.StringFixed(2))
			})
		},
	}

	status := &cobra.Command{
		Use:   "status [rental-id]",
		Short: "Show status, days late and late fee of a rental",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(fieldRentalID, args[0])
			if err != nil {
				return err
			}

			assessment, err := c.app.ledger.Status(cmd.Context(), id)
			if err != nil {
				return err
			}

			return c.render(cmd, assessment, func(w io.Writer) {
				row(w, "RENTAL", "STATUS", "DAYS LATE", "LATE FEE")
				row(w, itoa(id), string(assessment.Status), strconv.Itoa(assessment.DaysLate), assessment.LateFee.StringFixed(2))
			})
		},
	}

	var listFlags rentalListFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List rentals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := listFlags.filter()
			if err != nil {
				return err
			}

			listings, err := c.app.ledger.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return c.renderListings(cmd, listings)
		},
	}
	list.Flags().StringVar(&listFlags.customer, "customer", "", "substring of the customer name")
	list.Flags().StringVar(&listFlags.movie, "movie", "", "substring of the movie title")
	list.Flags().StringVar(&listFlags.issued, "issued", "", "issue date YYYY-MM-DD")
	list.Flags().StringVar(&listFlags.status, "status", "", "Active, Returned or Overdue")
	list.Flags().BoolVar(&listFlags.open, "open", false, "only rentals without a return date")
	list.Flags().BoolVar(&listFlags.oldest, "oldest-first", false, "order by issue date ascending")

	open := &cobra.Command{
		Use:   "open",
		Short: "List the rentals awaiting return, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listings, err := c.app.ledger.OpenRentals(cmd.Context())
			if err != nil {
				return err
			}

			return c.renderListings(cmd, listings)
		},
	}

	rentalCmd.AddCommand(issue, returnCmd, status, list, open)

	return rentalCmd
}

func (c *cli) renderListings(cmd *cobra.Command, listings []rental.Listing) error {
	return c.render(cmd, listings, func(w io.Writer) {
		row(w, "RENTAL", "CUSTOMER", "MOVIE", "ISSUED", "DUE", "RETURNED", "STATUS", "DAYS LATE", "LATE FEE")
		for _, l := range listings {
			row(w,
				itoa(l.ID), l.CustomerName, l.MovieTitle,
				formatDate(&l.IssueDate), formatDate(&l.DueDate), formatDate(l.ReturnDate),
				string(l.Status), strconv.Itoa(l.DaysLate), l.LateFee.StringFixed(2),
			)
		}
	})
}
