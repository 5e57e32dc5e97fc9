package main

import (
	"context"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/movierental-go/rental"
)

const (
	dateLayout      = "2006-01-02"
	fieldCustomerID = "customer_id"
	fieldMovieID    = "movie_id"
	fieldRentalID   = "rental_id"
	fieldIssueDate  = "issue_date"
	fieldStatus     = "status"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cli carries the global flags and the app opened for the running command.
type cli struct {
	open  opener
	app   *app
	json  bool
	today string
}

func newCLI(open opener) *cli {
	return &cli{open: open}
}

// execute runs one command line and releases the app afterwards, also when the command failed.
func (c *cli) execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() { c.app.shutdown() }()

	return root.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "movierental",
		Short: "movierental - rental desk for customers, movies and rentals",
		Long: `movierental issues movies to customers, takes them back and settles late fees.
Rental status and late fees are evaluated against today's date, or the date given with --today.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			clock, err := c.clock()
			if err != nil {
				return err
			}

			c.app, err = c.open(cmd.Context(), openOptions{clock: clock, logOut: cmd.ErrOrStderr()})

			return err
		},
	}

	root.PersistentFlags().BoolVar(&c.json, "json", false, "print JSON instead of text tables")
	root.PersistentFlags().StringVar(&c.today, "today", "", "evaluation date YYYY-MM-DD, defaults to the current date")

	root.AddCommand(
		newSchemaCommand(c),
		newCustomerCommand(c),
		newMovieCommand(c),
		newProducerCommand(c),
		newRentalCommand(c),
		newReportCommand(c),
	)

	return root
}

func (c *cli) clock() (rental.Clock, error) {
	if c.today == "" {
		return time.Now, nil
	}

	day, err := parseDate("today", c.today)
	if err != nil {
		return nil, err
	}

	return func() time.Time { return day }, nil
}

// render prints value as JSON with --json, otherwise as the table written by table.
func (c *cli) render(cmd *cobra.Command, value any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()

	if c.json {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	table(tw)

	return tw.Flush()
}

// message prints a confirmation line, or {"message": ...} with --json.
func (c *cli) message(cmd *cobra.Command, text string) error {
	return c.render(cmd, map[string]string{"message": text}, func(w io.Writer) {
		_, _ = io.WriteString(w, text+"\n")
	})
}

func row(w io.Writer, columns ...string) {
	_, _ = io.WriteString(w, strings.Join(columns, "\t")+"\n")
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, rental.ValidationError{Field: field, Reason: "must be a positive integer id"}
	}

	return id, nil
}

func parseDate(field, raw string) (time.Time, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, rental.ValidationError{Field: field, Reason: "must be a date YYYY-MM-DD"}
	}

	return day, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return t.Format(dateLayout)
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
