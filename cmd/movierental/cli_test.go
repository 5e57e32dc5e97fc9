package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/movierental-go/rental"
	"github.com/AntonStoeckl/movierental-go/rental/memengine"
	"github.com/AntonStoeckl/movierental-go/shell/config"
)

type harness struct {
	store      *memengine.Store
	reportsDir string
}

func newHarness(t *testing.T) harness {
	t.Helper()

	return harness{
		store:      memengine.NewStore(rental.Producer{ID: 1, Name: "Warner Bros."}),
		reportsDir: t.TempDir(),
	}
}

func (h harness) open(_ context.Context, options openOptions) (*app, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	retry := config.Retry{MaxAttempts: 3, BaseDelay: time.Millisecond}

	return newApp(h.store, nil, logger, options.clock, retry, h.reportsDir)
}

func (h harness) run(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := newCLI(h.open).execute(context.Background(), args, &stdout, &stderr)

	return stdout.String(), err
}

func (h harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := h.run(args...)
	require.NoError(t, err, "error in arranging test data: %v", args)

	return out
}

func (h harness) givenCustomerAndMovie(t *testing.T) {
	t.Helper()

	h.mustRun(t, "customer", "add", "--title", "Ms", "--first-name", "Ada", "--last-name", "Lovelace",
		"--phone", "0123456789", "--email", "ada@example.org")
	h.mustRun(t, "movie", "add", "--title", "Heat", "--year", "1995", "--genre", "Action",
		"--price", "3.50", "--producer", "1")
}

func Test_CLI_RentalLifecycle(t *testing.T) {
	// arrange
	h := newHarness(t)
	h.givenCustomerAndMovie(t)

	// act
	issued := h.mustRun(t, "--today", "2024-03-01", "rental", "issue", "1", "1", "--days", "3")
	returned := h.mustRun(t, "--today", "2024-03-06", "rental", "return", "1")

	// assert
	assert.Contains(t, issued, "2024-03-04", "due date is issue date plus period")
	assert.Contains(t, returned, "2024-03-06")
	assert.Contains(t, returned, "4.00", "two days late at 2 per day")
}

func Test_CLI_JSONListing(t *testing.T) {
	// arrange
	h := newHarness(t)
	h.givenCustomerAndMovie(t)
	h.mustRun(t, "--today", "2024-03-01", "rental", "issue", "1", "1", "--days", "3")

	// act
	out := h.mustRun(t, "--json", "--today", "2024-03-10", "rental", "list", "--status", "overdue")

	// assert
	var listings []struct {
		ID           int64  `json:"id"`
		CustomerName string `json:"customer_name"`
		Status       string `json:"status"`
		DaysLate     int    `json:"days_late"`
		LateFee      string `json:"late_fee"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "Ada Lovelace", listings[0].CustomerName)
	assert.Equal(t, string(rental.StatusOverdue), listings[0].Status)
	assert.Equal(t, 6, listings[0].DaysLate)
	assert.Equal(t, "12", listings[0].LateFee)
}

func Test_CLI_CustomerUpdate_KeepsUnsetFields(t *testing.T) {
	// arrange
	h := newHarness(t)
	h.givenCustomerAndMovie(t)

	// act
	h.mustRun(t, "customer", "update", "1", "--phone", "9876543210")
	out := h.mustRun(t, "--json", "customer", "get", "1")

	// assert
	var customer rental.Customer
	require.NoError(t, json.Unmarshal([]byte(out), &customer))
	assert.Equal(t, "9876543210", customer.Phone)
	assert.Equal(t, "ada@example.org", customer.Email)
	assert.Equal(t, rental.TitleMs, customer.Title)
}

func Test_CLI_Errors(t *testing.T) {
	h := newHarness(t)
	h.givenCustomerAndMovie(t)
	h.mustRun(t, "rental", "issue", "1", "1")

	testCases := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "malformed id", args: []string{"customer", "get", "abc"}, wantCode: exitValidation},
		{name: "unknown customer", args: []string{"customer", "get", "42"}, wantCode: exitNotFound},
		{name: "movie on loan", args: []string{"rental", "issue", "1", "1"}, wantCode: exitConflict},
		{name: "customer with open rental", args: []string{"customer", "delete", "1"}, wantCode: exitConflict},
		{name: "non positive period", args: []string{"rental", "issue", "1", "1", "--days", "0"}, wantCode: exitValidation},
		{name: "unknown status", args: []string{"rental", "list", "--status", "lost"}, wantCode: exitValidation},
		{name: "malformed date", args: []string{"--today", "01.03.2024", "rental", "open"}, wantCode: exitValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := h.run(tc.args...)

			// assert
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, exitCode(err))
		})
	}
}

func Test_CLI_ReturnTwice(t *testing.T) {
	// arrange
	h := newHarness(t)
	h.givenCustomerAndMovie(t)
	h.mustRun(t, "rental", "issue", "1", "1")
	h.mustRun(t, "rental", "return", "1")

	// act
	_, err := h.run("rental", "return", "1")

	// assert
	assert.ErrorIs(t, err, rental.ErrAlreadyReturned)
	assert.Equal(t, exitConflict, exitCode(err))
}

func Test_CLI_ReportWritesWorkbook(t *testing.T) {
	// arrange
	h := newHarness(t)
	h.givenCustomerAndMovie(t)
	h.mustRun(t, "rental", "issue", "1", "1")

	// act
	out := h.mustRun(t, "report", "rentals")

	// assert
	matches, err := filepath.Glob(filepath.Join(h.reportsDir, "Rental_Report_*.xlsx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, out, matches[0])

	info, err := os.Stat(matches[0])
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func Test_CLI_ReportJSON(t *testing.T) {
	// arrange
	h := newHarness(t)
	h.givenCustomerAndMovie(t)

	// act
	out := h.mustRun(t, "--json", "report", "movies")

	// assert
	var decoded struct {
		Movies []struct {
			Title           string `json:"title"`
			CurrentlyRented bool   `json:"currently_rented"`
		} `json:"movies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Movies, 1)
	assert.Equal(t, "Heat", decoded.Movies[0].Title)
	assert.False(t, decoded.Movies[0].CurrentlyRented)
}

func Test_CLI_SchemaApply_WithoutDatabase(t *testing.T) {
	_, err := newHarness(t).run("schema", "apply")

	assert.ErrorIs(t, err, errSchemaUnsupported)
}

func Test_ExitCode(t *testing.T) {
	assert.Equal(t, exitStorage, exitCode(errors.Join(rental.ErrStorage, errors.New("connection refused"))))
	assert.Equal(t, exitFailure, exitCode(errors.New("unknown command")))
}
