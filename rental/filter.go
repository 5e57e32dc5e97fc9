package rental

import (
	"strings"
	"time"
)

// SortOrder orders rental listings by issue date.
type SortOrder string

const (
	// NewestFirst is the listing view order.
	NewestFirst SortOrder = "issue_date_desc"

	// OldestFirst is the order of the "open rentals awaiting return" view.
	OldestFirst SortOrder = "issue_date_asc"
)

/***** RentalFilter *****/

// RentalFilter is a conjunction of optional predicates over rental records.
// Absent predicates impose no restriction. Ties on the issue date are broken by rental id in the same direction.
type RentalFilter struct {
	customerNameContains string
	movieTitleContains   string
	issueDate            *time.Time
	status               Status
	openOnly             bool
	order                SortOrder
}

func (f RentalFilter) CustomerNameContains() string {
	return f.customerNameContains
}

func (f RentalFilter) MovieTitleContains() string {
	return f.movieTitleContains
}

// IssueDate returns the issue date predicate and whether it is set.
func (f RentalFilter) IssueDate() (time.Time, bool) {
	if f.issueDate == nil {
		return time.Time{}, false
	}

	return *f.issueDate, true
}

// Status returns the status predicate, empty when absent.
func (f RentalFilter) Status() Status {
	return f.status
}

func (f RentalFilter) OpenOnly() bool {
	return f.openOnly
}

func (f RentalFilter) Order() SortOrder {
	if f.order == "" {
		return NewestFirst
	}

	return f.order
}

// Matches evaluates the filter in memory against a record, with status derived as of today.
// Stores without a query language use it; SQL stores translate the same predicates.
func (f RentalFilter) Matches(record RentalRecord, today time.Time) bool {
	if f.customerNameContains != "" && !containsFold(record.CustomerName, f.customerNameContains) {
		return false
	}

	if f.movieTitleContains != "" && !containsFold(record.MovieTitle, f.movieTitleContains) {
		return false
	}

	if f.issueDate != nil && !CalendarDate(record.IssueDate).Equal(*f.issueDate) {
		return false
	}

	if f.openOnly && !record.IsOpen() {
		return false
	}

	if f.status != "" && Assess(record.Rental, today).Status != f.status {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

/***** RentalFilterBuilder *****/

// RentalFilterBuilder builds a RentalFilter.
// It sanitizes the input: text predicates are trimmed and blanks ignored, the issue date is truncated to
// its calendar date, and unknown statuses are ignored.
type RentalFilterBuilder struct {
	filter RentalFilter
}

// BuildRentalFilter starts an empty RentalFilter.
func BuildRentalFilter() RentalFilterBuilder {
	return RentalFilterBuilder{}
}

func (b RentalFilterBuilder) CustomerNameContains(s string) RentalFilterBuilder {
	b.filter.customerNameContains = strings.TrimSpace(s)

	return b
}

func (b RentalFilterBuilder) MovieTitleContains(s string) RentalFilterBuilder {
	b.filter.movieTitleContains = strings.TrimSpace(s)

	return b
}

func (b RentalFilterBuilder) IssuedOn(date time.Time) RentalFilterBuilder {
	d := CalendarDate(date)
	b.filter.issueDate = &d

	return b
}

func (b RentalFilterBuilder) WithStatus(status Status) RentalFilterBuilder {
	switch status {
	case StatusActive, StatusOverdue, StatusReturned:
		b.filter.status = status
	default:
		b.filter.status = ""
	}

	return b
}

// OnlyOpen restricts the result to rentals without a return date.
func (b RentalFilterBuilder) OnlyOpen() RentalFilterBuilder {
	b.filter.openOnly = true

	return b
}

func (b RentalFilterBuilder) OrderBy(order SortOrder) RentalFilterBuilder {
	switch order {
	case NewestFirst, OldestFirst:
		b.filter.order = order
	default:
		b.filter.order = NewestFirst
	}

	return b
}

// Finalize returns the built filter.
func (b RentalFilterBuilder) Finalize() RentalFilter {
	return b.filter
}

// OpenRentalsFilter is the "open rentals awaiting return" view: open rentals, oldest first.
func OpenRentalsFilter() RentalFilter {
	return BuildRentalFilter().OnlyOpen().OrderBy(OldestFirst).Finalize()
}
