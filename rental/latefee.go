package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the derived lifecycle state of a Rental.
type Status string

const (
	StatusActive   Status = "Active"
	StatusOverdue  Status = "Overdue"
	StatusReturned Status = "Returned"
)

// Statuses lists all derived statuses in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusReturned, StatusOverdue}
}

const hoursPerDay = 24

// LateFeePerDay is the flat rate charged per full day past the due date.
var LateFeePerDay = decimal.NewFromInt(2)

// Assessment holds the derived fields of a Rental as of one evaluation date.
type Assessment struct {
	Status   Status          `json:"status"`
	DaysLate int             `json:"days_late"`
	LateFee  decimal.Decimal `json:"late_fee"`
}

// Settlement is the outcome of a Return.
type Settlement struct {
	RentalID   int64           `json:"rental_id"`
	ReturnDate time.Time       `json:"return_date"`
	DaysLate   int             `json:"days_late"`
	LateFee    decimal.Decimal `json:"late_fee"`
}

// CalendarDate drops the time of day, keeping the calendar date t has in its own location, as UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from 'from' to 'to', negative if 'to' is earlier.
func DaysBetween(from, to time.Time) int {
	return int(CalendarDate(to).Sub(CalendarDate(from)).Hours() / hoursPerDay)
}

// DueDateFor returns issueDate + periodDays.
func DueDateFor(issueDate time.Time, periodDays int) time.Time {
	return CalendarDate(issueDate).AddDate(0, 0, periodDays)
}

// LateFee returns max(0, daysLate) * LateFeePerDay.
func LateFee(daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}

	return LateFeePerDay.Mul(decimal.NewFromInt(int64(daysLate)))
}

// Assess derives status, days late, and late fee for r.
// The effective end date is the return date when set, otherwise today.
// The same formula is used for open rentals (warning display) and for closing a rental (fee settlement).
func Assess(r Rental, today time.Time) Assessment {
	end := today
	status := StatusActive

	if r.ReturnDate != nil {
		end = *r.ReturnDate
		status = StatusReturned
	}

	daysLate := DaysBetween(r.DueDate, end)

	if status != StatusReturned && daysLate > 0 {
		status = StatusOverdue
	}

	return Assessment{
		Status:   status,
		DaysLate: max(0, daysLate),
		LateFee:  LateFee(daysLate),
	}
}
