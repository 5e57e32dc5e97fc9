package postgresengine

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/movierental-go/rental"
)

// ErrUnexpectedColumnType is returned when a column value cannot be converted to the requested type.
var ErrUnexpectedColumnType = errors.New("unexpected column type")

// Row maps column names to the values decoded by the driver. SQL NULL is nil.
// The accessors accept the representations of all supported drivers, e.g. a numeric column
// arrives as pgtype.Numeric from pgx and as []byte from lib/pq.
type Row map[string]any

// IsNull reports whether the column is NULL or absent.
func (r Row) IsNull(column string) bool {
	v, ok := r[column]
	if !ok || v == nil {
		return true
	}

	if valuer, isValuer := v.(driver.Valuer); isValuer {
		raw, err := valuer.Value()
		return err == nil && raw == nil
	}

	return false
}

// Int64 returns an integer column.
func (r Row) Int64(column string) (int64, error) {
	switch v := r.resolve(column).(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, unexpectedType(column, v)
	}
}

// Int returns an integer column as int.
func (r Row) Int(column string) (int, error) {
	v, err := r.Int64(column)

	return int(v), err
}

// String returns a text column, "" when NULL.
func (r Row) String(column string) (string, error) {
	switch v := r.resolve(column).(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", unexpectedType(column, v)
	}
}

// Decimal returns a numeric column, zero when NULL.
func (r Row) Decimal(column string) (decimal.Decimal, error) {
	switch v := r.resolve(column).(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		return decimal.NewFromString(v)
	case []byte:
		return decimal.NewFromString(string(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	default:
		return decimal.Zero, unexpectedType(column, v)
	}
}

// Bool returns a boolean column.
func (r Row) Bool(column string) (bool, error) {
	switch v := r.resolve(column).(type) {
	case bool:
		return v, nil
	case []byte:
		return strconv.ParseBool(string(v))
	case string:
		return strconv.ParseBool(v)
	default:
		return false, unexpectedType(column, v)
	}
}

// Date returns a date column as its calendar date at UTC midnight.
func (r Row) Date(column string) (time.Time, error) {
	switch v := r.resolve(column).(type) {
	case time.Time:
		return rental.CalendarDate(v), nil
	case string:
		return parseDate(column, v)
	case []byte:
		return parseDate(column, string(v))
	default:
		return time.Time{}, unexpectedType(column, v)
	}
}

// NullableDate returns a date column, nil when NULL.
func (r Row) NullableDate(column string) (*time.Time, error) {
	if r.IsNull(column) {
		return nil, nil
	}

	d, err := r.Date(column)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// resolve unwraps driver.Valuer values such as pgtype.Numeric into their driver representation.
func (r Row) resolve(column string) any {
	v := r[column]

	if valuer, ok := v.(driver.Valuer); ok {
		raw, err := valuer.Value()
		if err != nil {
			return v
		}

		return raw
	}

	return v
}

func parseDate(column, s string) (time.Time, error) {
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %s: %q", ErrUnexpectedColumnType, column, s)
	}

	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %w", ErrUnexpectedColumnType, column, err)
	}

	return t, nil
}

func unexpectedType(column string, v any) error {
	return fmt.Errorf("%w: %s: %T", ErrUnexpectedColumnType, column, v)
}
