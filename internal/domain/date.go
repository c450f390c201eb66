package domain

import (
	"fmt"
	"time"
)

// DateLayout is the day/month/year text form used by the statement sources
// and by every persisted collection (e.g. "05/03/2024").
const DateLayout = "02/01/2006"

// Date is a calendar date carried by transactions. It serializes as
// day/month/year text; optional dates are represented as *Date and
// serialize as null.
type Date struct {
	time.Time
}

// NewDate builds a date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses day/month/year text. Failure wraps ErrFormat.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q: %v", ErrFormat, s, err)
	}
	return Date{t}, nil
}

// String returns the day/month/year text form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as quoted day/month/year text.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero date")
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON decodes quoted day/month/year text.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: date must be a JSON string, got %s", ErrFormat, s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
