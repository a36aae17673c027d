package core

import (
	"errors"
	"math"
	"time"
)

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a string is not a calendar date in DateLayout.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Date is a calendar day without a time of day. The zero value means "no date".
type Date struct {
	t time.Time // midnight UTC
}

// NewDate builds a Date from its components. Out-of-range values are normalized like time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()

	return NewDate(y, m, d)
}

// ParseDate parses s in DateLayout.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Join(ErrInvalidDate, err)
	}

	return Date{t: t}, nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats d in DateLayout, or returns "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.t.Format(DateLayout)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return d.t
}

// AddDays returns d moved by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysSince returns the number of days from other to d. Partial days round up,
// and the result is negative when d is before other.
func (d Date) DaysSince(other Date) int {
	return int(math.Ceil(d.t.Sub(other.t).Hours() / 24))
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the zero Date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
