// Package types provides the core domain types shared across the record
// screening packages.
package types

import (
	"fmt"
	"time"
)

// Date represents a calendar date without a time component. Court documents
// only ever carry whole dates, so comparisons and arithmetic are done in
// days, via time.Time at midnight UTC.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// DocketDateFormat is the date format used throughout court docket sheets.
const DocketDateFormat = "01/02/2006"

// ParseDate parses a docket-style MM/DD/YYYY date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DocketDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ToTime converts a Date to a time.Time at midnight UTC.
func (d Date) ToTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FromTime creates a Date from a time.Time.
func FromTime(t time.Time) Date {
	return Date{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
	}
}

// Today returns the current date.
func Today() Date {
	return FromTime(time.Now())
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before returns true if d is before other.
func (d Date) Before(other Date) bool {
	return d.ToTime().Before(other.ToTime())
}

// After returns true if d is after other.
func (d Date) After(other Date) bool {
	return d.ToTime().After(other.ToTime())
}

// Equal returns true if d equals other.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return FromTime(d.ToTime().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.ToTime().Sub(d.ToTime()).Hours() / 24)
}

// YearsUntil returns the (fractional) number of years from d to other.
func (d Date) YearsUntil(other Date) float64 {
	return float64(d.DaysUntil(other)) / 365.25
}

// String renders the date in ISO form, the interchange format.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalJSON renders the date as an ISO "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

// UnmarshalJSON accepts an ISO "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = FromTime(t)
	return nil
}
