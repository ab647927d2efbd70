// Package temporal encodes calendar dates, including BCE years, into the
// store's date-literal convention and back.
//
// The store accepts pre-common-era dates only with an explicit era suffix
// ("0584-05-28 BC"); common-era dates are plain zero-padded ISO
// ("0029-11-24"). Years follow the historical convention: year 0 and all
// negative years are BCE, with -584 meaning 585 BCE in astronomical
// numbering but rendered here as "584 BC" exactly as the sources quote it.
package temporal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadLiteral is returned when a stored date literal cannot be parsed.
var ErrBadLiteral = errors.New("malformed date literal")

// Date is a calendar date. Year <= 0 denotes BCE.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate builds a date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// YearOnly builds a date for the first day of the given year. Used for
// period bounds that arrive as bare year integers.
func YearOnly(year int) Date {
	return Date{Year: year, Month: 1, Day: 1}
}

// BCE reports whether the date is pre-common-era. Year 0 is BCE: the suffix
// must be present for all non-positive years, since downstream display
// relies on it.
func (d Date) BCE() bool {
	return d.Year <= 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Literal renders the date in the store's literal convention.
func (d Date) Literal() string {
	if d.BCE() {
		return fmt.Sprintf("%04d-%02d-%02d BC", abs(d.Year), d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Display renders the year with its era for human output, e.g. "584 BCE"
// or "29 CE".
func (d Date) Display() string {
	if d.BCE() {
		return fmt.Sprintf("%d BCE", abs(d.Year))
	}
	return fmt.Sprintf("%d CE", d.Year)
}

// ParseLiteral recovers a Date from a stored literal, round-tripping the
// output of Literal.
func ParseLiteral(s string) (Date, error) {
	bce := false
	if rest, ok := strings.CutSuffix(s, " BC"); ok {
		bce = true
		s = rest
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrBadLiteral, s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrBadLiteral, s)
		}
		nums[i] = n
	}

	year := nums[0]
	if bce {
		year = -year
	}
	return Date{Year: year, Month: nums[1], Day: nums[2]}, nil
}

// DisplayLiteral parses a stored literal and renders its era display form.
// Malformed literals come back unchanged rather than failing a report line.
func DisplayLiteral(s string) string {
	d, err := ParseLiteral(s)
	if err != nil {
		return s
	}
	return d.Display()
}
