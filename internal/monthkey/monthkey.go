// Package monthkey provides the canonical "YYYY-MM" calendar month value used
// to bucket activity. Keys are immutable strings; zero-padding makes
// lexicographic comparison a valid total order.
package monthkey

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the wire format of a month key.
const Layout = "2006-01"

// monthsPerYear is the number of calendar months in a year.
const monthsPerYear = 12

// ErrInvalidKey is returned when a string does not parse as "YYYY-MM".
var ErrInvalidKey = errors.New("monthkey: invalid key")

// Key identifies one UTC calendar month, formatted "YYYY-MM".
type Key string

// Of returns the key of the UTC calendar month containing t.
func Of(t time.Time) Key {
	return Key(t.UTC().Format(Layout))
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	_, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}

	return Key(s), nil
}

// String returns the key in its wire format.
func (k Key) String() string {
	return string(k)
}

// Time returns the first instant of the month in UTC.
// Invalid keys return the zero time.
func (k Key) Time() time.Time {
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}
	}

	return t
}

// Year returns the four-digit year component.
func (k Key) Year() int {
	return k.Time().Year()
}

// Next returns the key of the following calendar month.
func (k Key) Next() Key {
	return k.Add(1)
}

// Prev returns the key of the preceding calendar month.
func (k Key) Prev() Key {
	return k.Add(-1)
}

// Add steps the key by n calendar months, negative n steps backwards.
// The receiver is never mutated; stepping is pure calendar arithmetic on the
// first day of the month, so month-end clamping can never occur.
func (k Key) Add(n int) Key {
	return Of(k.Time().AddDate(0, n, 0))
}

// Before reports whether k precedes other.
func (k Key) Before(other Key) bool {
	return k < other
}

// YearRange returns the twelve keys of the calendar year containing k.
func (k Key) YearRange() (Key, Key) {
	year := k.Time().Year()

	return Of(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		Of(time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC))
}

// Range returns every key from start through end inclusive, in ascending
// order. An inverted range yields nil.
func Range(start, end Key) []Key {
	if end.Before(start) {
		return nil
	}

	keys := make([]Key, 0, monthsPerYear)
	for k := start; !end.Before(k); k = k.Next() {
		keys = append(keys, k)
	}

	return keys
}
