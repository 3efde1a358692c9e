// Package period maps logical reporting periods onto concrete month ranges.
// The underlying data is bucketed by calendar month, so every period operates
// at month granularity; in particular "week" is deliberately approximated as
// the union of the current month and the month seven days prior, not a true
// seven-day window.
package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/eipsinsight/pulse/internal/monthkey"
)

// Period is a logical reporting period.
type Period string

// Supported periods.
const (
	All    Period = "all"
	Week   Period = "week"
	Month  Period = "month"
	Year   Period = "year"
	Custom Period = "custom"
)

// weekLookback is the offset used to approximate a week at month granularity.
const weekLookback = 7 * 24 * time.Hour

// monthsPerYear steps a month key back one full calendar year.
const monthsPerYear = 12

// Selection errors.
var (
	ErrUnknownPeriod      = errors.New("period: unknown period")
	ErrMissingCustomRange = errors.New("period: custom period requires start and end dates")
)

// CustomRange is a caller-supplied pair of calendar dates.
type CustomRange struct {
	Start time.Time
	End   time.Time
}

// Range is an inclusive month range. Unbounded when All is set.
type Range struct {
	Start monthkey.Key
	End   monthkey.Key
	All   bool
}

// Contains reports whether the month falls inside the range.
func (r Range) Contains(month monthkey.Key) bool {
	if r.All {
		return true
	}

	return !month.Before(r.Start) && !r.End.Before(month)
}

// Months enumerates the months of a bounded range in ascending order and
// returns nil for the unbounded range.
func (r Range) Months() []monthkey.Key {
	if r.All {
		return nil
	}

	return monthkey.Range(r.Start, r.End)
}

// Select maps a period plus "now" onto a concrete month range. The custom
// argument is only consulted for the Custom period.
func Select(p Period, now time.Time, custom *CustomRange) (Range, error) {
	switch p {
	case All:
		return Range{All: true}, nil
	case Month:
		month := monthkey.Of(now)

		return Range{Start: month, End: month}, nil
	case Year:
		start, end := monthkey.Of(now).YearRange()

		return Range{Start: start, End: end}, nil
	case Week:
		// Coarse by design: month buckets cannot express a 7-day window.
		return Range{Start: monthkey.Of(now.Add(-weekLookback)), End: monthkey.Of(now)}, nil
	case Custom:
		if custom == nil || custom.Start.IsZero() || custom.End.IsZero() {
			return Range{}, ErrMissingCustomRange
		}

		return Range{Start: monthkey.Of(custom.Start), End: monthkey.Of(custom.End)}, nil
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
	}
}

// SelectWithFallback resolves the range for p and, when hasData reports the
// range empty, retries exactly once against the previous month (Month) or
// previous year (Year). Other periods never fall back. If the retry is also
// empty the retried range is returned as-is; an empty result is a valid
// outcome the caller renders as "no data for this period", not an error.
func SelectWithFallback(p Period, now time.Time, custom *CustomRange, hasData func(Range) bool) (Range, error) {
	r, err := Select(p, now, custom)
	if err != nil {
		return Range{}, err
	}

	if hasData == nil || hasData(r) {
		return r, nil
	}

	switch p {
	case Month:
		prev := monthkey.Of(now).Prev()

		return Range{Start: prev, End: prev}, nil
	case Year:
		start, end := monthkey.Of(now).Add(-monthsPerYear).YearRange()

		return Range{Start: start, End: end}, nil
	case All, Week, Custom:
		return r, nil
	default:
		return r, nil
	}
}
