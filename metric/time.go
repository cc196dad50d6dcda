package metric

import (
	"time"
)

// =============================================================================
// DAY - Calendar-day time point (all engine dates are day-granular)
// =============================================================================

// Day is a calendar day, normalized to UTC midnight. Source dates are parsed
// into Days exactly once at load time; everything downstream compares Days,
// never strings.
type Day struct {
	t time.Time
}

const dayLayout = "2006-01-02"

// NewDay builds a Day from calendar components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return Day{t: t.UTC()}, nil
}

// DayOf truncates an arbitrary time to its calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

// Comparison
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }
func (d Day) IsZero() bool          { return d.t.IsZero() }

// Arithmetic
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// MonthKey returns the YYYY-MM grouping key for monthly rollups.
func (d Day) MonthKey() string { return d.t.Format("2006-01") }

func (d Day) String() string { return d.t.Format(dayLayout) }

// Time exposes the underlying time for sorting and storage.
func (d Day) Time() time.Time { return d.t }

// MarshalJSON renders the day as "YYYY-MM-DD".
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// =============================================================================
// WINDOW - Lookback range, half-open on the start side
// =============================================================================

// Window is the date range (Start, End]: Start itself is excluded, End is
// included. An N-day window ending at E therefore contains exactly the N
// calendar days E-N+1 .. E.
type Window struct {
	Start Day
	End   Day
}

// WindowEnding builds the days-long window ending at (and including) end.
func WindowEnding(end Day, days int) Window {
	return Window{Start: end.AddDays(-days), End: end}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Day) bool {
	return d.After(w.Start) && !d.After(w.End)
}
