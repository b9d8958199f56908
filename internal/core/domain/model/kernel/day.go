package kernel

import (
	"time"

	"lunchroom/internal/pkg/errs"
)

// dayLayout is the wire format for calendar dates.
const dayLayout = "2006-01-02"

// Day is a calendar date with no time component, in the server's local time
// zone. Orders are placed for a meal day, the order number embeds the day, and
// all kitchen views filter by it, so the domain passes Day around instead of
// raw time.Time values that would smuggle a clock along.
type Day struct {
	t time.Time
}

// NewDay truncates a wall-clock time to its calendar date.
func NewDay(t time.Time) Day {
	year, month, day := t.Date()
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, t.Location())}
}

// Today returns the current calendar date in local time.
func Today() Day {
	return NewDay(time.Now())
}

// ParseDay parses a "YYYY-MM-DD" query value.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return Day{}, errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	return Day{t: t}, nil
}

// Time returns midnight local time of the day, the value persisted in the
// orders table's order_date column.
func (d Day) Time() time.Time {
	return d.t
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// IsEqual reports whether two Days are the same calendar date.
func (d Day) IsEqual(other Day) bool {
	return d.t.Equal(other.t)
}

// String renders as "YYYY-MM-DD".
func (d Day) String() string {
	return d.t.Format(dayLayout)
}

// Compact renders as "YYYYMMDD", the form embedded in order numbers.
func (d Day) Compact() string {
	return d.t.Format("20060102")
}
