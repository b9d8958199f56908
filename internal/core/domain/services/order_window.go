package services

import (
	"fmt"
	"time"

	"lunchroom/internal/pkg/errs"
)

// maxWindowSpan bounds the configured ordering window. A lunch window longer
// than this is a misconfiguration, not a policy.
const maxWindowSpan = 8 * time.Hour

// Window is the daily wall-clock interval during which new orders are
// accepted, as minutes since midnight. Construct via ParseWindow.
type Window struct {
	startMinute int
	endMinute   int
}

// ParseWindow parses "HH:MM" start and end values and validates that the end
// is after the start and the span does not exceed eight hours.
func ParseWindow(start, end string) (Window, error) {
	startMinute, err := parseClock(start)
	if err != nil {
		return Window{}, errs.NewValueIsInvalidErrorWithCause("window start", err)
	}
	endMinute, err := parseClock(end)
	if err != nil {
		return Window{}, errs.NewValueIsInvalidErrorWithCause("window end", err)
	}
	if endMinute <= startMinute {
		return Window{}, errs.NewValueIsInvalidErrorWithCause(
			"ordering window",
			fmt.Errorf("end %s is not after start %s", end, start),
		)
	}
	if time.Duration(endMinute-startMinute)*time.Minute > maxWindowSpan {
		return Window{}, errs.NewValueIsInvalidErrorWithCause(
			"ordering window",
			fmt.Errorf("window %s-%s spans more than %s", start, end, maxWindowSpan),
		)
	}
	return Window{startMinute: startMinute, endMinute: endMinute}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid HH:MM time: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Start renders the window start as "HH:MM".
func (w Window) Start() string {
	return fmt.Sprintf("%02d:%02d", w.startMinute/60, w.startMinute%60)
}

// End renders the window end as "HH:MM".
func (w Window) End() string {
	return fmt.Sprintf("%02d:%02d", w.endMinute/60, w.endMinute%60)
}

// WindowStatus is the gate's answer: whether ordering is open right now and,
// when it is not, a human-readable reason for the caller.
type WindowStatus struct {
	Active bool
	Reason string
}

// OrderWindowGate decides whether new orders may be accepted at a given
// moment. Weekends are always closed regardless of the configured window; on
// weekdays ordering is open iff start <= now <= end in local time.
//
// The gate must be consulted at the moment of each creation attempt, never
// cached from an earlier page load, so orders cannot slip in after close.
type OrderWindowGate struct{}

// NewOrderWindowGate creates an OrderWindowGate.
func NewOrderWindowGate() OrderWindowGate {
	return OrderWindowGate{}
}

// Check evaluates the gate for the given wall-clock time.
func (OrderWindowGate) Check(now time.Time, w Window) WindowStatus {
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return WindowStatus{Active: false, Reason: "ordering is not available on weekends"}
	}

	minute := now.Hour()*60 + now.Minute()
	switch {
	case minute < w.startMinute:
		return WindowStatus{Active: false, Reason: fmt.Sprintf("ordering opens at %s", w.Start())}
	case minute > w.endMinute:
		return WindowStatus{Active: false, Reason: fmt.Sprintf("ordering closed at %s", w.End())}
	default:
		return WindowStatus{Active: true}
	}
}
