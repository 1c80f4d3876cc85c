// Package schedule validates proposed delivery slots against the current time
// and the minimum-lead-time rule.
package schedule

import (
	"time"
)

const (
	// DateLayout is the wire format of delivery dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of delivery times.
	TimeLayout = "15:04"

	timeLayoutSeconds = "15:04:05"

	// DefaultLeadTime is the minimum gap between now and a delivery slot.
	DefaultLeadTime = time.Hour
)

// Validator checks delivery slots. The clock is injected so tests and callers
// control "now".
type Validator struct {
	now      func() time.Time
	leadTime time.Duration
}

// New builds a Validator with the default one-hour lead time. A nil now
// function falls back to time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now, leadTime: DefaultLeadTime}
}

// IsFutureDateTime is the authoritative submission gate: both values must
// parse, the date must not lie before today, and the combined instant must be
// strictly later than now plus the lead time. It is re-checked at submission
// regardless of any selection-level disabling.
func (v *Validator) IsFutureDateTime(date, clock string) bool {
	instant, ok := v.combine(date, clock)
	if !ok {
		return false
	}
	now := v.now()
	if beforeToday(instant, now) {
		return false
	}
	return instant.After(now.Add(v.leadTime))
}

// ShouldDisableDate mirrors the date half of the threshold for selection
// surfaces: any date before today is unavailable.
func (v *Validator) ShouldDisableDate(date string) bool {
	day, err := time.ParseInLocation(DateLayout, date, v.now().Location())
	if err != nil {
		return true
	}
	return beforeToday(day, v.now())
}

// ShouldDisableTime mirrors the time half of the threshold: on today's date a
// slot inside the lead-time window is unavailable.
func (v *Validator) ShouldDisableTime(date, clock string) bool {
	instant, ok := v.combine(date, clock)
	if !ok {
		return true
	}
	return !instant.After(v.now().Add(v.leadTime))
}

func (v *Validator) combine(date, clock string) (time.Time, bool) {
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	loc := v.now().Location()
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	tod, err := time.ParseInLocation(TimeLayout, clock, loc)
	if err != nil {
		tod, err = time.ParseInLocation(timeLayoutSeconds, clock, loc)
		if err != nil {
			return time.Time{}, false
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, loc), true
}

func beforeToday(instant, now time.Time) bool {
	y1, m1, d1 := instant.Date()
	y2, m2, d2 := now.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}
