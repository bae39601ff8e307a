// Package timeutil provides timezone helpers for dates shown to students.
// Certificates and session timestamps are rendered in the school's local
// timezone (Grimes, Iowa) regardless of where the server runs.
package timeutil

import (
	"fmt"
	"time"
)

// CentralTZ is the fallback location used when tzdata is unavailable.
// It ignores daylight saving time, which is acceptable for date-only output.
var CentralTZ = time.FixedZone("America/Chicago", -6*60*60)

// CertificateLayout is the long date format printed on certificates.
const CertificateLayout = "January 2, 2006"

// Clock abstracts the current time so callers can be tested.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return ClockFunc(time.Now) }

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) Clock { return ClockFunc(func() time.Time { return t }) }

// LoadLocation loads a named location, falling back to CentralTZ.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return CentralTZ
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return CentralTZ
	}
	return loc
}

// In converts t to loc. A nil location means CentralTZ.
func In(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = CentralTZ
	}
	return t.In(loc)
}

// FormatCertificateDate formats t like "March 7, 2025" in loc.
func FormatCertificateDate(t time.Time, loc *time.Location) string {
	return In(t, loc).Format(CertificateLayout)
}

// StartOfDay returns midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := In(t, loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// IsSameDay checks if two times are on the same calendar day in loc.
func IsSameDay(t1, t2 time.Time, loc *time.Location) bool {
	return StartOfDay(t1, loc).Equal(StartOfDay(t2, loc))
}

// FormatRelative returns a short human-readable duration since t,
// e.g. "just now", "5 minutes ago", "2 hours ago".
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
