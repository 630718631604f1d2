package clock

import "time"

// DateLayout is the calendar-day key format used in persisted records.
const DateLayout = "2006-01-02"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in the local time zone.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey formats t as a calendar-day key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar-day key in loc.
func ParseDate(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, loc)
}

// DaysSince returns the number of whole calendar days between start and now,
// counted at midnight boundaries in now's location. It is negative when now
// falls on an earlier day than start.
func DaysSince(start, now time.Time) int {
	s := Midnight(start.In(now.Location()))
	n := Midnight(now)
	// Dates are rebuilt in UTC so DST shifts do not produce 23h/25h days.
	su := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	nu := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return int(nu.Sub(su).Hours() / 24)
}

// Yesterday returns the calendar-day key of the day before now.
func Yesterday(now time.Time) string {
	return DateKey(Midnight(now).AddDate(0, 0, -1))
}
