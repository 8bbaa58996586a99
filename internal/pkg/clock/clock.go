package clock

import (
	"fmt"
	"time"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock of the host.
var System Clock = systemClock{}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Snapshot is one reading of the clock expressed in a civil timezone.
type Snapshot struct {
	Instant time.Time // UTC
	Date    string    // YYYY-MM-DD
	Minutes int       // minutes since local midnight, 0-1439
	HHMM    string    // zero-padded, truncated to the minute
	Weekday int       // 0=Sunday..6=Saturday
}

// Civil reads c once and projects the instant onto loc.
func Civil(c Clock, loc *time.Location) Snapshot {
	now := c.Now()
	local := now.In(loc)
	return Snapshot{
		Instant: now.UTC(),
		Date:    local.Format(time.DateOnly),
		Minutes: local.Hour()*60 + local.Minute(),
		HHMM:    local.Format("15:04"),
		Weekday: int(local.Weekday()),
	}
}

// ParseHHMM converts "HH:MM" or "HH:MM:SS" into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	var t time.Time
	var err error
	switch len(s) {
	case 5:
		t, err = time.Parse("15:04", s)
	case 8:
		t, err = time.Parse("15:04:05", s)
	default:
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatHHMM renders minutes since midnight as zero-padded "HH:MM".
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
