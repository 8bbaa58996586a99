package attendance

import (
	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/clock"
)

type Lateness struct {
	Status      attendance.Status
	LateMinutes int
}

// EvaluateLateness compares the check-in clock time against the shift start,
// falling back to the company start time, and applies the grace period.
func EvaluateLateness(clockHHMM string, shiftStart string, ws settings.WorkSettings) Lateness {
	target := hhmm(shiftStart)
	if target == "" {
		target = hhmm(ws.WorkStartTime)
	}
	if target == "" {
		target = settings.DefaultWorkStartTime
	}

	// Both sides are zero-padded HH:MM, so string order is time order.
	if clockHHMM <= target {
		return Lateness{Status: attendance.StatusPresent}
	}

	at, err := clock.ParseHHMM(clockHHMM)
	if err != nil {
		return Lateness{Status: attendance.StatusPresent}
	}
	start, _ := clock.ParseHHMM(target)
	late := at - start

	if ws.GracePeriod && late <= ws.GraceMinutes {
		return Lateness{Status: attendance.StatusPresent}
	}
	return Lateness{Status: attendance.StatusLate, LateMinutes: late}
}

// hhmm normalizes a time of day to HH:MM, or returns "".
func hhmm(s string) string {
	m, err := clock.ParseHHMM(s)
	if err != nil {
		return ""
	}
	return clock.FormatHHMM(m)
}
