package attendance

import (
	"github.com/cmlabs-hris/auto-attendance/internal/domain/profile"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/clock"
)

const (
	// A check-in is no longer automatic once this late past shift start.
	maxCheckInLateMinutes = 600
	// A check-out is no longer automatic once this late past shift end.
	maxCheckOutLateMinutes = 480
)

// InCheckInWindow reports whether now falls in the check-in window of a shift
// starting at start, opening remind minutes before it.
func InCheckInWindow(now, start, remind int) bool {
	diff := start - now
	return diff <= remind && diff > -maxCheckInLateMinutes
}

// InCheckOutWindow reports whether now falls in the check-out window of a shift
// ending at end.
func InCheckOutWindow(now, end, remind int, mode profile.CheckOutRemindMode) bool {
	diff := now - end
	if mode == profile.RemindAfter {
		return diff >= 0 && diff <= max(remind, maxCheckOutLateMinutes)
	}
	return diff >= -remind && diff <= maxCheckOutLateMinutes
}

// MatchCheckInShift returns the first shift whose check-in window contains now.
// Shifts with an unparseable start time are ignored.
func MatchCheckInShift(shifts []schedule.Shift, now, remind int) (schedule.Shift, bool) {
	for _, sh := range shifts {
		start, err := clock.ParseHHMM(sh.StartTime)
		if err != nil {
			continue
		}
		if InCheckInWindow(now, start, remind) {
			return sh, true
		}
	}
	return schedule.Shift{}, false
}

// MatchCheckOutShift returns the first shift whose check-out window contains now.
func MatchCheckOutShift(shifts []schedule.Shift, now, remind int, mode profile.CheckOutRemindMode) (schedule.Shift, bool) {
	for _, sh := range shifts {
		end, err := clock.ParseHHMM(sh.EndTime)
		if err != nil {
			continue
		}
		if InCheckOutWindow(now, end, remind, mode) {
			return sh, true
		}
	}
	return schedule.Shift{}, false
}
