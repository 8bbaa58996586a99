package profile

import "github.com/cmlabs-hris/auto-attendance/internal/pkg/validator"

// CheckOutRemindMode decides on which side of the shift end the check-out window opens.
type CheckOutRemindMode string

const (
	RemindBefore CheckOutRemindMode = "before"
	RemindAfter  CheckOutRemindMode = "after"
)

var CheckOutRemindModeValues = []string{
	string(RemindBefore),
	string(RemindAfter),
}

const DefaultRemindMinutes = 5

// AutoAttendancePrefs are the per-user automatic attendance toggles.
type AutoAttendancePrefs struct {
	UserID                string
	AutoCheckIn           bool
	AutoCheckOut          bool
	CheckInRemindMinutes  *int
	CheckOutRemindMode    CheckOutRemindMode
	CheckOutRemindMinutes *int
}

func (p AutoAttendancePrefs) CheckInRemind() int {
	if p.CheckInRemindMinutes == nil || *p.CheckInRemindMinutes < 0 {
		return DefaultRemindMinutes
	}
	return *p.CheckInRemindMinutes
}

func (p AutoAttendancePrefs) CheckOutRemind() int {
	if p.CheckOutRemindMinutes == nil || *p.CheckOutRemindMinutes < 0 {
		return DefaultRemindMinutes
	}
	return *p.CheckOutRemindMinutes
}

// CheckOutMode defaults to RemindBefore for unknown values.
func (p AutoAttendancePrefs) CheckOutMode() CheckOutRemindMode {
	if validator.IsInSlice(string(p.CheckOutRemindMode), CheckOutRemindModeValues) {
		return p.CheckOutRemindMode
	}
	return RemindBefore
}
