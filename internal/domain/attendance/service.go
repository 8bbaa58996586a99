package attendance

import (
	"context"
)

// AutoAttendanceService decides and records automatic check-ins and check-outs.
// The attempt methods never return a Go error; every outcome is a Result.
type AutoAttendanceService interface {
	AttemptAutoCheckIn(ctx context.Context, req AutoAttendanceRequest) Result
	AttemptAutoCheckOut(ctx context.Context, req AutoAttendanceRequest) Result

	// GetTodayStatus reports the caller's attendance for the current civil date.
	GetTodayStatus(ctx context.Context) (TodayStatusResponse, error)
}
