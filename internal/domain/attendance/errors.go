package attendance

import "errors"

// Attendance domain errors
var (
	// ErrOpenSessionExists is returned by Create when storage already holds an
	// open record for the same user and work date.
	ErrOpenSessionExists = errors.New("an open attendance session already exists")

	// ErrUpdateBlocked is returned when a check-out update matched no row,
	// typically because a row-level policy filtered it out.
	ErrUpdateBlocked = errors.New("RLS policy blocked update")

	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
