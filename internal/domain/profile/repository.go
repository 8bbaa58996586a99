package profile

import "context"

type Repository interface {
	// GetAutoAttendancePrefs returns ErrProfileNotFound when the user has no profile row.
	GetAutoAttendancePrefs(ctx context.Context, userID string) (AutoAttendancePrefs, error)
}
