package settings

import "context"

// Category under which the attendance document is stored.
const CategoryAttendance = "attendance"

type Repository interface {
	// GetWorkSettings returns the attendance settings, falling back to Defaults when absent.
	GetWorkSettings(ctx context.Context) (WorkSettings, error)
}
