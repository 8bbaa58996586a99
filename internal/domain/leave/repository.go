package leave

import "context"

type Repository interface {
	// HasApprovedLeave reports whether an approved leave covers date for the user.
	HasApprovedLeave(ctx context.Context, userID string, date string) (bool, error)
}
