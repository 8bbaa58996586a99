package schedule

import "context"

type Repository interface {
	// ListShiftsForDate returns the user's shifts on date, ordered by start time ascending.
	ListShiftsForDate(ctx context.Context, userID string, date string) ([]Shift, error)
}
