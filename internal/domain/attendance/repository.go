package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records.
type Repository interface {
	// GetOpenRecord returns the open record for the user on date, or nil when there is none.
	GetOpenRecord(ctx context.Context, userID string, date string) (*Record, error)

	// GetLatestRecord returns the most recent record on date whose status is in statuses, or nil.
	// An empty statuses slice matches any status.
	GetLatestRecord(ctx context.Context, userID string, date string, statuses []Status) (*Record, error)

	// Create inserts a record. Returns ErrOpenSessionExists on a duplicate open session.
	Create(ctx context.Context, record Record) (Record, error)

	// CloseRecord sets the check-out fields of an open record. Returns ErrUpdateBlocked
	// when no row was affected.
	CloseRecord(ctx context.Context, update CheckOutUpdate) error

	// ListPendingOvertime returns IDs of records closed before closedBefore whose
	// overtime recalculation has not been confirmed.
	ListPendingOvertime(ctx context.Context, closedBefore time.Time, limit int) ([]string, error)

	MarkOvertimeSynced(ctx context.Context, id string, at time.Time) error
}

// Transactor runs fn in one storage transaction. Repository calls made with the
// ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
