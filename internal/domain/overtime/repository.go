package overtime

import "context"

// Repository triggers the externally owned overtime computation for a closed record.
type Repository interface {
	RecalculateOvertime(ctx context.Context, recordID string) error
}

// Dispatcher schedules a recalculation without waiting for it.
type Dispatcher interface {
	Dispatch(recordID string)
}
