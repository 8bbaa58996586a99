package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/cron"
)

const (
	// Records closed more recently than this are left to their original dispatch.
	retryGracePeriod = 10 * time.Minute
	retryBatchSize   = 100
)

// RetryJobs re-dispatches overtime recalculations that never completed.
type RetryJobs struct {
	attendanceRepo attendance.Repository
	dispatcher     *Dispatcher
	clock          clock.Clock
}

func NewRetryJobs(attendanceRepo attendance.Repository, dispatcher *Dispatcher, clk clock.Clock) *RetryJobs {
	if clk == nil {
		clk = clock.System
	}
	return &RetryJobs{
		attendanceRepo: attendanceRepo,
		dispatcher:     dispatcher,
		clock:          clk,
	}
}

func (j *RetryJobs) RegisterJobs(scheduler *cron.Scheduler, interval time.Duration) {
	scheduler.AddJob("retry_pending_overtime", interval, j.RetryPendingOvertime)
}

// RetryPendingOvertime recalculates a batch of unsynced closed records.
// Each failure is logged and the sweep continues.
func (j *RetryJobs) RetryPendingOvertime(ctx context.Context) error {
	cutoff := j.clock.Now().UTC().Add(-retryGracePeriod)

	ids, err := j.attendanceRepo.ListPendingOvertime(ctx, cutoff, retryBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending overtime: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.Info("Cron: retrying overtime recalculation", "count", len(ids))

	failed := 0
	for _, id := range ids {
		if err := j.dispatcher.Recalculate(ctx, id); err != nil {
			failed++
			j.dispatcher.logger.Error("Overtime retry failed", "attendance_id", id, "error", err)
		}
	}

	slog.Info("Cron: overtime retry finished", "total", len(ids), "failed", failed)
	return nil
}
