package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/overtime"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/clock"
)

// Dispatcher runs overtime recalculations in the background. Failures are
// logged to its own logger and never reach the caller.
type Dispatcher struct {
	overtimeRepo   overtime.Repository
	attendanceRepo attendance.Repository
	clock          clock.Clock
	logger         *slog.Logger
	timeout        time.Duration

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

var _ overtime.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(
	overtimeRepo overtime.Repository,
	attendanceRepo attendance.Repository,
	clk clock.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.System
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		overtimeRepo:   overtimeRepo,
		attendanceRepo: attendanceRepo,
		clock:          clk,
		logger:         logger.With(slog.String("component", "overtime")),
		timeout:        timeout,
	}
}

// Dispatch starts a recalculation for recordID and returns immediately.
func (d *Dispatcher) Dispatch(recordID string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Overtime dispatcher closed, dropping task", "attendance_id", recordID)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("Overtime recalculation panicked", "attendance_id", recordID, "panic", r)
			}
		}()

		// Detached from the request: the caller has already answered.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.Recalculate(ctx, recordID); err != nil {
			d.logger.Error("Overtime recalculation failed", "attendance_id", recordID, "error", err)
		}
	}()
}

// Recalculate runs one recalculation synchronously and marks the record synced.
func (d *Dispatcher) Recalculate(ctx context.Context, recordID string) error {
	start := d.clock.Now()
	if err := d.overtimeRepo.RecalculateOvertime(ctx, recordID); err != nil {
		return fmt.Errorf("recalculate overtime: %w", err)
	}
	if err := d.attendanceRepo.MarkOvertimeSynced(ctx, recordID, d.clock.Now().UTC()); err != nil {
		return fmt.Errorf("mark overtime synced: %w", err)
	}
	d.logger.Debug("Overtime recalculated", "attendance_id", recordID, "duration", d.clock.Now().Sub(start))
	return nil
}

// Close stops accepting tasks and waits for in-flight ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

// Wait blocks until every dispatched task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
