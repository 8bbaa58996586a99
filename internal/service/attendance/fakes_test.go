package attendance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/profile"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/settings"
)

// fakeAttendanceRepo keeps records in memory and enforces one open session
// per user and day on Create, like the partial unique index does.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records []attendance.Record
	synced  map[string]time.Time

	readErr   error
	createErr error
	closeErr  error
	staleRead bool
	// staleOpen blanks GetOpenRecord only, so the record appears between the
	// early guard and the re-read before insert.
	staleOpen bool

	createAttempts int
	createdInTx    bool
}

func (f *fakeAttendanceRepo) GetOpenRecord(ctx context.Context, userID string, date string) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.staleRead || f.staleOpen {
		return nil, nil
	}
	for i := range f.records {
		r := f.records[i]
		if r.UserID == userID && r.WorkDate == date && r.IsOpen() {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetLatestRecord(ctx context.Context, userID string, date string, statuses []attendance.Status) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.staleRead {
		return nil, nil
	}
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.UserID != userID || r.WorkDate != date {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, r.Status) {
			continue
		}
		return &r, nil
	}
	return nil, nil
}

func containsStatus(statuses []attendance.Status, s attendance.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createAttempts++
	f.createdInTx = ctx.Value(txCtxKey{}) != nil
	if f.createErr != nil {
		return attendance.Record{}, f.createErr
	}
	for _, r := range f.records {
		if r.UserID == record.UserID && r.WorkDate == record.WorkDate && r.IsOpen() {
			return attendance.Record{}, attendance.ErrOpenSessionExists
		}
	}
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeAttendanceRepo) CloseRecord(ctx context.Context, update attendance.CheckOutUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closeErr != nil {
		return f.closeErr
	}
	for i := range f.records {
		r := &f.records[i]
		if r.ID == update.ID && r.IsOpen() {
			out := update.CheckOut
			note := update.Note
			r.CheckOut = &out
			r.CheckOutLatitude = update.Latitude
			r.CheckOutLongitude = update.Longitude
			r.CheckOutNote = &note
			return nil
		}
	}
	return attendance.ErrUpdateBlocked
}

func (f *fakeAttendanceRepo) ListPendingOvertime(ctx context.Context, closedBefore time.Time, limit int) ([]string, error) {
	return nil, errors.New("not used")
}

func (f *fakeAttendanceRepo) MarkOvertimeSynced(ctx context.Context, id string, at time.Time) error {
	return errors.New("not used")
}

func (f *fakeAttendanceRepo) all() []attendance.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]attendance.Record(nil), f.records...)
}

func (f *fakeAttendanceRepo) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createAttempts
}

type txCtxKey struct{}

// fakeTransactor counts transactions and marks the ctx handed to fn.
type fakeTransactor struct {
	mu      sync.Mutex
	calls   int
	commits int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		return err
	}
	f.mu.Lock()
	f.commits++
	f.mu.Unlock()
	return nil
}

type fakeSettingsRepo struct {
	ws  settings.WorkSettings
	err error
}

func (f *fakeSettingsRepo) GetWorkSettings(ctx context.Context) (settings.WorkSettings, error) {
	return f.ws, f.err
}

type fakeProfileRepo struct {
	prefs map[string]profile.AutoAttendancePrefs
	panic bool
}

func (f *fakeProfileRepo) GetAutoAttendancePrefs(ctx context.Context, userID string) (profile.AutoAttendancePrefs, error) {
	if f.panic {
		panic("profile store exploded")
	}
	p, ok := f.prefs[userID]
	if !ok {
		return profile.AutoAttendancePrefs{}, profile.ErrProfileNotFound
	}
	return p, nil
}

type fakeScheduleRepo struct {
	shifts []schedule.Shift
	err    error
}

func (f *fakeScheduleRepo) ListShiftsForDate(ctx context.Context, userID string, date string) ([]schedule.Shift, error) {
	return f.shifts, f.err
}

type fakeLeaveRepo struct {
	onLeave bool
}

func (f *fakeLeaveRepo) HasApprovedLeave(ctx context.Context, userID string, date string) (bool, error) {
	return f.onLeave, nil
}

type fakeDispatcher struct {
	mu  sync.Mutex
	ids []string
}

func (f *fakeDispatcher) Dispatch(recordID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, recordID)
}

func (f *fakeDispatcher) dispatched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

// manualClock lets a test move time between attempts.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
