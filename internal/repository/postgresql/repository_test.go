package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/profile"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/auto-attendance/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workDate = "2026-10-14"

func newRecord(userID string, checkIn time.Time) attendance.Record {
	return attendance.Record{
		ID:          uuid.Must(uuid.NewV7()).String(),
		UserID:      userID,
		WorkDate:    workDate,
		CheckIn:     checkIn,
		CheckInNote: "Auto: office_wifi",
		Status:      attendance.StatusPresent,
	}
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_CreateAndGetOpen(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	userID := uuid.NewString()
	checkIn := time.Date(2026, time.October, 14, 0, 57, 0, 0, time.UTC)

	open, err := repo.GetOpenRecord(ctx, userID, workDate)
	require.NoError(t, err)
	assert.Nil(t, open)

	created, err := repo.Create(ctx, newRecord(userID, checkIn))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	open, err = repo.GetOpenRecord(ctx, userID, workDate)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, created.ID, open.ID)
	assert.Equal(t, workDate, open.WorkDate)
	assert.True(t, checkIn.Equal(open.CheckIn))
	assert.Equal(t, attendance.StatusPresent, open.Status)
}

func TestAttendanceRepository_SecondOpenSessionIsRejected(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	userID := uuid.NewString()
	checkIn := time.Date(2026, time.October, 14, 0, 57, 0, 0, time.UTC)

	_, err := repo.Create(ctx, newRecord(userID, checkIn))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRecord(userID, checkIn.Add(time.Second)))
	assert.ErrorIs(t, err, attendance.ErrOpenSessionExists)
}

func TestAttendanceRepository_CloseRecord(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	userID := uuid.NewString()
	checkIn := time.Date(2026, time.October, 14, 0, 57, 0, 0, time.UTC)

	created, err := repo.Create(ctx, newRecord(userID, checkIn))
	require.NoError(t, err)

	update := attendance.CheckOutUpdate{
		ID:       created.ID,
		CheckOut: checkIn.Add(9 * time.Hour),
		Note:     "Auto: office_wifi",
	}
	require.NoError(t, repo.CloseRecord(ctx, update))

	// A closed record cannot be closed again.
	assert.ErrorIs(t, repo.CloseRecord(ctx, update), attendance.ErrUpdateBlocked)

	open, err := repo.GetOpenRecord(ctx, userID, workDate)
	require.NoError(t, err)
	assert.Nil(t, open)

	latest, err := repo.GetLatestRecord(ctx, userID, workDate, nil)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.NotNil(t, latest.CheckOut)
	assert.True(t, update.CheckOut.Equal(*latest.CheckOut))
	require.NotNil(t, latest.CheckOutNote)
	assert.Equal(t, "Auto: office_wifi", *latest.CheckOutNote)
}

func TestAttendanceRepository_GetLatestRecordFiltersStatus(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	userID := uuid.NewString()

	rec := newRecord(userID, time.Date(2026, time.October, 14, 1, 10, 0, 0, time.UTC))
	rec.Status = attendance.StatusLate
	rec.LateMinutes = 10
	_, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	got, err := repo.GetLatestRecord(ctx, userID, workDate, []attendance.Status{attendance.StatusPresent})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetLatestRecord(ctx, userID, workDate, []attendance.Status{attendance.StatusPresent, attendance.StatusLate})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.LateMinutes)
}

func TestAttendanceRepository_PendingOvertime(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	overtimeRepo := postgresql.NewOvertimeRepository(setup.DB)
	userID := uuid.NewString()
	checkIn := time.Date(2026, time.October, 14, 0, 57, 0, 0, time.UTC)
	checkOut := checkIn.Add(9 * time.Hour)

	created, err := repo.Create(ctx, newRecord(userID, checkIn))
	require.NoError(t, err)
	require.NoError(t, repo.CloseRecord(ctx, attendance.CheckOutUpdate{ID: created.ID, CheckOut: checkOut, Note: "Auto: gps"}))

	ids, err := repo.ListPendingOvertime(ctx, checkOut.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, ids)

	ids, err = repo.ListPendingOvertime(ctx, checkOut.Add(-time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, overtimeRepo.RecalculateOvertime(ctx, created.ID))
	require.NoError(t, repo.MarkOvertimeSynced(ctx, created.ID, checkOut.Add(time.Minute)))

	ids, err = repo.ListPendingOvertime(ctx, checkOut.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	assert.ErrorIs(t, repo.MarkOvertimeSynced(ctx, uuid.NewString(), checkOut), attendance.ErrAttendanceNotFound)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	userID := uuid.NewString()

	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newRecord(userID, time.Now().UTC())); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	open, err := repo.GetOpenRecord(ctx, userID, workDate)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestTransactor_CommitsCreate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	userID := uuid.NewString()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		latest, err := repo.GetLatestRecord(ctx, userID, workDate,
			[]attendance.Status{attendance.StatusPresent, attendance.StatusLate})
		if err != nil {
			return err
		}
		assert.Nil(t, latest)
		_, err = repo.Create(ctx, newRecord(userID, time.Now().UTC()))
		return err
	})
	require.NoError(t, err)

	open, err := repo.GetOpenRecord(ctx, userID, workDate)
	require.NoError(t, err)
	assert.NotNil(t, open)
}

// ===== COLLABORATOR REPOSITORY TESTS =====

func TestSettingsRepository_GetWorkSettings(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewSettingsRepository(setup.DB)

	ws, err := repo.GetWorkSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), ws)

	_, err = setup.DB.Exec(ctx,
		`INSERT INTO app_settings (category, value) VALUES ($1, $2)`,
		settings.CategoryAttendance,
		`{"office_latitude":-6.2,"office_longitude":106.8,"max_distance_meters":150,"trusted_ips":["10.0.0.0/8"],"off_days":[0,6]}`,
	)
	require.NoError(t, err)

	ws, err = repo.GetWorkSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, -6.2, ws.OfficeLatitude)
	assert.Equal(t, 150.0, ws.MaxDistanceMeters)
	assert.Equal(t, []string{"10.0.0.0/8"}, ws.TrustedIPs)
	assert.True(t, ws.IsOffDay(6))
	assert.Equal(t, settings.DefaultWorkStartTime, ws.WorkStartTime)
}

func TestProfileRepository_GetAutoAttendancePrefs(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewProfileRepository(setup.DB)
	userID := uuid.NewString()

	_, err := repo.GetAutoAttendancePrefs(ctx, userID)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	_, err = setup.DB.Exec(ctx, `
		INSERT INTO profiles (id, auto_checkin_enabled, auto_checkout_enabled, checkin_remind_minutes, checkout_remind_mode)
		VALUES ($1, TRUE, FALSE, 10, 'after')
	`, userID)
	require.NoError(t, err)

	prefs, err := repo.GetAutoAttendancePrefs(ctx, userID)
	require.NoError(t, err)
	assert.True(t, prefs.AutoCheckIn)
	assert.False(t, prefs.AutoCheckOut)
	assert.Equal(t, 10, prefs.CheckInRemind())
	assert.Equal(t, profile.DefaultRemindMinutes, prefs.CheckOutRemind())
	assert.Equal(t, profile.RemindAfter, prefs.CheckOutMode())
}

func TestScheduleRepository_ListShiftsOrderedByStart(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewScheduleRepository(setup.DB)
	userID := uuid.NewString()

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO shift_schedules (user_id, work_date, start_time, end_time) VALUES
			($1, '2026-10-14', '13:00', '17:00'),
			($1, '2026-10-14', '08:00', '12:00'),
			($1, '2026-10-15', '08:00', '17:00')
	`, userID)
	require.NoError(t, err)

	shifts, err := repo.ListShiftsForDate(ctx, userID, workDate)
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "08:00", shifts[0].StartTime)
	assert.Equal(t, "12:00", shifts[0].EndTime)
	assert.Equal(t, "13:00", shifts[1].StartTime)
	assert.Equal(t, workDate, shifts[0].WorkDate)
}

func TestLeaveRepository_HasApprovedLeave(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRepository(setup.DB)
	userID := uuid.NewString()

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO leave_requests (user_id, start_date, end_date, status) VALUES
			($1, '2026-10-13', '2026-10-14', 'approved'),
			($1, '2026-10-15', '2026-10-15', 'pending')
	`, userID)
	require.NoError(t, err)

	onLeave, err := repo.HasApprovedLeave(ctx, userID, workDate)
	require.NoError(t, err)
	assert.True(t, onLeave)

	onLeave, err = repo.HasApprovedLeave(ctx, userID, "2026-10-15")
	require.NoError(t, err)
	assert.False(t, onLeave)
}
