package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE unique_violation
const uniqueViolation = "23505"

const attendanceColumns = `
	id, user_id, work_date,
	check_in, check_in_latitude, check_in_longitude, check_in_note,
	status, late_minutes,
	check_out, check_out_latitude, check_out_longitude, check_out_note,
	overtime_synced_at, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var (
		rec      attendance.Record
		workDate time.Time
		status   string
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &workDate,
		&rec.CheckIn, &rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInNote,
		&status, &rec.LateMinutes,
		&rec.CheckOut, &rec.CheckOutLatitude, &rec.CheckOutLongitude, &rec.CheckOutNote,
		&rec.OvertimeSyncedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.WorkDate = workDate.Format(time.DateOnly)
	rec.Status = attendance.Status(status)
	return rec, nil
}

func parseWorkDate(date string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid work date %q: %w", date, err)
	}
	return d, nil
}

// GetOpenRecord implements attendance.Repository.
func (a *attendanceRepository) GetOpenRecord(ctx context.Context, userID string, date string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	workDate, err := parseWorkDate(date)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1
		  AND work_date = $2
		  AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, userID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}

	return &rec, nil
}

// GetLatestRecord implements attendance.Repository.
func (a *attendanceRepository) GetLatestRecord(ctx context.Context, userID string, date string, statuses []attendance.Status) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	workDate, err := parseWorkDate(date)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE user_id = $1
		  AND work_date = $2`
	args := []interface{}{userID, workDate}

	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		query += ` AND status = ANY($3)`
		args = append(args, values)
	}
	query += `
		ORDER BY check_in DESC
		LIMIT 1`

	rec, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest attendance: %w", err)
	}

	return &rec, nil
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	workDate, err := parseWorkDate(rec.WorkDate)
	if err != nil {
		return attendance.Record{}, err
	}

	query := `
		INSERT INTO attendance_records (
			id, user_id, work_date,
			check_in, check_in_latitude, check_in_longitude, check_in_note,
			status, late_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		workDate,
		rec.CheckIn,
		rec.CheckInLatitude,
		rec.CheckInLongitude,
		rec.CheckInNote,
		string(rec.Status),
		rec.LateMinutes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Record{}, attendance.ErrOpenSessionExists
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// CloseRecord implements attendance.Repository.
func (a *attendanceRepository) CloseRecord(ctx context.Context, update attendance.CheckOutUpdate) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out = $2,
			check_out_latitude = $3,
			check_out_longitude = $4,
			check_out_note = $5,
			updated_at = NOW()
		WHERE id = $1
		  AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		update.ID,
		update.CheckOut,
		update.Latitude,
		update.Longitude,
		update.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrUpdateBlocked
	}

	return nil
}

// ListPendingOvertime implements attendance.Repository.
func (a *attendanceRepository) ListPendingOvertime(ctx context.Context, closedBefore time.Time, limit int) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id
		FROM attendance_records
		WHERE check_out IS NOT NULL
		  AND check_out < $1
		  AND overtime_synced_at IS NULL
		ORDER BY check_out ASC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, closedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending overtime: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pending overtime: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending overtime: %w", err)
	}

	return ids, nil
}

// MarkOvertimeSynced implements attendance.Repository.
func (a *attendanceRepository) MarkOvertimeSynced(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `UPDATE attendance_records SET overtime_synced_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark overtime synced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
