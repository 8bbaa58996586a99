package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

// ListShiftsForDate implements schedule.Repository.
func (r *scheduleRepository) ListShiftsForDate(ctx context.Context, userID string, date string) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	workDate, err := parseWorkDate(date)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, to_char(work_date, 'YYYY-MM-DD'),
			   to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM shift_schedules
		WHERE user_id = $1
		  AND work_date = $2
		ORDER BY start_time ASC, id ASC
	`

	rows, err := q.Query(ctx, query, userID, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		var sh schedule.Shift
		if err := rows.Scan(&sh.ID, &sh.UserID, &sh.WorkDate, &sh.StartTime, &sh.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}
