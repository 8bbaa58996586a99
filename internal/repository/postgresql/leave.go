package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

// HasApprovedLeave implements leave.Repository.
func (r *leaveRepository) HasApprovedLeave(ctx context.Context, userID string, date string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	workDate, err := parseWorkDate(date)
	if err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE user_id = $1
			  AND status = $2
			  AND start_date <= $3
			  AND end_date >= $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, leave.StatusApproved, workDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return exists, nil
}
