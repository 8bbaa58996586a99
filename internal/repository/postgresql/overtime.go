package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/overtime"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.Repository {
	return &overtimeRepository{db: db}
}

// RecalculateOvertime implements overtime.Repository. The computation lives in
// the recalculate_overtime database routine.
func (r *overtimeRepository) RecalculateOvertime(ctx context.Context, recordID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT recalculate_overtime($1)`, recordID); err != nil {
		return fmt.Errorf("failed to recalculate overtime: %w", err)
	}
	return nil
}
