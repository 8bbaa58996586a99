package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/profile"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type profileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.Repository {
	return &profileRepository{db: db}
}

// GetAutoAttendancePrefs implements profile.Repository.
func (r *profileRepository) GetAutoAttendancePrefs(ctx context.Context, userID string) (profile.AutoAttendancePrefs, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, auto_checkin_enabled, auto_checkout_enabled,
			   checkin_remind_minutes, COALESCE(checkout_remind_mode, ''), checkout_remind_minutes
		FROM profiles
		WHERE id = $1
	`

	var (
		prefs profile.AutoAttendancePrefs
		mode  string
	)
	err := q.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.AutoCheckIn,
		&prefs.AutoCheckOut,
		&prefs.CheckInRemindMinutes,
		&mode,
		&prefs.CheckOutRemindMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.AutoAttendancePrefs{}, profile.ErrProfileNotFound
		}
		return profile.AutoAttendancePrefs{}, fmt.Errorf("failed to get auto attendance preferences: %w", err)
	}
	prefs.CheckOutRemindMode = profile.CheckOutRemindMode(mode)

	return prefs, nil
}
