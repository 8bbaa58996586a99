package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// workSettingsDocument mirrors the JSON stored under the attendance category.
// Pointer fields distinguish "absent" from zero values.
type workSettingsDocument struct {
	OfficeLatitude     *float64 `json:"office_latitude"`
	OfficeLongitude    *float64 `json:"office_longitude"`
	MaxDistanceMeters  *float64 `json:"max_distance_meters"`
	TrustedIPs         []string `json:"trusted_ips"`
	RequireGPSAndWiFi  *bool    `json:"require_gps_and_wifi"`
	OffDays            []int    `json:"off_days"`
	WorkStartTime      *string  `json:"work_start_time"`
	WorkEndTime        *string  `json:"work_end_time"`
	GracePeriodEnabled *bool    `json:"grace_period_enabled"`
	GracePeriodMinutes *int     `json:"grace_period_minutes"`
}

func (d workSettingsDocument) apply(s *settings.WorkSettings) {
	if d.OfficeLatitude != nil {
		s.OfficeLatitude = *d.OfficeLatitude
	}
	if d.OfficeLongitude != nil {
		s.OfficeLongitude = *d.OfficeLongitude
	}
	if d.MaxDistanceMeters != nil {
		s.MaxDistanceMeters = *d.MaxDistanceMeters
	}
	if d.TrustedIPs != nil {
		s.TrustedIPs = d.TrustedIPs
	}
	if d.RequireGPSAndWiFi != nil {
		s.RequireGPSAndWiFi = *d.RequireGPSAndWiFi
	}
	if d.OffDays != nil {
		s.OffDays = d.OffDays
	}
	if d.WorkStartTime != nil {
		s.WorkStartTime = *d.WorkStartTime
	}
	if d.WorkEndTime != nil {
		s.WorkEndTime = *d.WorkEndTime
	}
	if d.GracePeriodEnabled != nil {
		s.GracePeriod = *d.GracePeriodEnabled
	}
	if d.GracePeriodMinutes != nil {
		s.GraceMinutes = *d.GracePeriodMinutes
	}
}

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}

// DecodeWorkSettings overlays a stored JSON document on the defaults.
func DecodeWorkSettings(raw []byte) (settings.WorkSettings, error) {
	ws := settings.Defaults()
	if len(raw) == 0 {
		return ws, nil
	}
	var doc workSettingsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return settings.WorkSettings{}, fmt.Errorf("failed to decode work settings: %w", err)
	}
	doc.apply(&ws)
	ws.Normalize()
	if !ws.AcceptsGPS() {
		slog.Warn("GPS verification disabled by work settings", "max_distance_meters", ws.MaxDistanceMeters)
	}
	return ws, nil
}

// GetWorkSettings implements settings.Repository.
func (r *settingsRepository) GetWorkSettings(ctx context.Context) (settings.WorkSettings, error) {
	q := GetQuerier(ctx, r.db)

	var raw []byte
	err := q.QueryRow(ctx,
		`SELECT value FROM app_settings WHERE category = $1`,
		settings.CategoryAttendance,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Defaults(), nil
		}
		return settings.WorkSettings{}, fmt.Errorf("failed to get work settings: %w", err)
	}

	return DecodeWorkSettings(raw)
}
