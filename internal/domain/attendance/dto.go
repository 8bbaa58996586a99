package attendance

import (
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/pkg/geo"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/validator"
)

// ========================================
// AUTO ATTENDANCE DTOs
// ========================================

// UnknownIP is used when no forwarded address could be resolved.
const UnknownIP = "unknown"

type AutoAttendanceRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ClientIP  string   `json:"-"`
}

func (r *AutoAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GPS returns the supplied fix, or nil unless both coordinates are present.
func (r AutoAttendanceRequest) GPS() *geo.Point {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type ResultStatus string

const (
	ResultSuccess ResultStatus = "SUCCESS"
	ResultSkipped ResultStatus = "SKIPPED"
	ResultNeedGPS ResultStatus = "NEED_GPS"
	ResultError   ResultStatus = "ERROR"
)

// Stable reason tags.
const (
	ReasonNotAuthenticated  = "not_authenticated"
	ReasonDisabled          = "disabled"
	ReasonAlreadyCheckedIn  = "already_checked_in"
	ReasonNoActiveSession   = "no_active_session"
	ReasonNoSchedule        = "no_schedule"
	ReasonOnApprovedLeave   = "on_approved_leave"
	ReasonCompanyOffDay     = "company_off_day"
	ReasonOutsideTimeWindow = "outside_time_window"
	ReasonTooFar            = "too_far"
	ReasonIPFailedPrefix    = "ip_failed:"
)

// Verification methods recorded on the attendance note.
const (
	MethodOfficeWiFi = "office_wifi"
	MethodGPS        = "gps"
	MethodGPSAndWiFi = "gps_and_wifi"
)

// Result is the outcome of one automatic attendance attempt.
type Result struct {
	Status ResultStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func Success(method string) Result { return Result{Status: ResultSuccess, Reason: method} }
func Skipped(reason string) Result { return Result{Status: ResultSkipped, Reason: reason} }
func NeedGPS(reason string) Result { return Result{Status: ResultNeedGPS, Reason: reason} }
func Failed(message string) Result { return Result{Status: ResultError, Error: message} }

// ========================================
// TODAY STATUS DTOs
// ========================================

type RecordResponse struct {
	ID                string   `json:"id"`
	WorkDate          string   `json:"work_date"`
	CheckInTime       string   `json:"check_in_time"`
	CheckInLatitude   *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64 `json:"check_in_longitude,omitempty"`
	CheckInNote       string   `json:"check_in_note"`
	Status            string   `json:"status"`
	LateMinutes       int      `json:"late_minutes"`
	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	CheckOutNote      *string  `json:"check_out_note,omitempty"`
}

type TodayStatusResponse struct {
	Date           string          `json:"date"`
	HasOpenSession bool            `json:"has_open_session"`
	Record         *RecordResponse `json:"record,omitempty"`
}

// NewRecordResponse renders timestamps as RFC 3339 UTC.
func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:                r.ID,
		WorkDate:          r.WorkDate,
		CheckInTime:       r.CheckIn.UTC().Format(time.RFC3339),
		CheckInLatitude:   r.CheckInLatitude,
		CheckInLongitude:  r.CheckInLongitude,
		CheckInNote:       r.CheckInNote,
		Status:            string(r.Status),
		LateMinutes:       r.LateMinutes,
		CheckOutLatitude:  r.CheckOutLatitude,
		CheckOutLongitude: r.CheckOutLongitude,
		CheckOutNote:      r.CheckOutNote,
	}
	if r.CheckOut != nil {
		out := r.CheckOut.UTC().Format(time.RFC3339)
		resp.CheckOutTime = &out
	}
	return resp
}
