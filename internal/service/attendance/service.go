package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/overtime"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/profile"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/settings"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

const notePrefix = "Auto: "

type AutoAttendanceServiceImpl struct {
	attendanceRepo attendance.Repository
	settingsRepo   settings.Repository
	profileRepo    profile.Repository
	scheduleRepo   schedule.Repository
	leaveRepo      leave.Repository
	overtime       overtime.Dispatcher
	transactor     attendance.Transactor
	clock          clock.Clock
	loc            *time.Location
	fallbackIPs    settings.IPSet
}

// workday is what the shared guards learned about the current civil date.
type workday struct {
	shifts   []schedule.Shift
	settings settings.WorkSettings
}

// userIDFromContext reads the user_id claim of a verified token.
func userIDFromContext(ctx context.Context) (string, bool) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// AttemptAutoCheckIn implements attendance.AutoAttendanceService.
func (s *AutoAttendanceServiceImpl) AttemptAutoCheckIn(ctx context.Context, req attendance.AutoAttendanceRequest) (result attendance.Result) {
	defer s.recoverResult("check_in", &result)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return s.finish("check_in", "", attendance.Skipped(attendance.ReasonNotAuthenticated))
	}
	now := clock.Civil(s.clock, s.loc)

	prefs, err := s.profileRepo.GetAutoAttendancePrefs(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return s.finish("check_in", userID, attendance.Skipped(attendance.ReasonDisabled))
		}
		return s.finish("check_in", userID, attendance.Failed(err.Error()))
	}
	if !prefs.AutoCheckIn {
		return s.finish("check_in", userID, attendance.Skipped(attendance.ReasonDisabled))
	}

	open, err := s.attendanceRepo.GetOpenRecord(ctx, userID, now.Date)
	if err != nil {
		return s.finish("check_in", userID, attendance.Failed(err.Error()))
	}
	if open != nil {
		return s.finish("check_in", userID, attendance.Skipped(attendance.ReasonAlreadyCheckedIn))
	}

	day, skip := s.loadWorkday(ctx, userID, now)
	if skip != nil {
		return s.finish("check_in", userID, *skip)
	}

	shift, ok := MatchCheckInShift(day.shifts, now.Minutes, prefs.CheckInRemind())
	if !ok {
		return s.finish("check_in", userID, attendance.Skipped(attendance.ReasonOutsideTimeWindow))
	}

	verification := VerifyLocation(req.ClientIP, req.GPS(), day.settings, s.trustedIPs(day.settings))
	if verification.Outcome != Verified {
		return s.finish("check_in", userID, verification.Result())
	}

	lateness := EvaluateLateness(now.HHMM, shift.StartTime, day.settings)

	id, err := uuid.NewV7()
	if err != nil {
		return s.finish("check_in", userID, attendance.Failed(fmt.Sprintf("failed to generate attendance id: %v", err)))
	}

	record := attendance.Record{
		ID:          id.String(),
		UserID:      userID,
		WorkDate:    now.Date,
		CheckIn:     now.Instant,
		CheckInNote: notePrefix + verification.Method,
		Status:      lateness.Status,
		LateMinutes: lateness.LateMinutes,
	}
	if req.Latitude != nil && req.Longitude != nil {
		record.CheckInLatitude = req.Latitude
		record.CheckInLongitude = req.Longitude
	}

	if err := s.inTransaction(ctx, func(ctx context.Context) error {
		return s.insertUnlessOpen(ctx, record)
	}); err != nil {
		if errors.Is(err, attendance.ErrOpenSessionExists) {
			return s.finish("check_in", userID, attendance.Skipped(attendance.ReasonAlreadyCheckedIn))
		}
		return s.finish("check_in", userID, attendance.Failed(err.Error()))
	}

	slog.Info("Auto check-in recorded",
		"user_id", userID,
		"attendance_id", record.ID,
		"shift_id", shift.ID,
		"status", record.Status,
		"late_minutes", record.LateMinutes,
	)
	return s.finish("check_in", userID, attendance.Success(verification.Method))
}

// AttemptAutoCheckOut implements attendance.AutoAttendanceService.
func (s *AutoAttendanceServiceImpl) AttemptAutoCheckOut(ctx context.Context, req attendance.AutoAttendanceRequest) (result attendance.Result) {
	defer s.recoverResult("check_out", &result)

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return s.finish("check_out", "", attendance.Skipped(attendance.ReasonNotAuthenticated))
	}
	now := clock.Civil(s.clock, s.loc)

	prefs, err := s.profileRepo.GetAutoAttendancePrefs(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return s.finish("check_out", userID, attendance.Skipped(attendance.ReasonDisabled))
		}
		return s.finish("check_out", userID, attendance.Failed(err.Error()))
	}
	if !prefs.AutoCheckOut {
		return s.finish("check_out", userID, attendance.Skipped(attendance.ReasonDisabled))
	}

	open, err := s.attendanceRepo.GetOpenRecord(ctx, userID, now.Date)
	if err != nil {
		return s.finish("check_out", userID, attendance.Failed(err.Error()))
	}
	if open == nil {
		return s.finish("check_out", userID, attendance.Skipped(attendance.ReasonNoActiveSession))
	}

	day, skip := s.loadWorkday(ctx, userID, now)
	if skip != nil {
		return s.finish("check_out", userID, *skip)
	}

	shift, ok := MatchCheckOutShift(day.shifts, now.Minutes, prefs.CheckOutRemind(), prefs.CheckOutMode())
	if !ok {
		return s.finish("check_out", userID, attendance.Skipped(attendance.ReasonOutsideTimeWindow))
	}

	verification := VerifyLocation(req.ClientIP, req.GPS(), day.settings, s.trustedIPs(day.settings))
	if verification.Outcome != Verified {
		return s.finish("check_out", userID, verification.Result())
	}

	update := attendance.CheckOutUpdate{
		ID:       open.ID,
		CheckOut: now.Instant,
		Note:     notePrefix + verification.Method,
	}
	if req.Latitude != nil && req.Longitude != nil {
		update.Latitude = req.Latitude
		update.Longitude = req.Longitude
	}

	if err := s.attendanceRepo.CloseRecord(ctx, update); err != nil {
		return s.finish("check_out", userID, attendance.Failed(err.Error()))
	}

	if s.overtime != nil {
		s.overtime.Dispatch(open.ID)
	}

	slog.Info("Auto check-out recorded",
		"user_id", userID,
		"attendance_id", open.ID,
		"shift_id", shift.ID,
	)
	return s.finish("check_out", userID, attendance.Success(verification.Method))
}

// GetTodayStatus implements attendance.AutoAttendanceService.
func (s *AutoAttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return attendance.TodayStatusResponse{}, attendance.ErrNotAuthenticated
	}
	now := clock.Civil(s.clock, s.loc)

	latest, err := s.attendanceRepo.GetLatestRecord(ctx, userID, now.Date, nil)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayStatusResponse{Date: now.Date}
	if latest != nil {
		rec := attendance.NewRecordResponse(*latest)
		resp.Record = &rec
		resp.HasOpenSession = latest.IsOpen()
	}
	return resp, nil
}

// insertUnlessOpen re-reads the latest present or late record right before the
// insert; concurrent pollers may have checked in meanwhile.
func (s *AutoAttendanceServiceImpl) insertUnlessOpen(ctx context.Context, record attendance.Record) error {
	latest, err := s.attendanceRepo.GetLatestRecord(ctx, record.UserID, record.WorkDate,
		[]attendance.Status{attendance.StatusPresent, attendance.StatusLate})
	if err != nil {
		return err
	}
	if latest != nil && latest.IsOpen() {
		return attendance.ErrOpenSessionExists
	}
	_, err = s.attendanceRepo.Create(ctx, record)
	return err
}

func (s *AutoAttendanceServiceImpl) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.transactor == nil {
		return fn(ctx)
	}
	return s.transactor.WithinTransaction(ctx, fn)
}

// loadWorkday runs the schedule, leave and off-day guards in that order.
// A non-nil result means the attempt stops there.
func (s *AutoAttendanceServiceImpl) loadWorkday(ctx context.Context, userID string, now clock.Snapshot) (workday, *attendance.Result) {
	shifts, err := s.scheduleRepo.ListShiftsForDate(ctx, userID, now.Date)
	if err != nil {
		return workday{}, resultPtr(attendance.Failed(err.Error()))
	}
	if len(shifts) == 0 {
		return workday{}, resultPtr(attendance.Skipped(attendance.ReasonNoSchedule))
	}

	onLeave, err := s.leaveRepo.HasApprovedLeave(ctx, userID, now.Date)
	if err != nil {
		return workday{}, resultPtr(attendance.Failed(err.Error()))
	}
	if onLeave {
		return workday{}, resultPtr(attendance.Skipped(attendance.ReasonOnApprovedLeave))
	}

	ws, err := s.settingsRepo.GetWorkSettings(ctx)
	if err != nil {
		return workday{}, resultPtr(attendance.Failed(err.Error()))
	}
	if ws.IsOffDay(now.Weekday) {
		return workday{}, resultPtr(attendance.Skipped(attendance.ReasonCompanyOffDay))
	}

	return workday{shifts: shifts, settings: ws}, nil
}

func (s *AutoAttendanceServiceImpl) trustedIPs(ws settings.WorkSettings) settings.IPSet {
	if set := settings.ParseIPSet(ws.TrustedIPs); set.Len() > 0 {
		return set
	}
	return s.fallbackIPs
}

// recoverResult turns a panic anywhere in an attempt into an ERROR result.
func (s *AutoAttendanceServiceImpl) recoverResult(action string, result *attendance.Result) {
	if r := recover(); r != nil {
		slog.Error("Auto attendance panicked", "action", action, "panic", r)
		*result = attendance.Failed(fmt.Sprint(r))
	}
}

func (s *AutoAttendanceServiceImpl) finish(action, userID string, result attendance.Result) attendance.Result {
	switch result.Status {
	case attendance.ResultError:
		slog.Error("Auto attendance failed", "action", action, "user_id", userID, "error", result.Error)
	case attendance.ResultNeedGPS:
		slog.Info("Auto attendance needs GPS", "action", action, "user_id", userID, "reason", result.Reason)
	case attendance.ResultSkipped:
		slog.Debug("Auto attendance skipped", "action", action, "user_id", userID, "reason", result.Reason)
	}
	return result
}

func resultPtr(r attendance.Result) *attendance.Result {
	return &r
}

func NewAutoAttendanceService(
	attendanceRepo attendance.Repository,
	settingsRepo settings.Repository,
	profileRepo profile.Repository,
	scheduleRepo schedule.Repository,
	leaveRepo leave.Repository,
	overtimeDispatcher overtime.Dispatcher,
	transactor attendance.Transactor,
	clk clock.Clock,
	loc *time.Location,
	defaultOfficeIPs []string,
) attendance.AutoAttendanceService {
	if clk == nil {
		clk = clock.System
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AutoAttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		profileRepo:    profileRepo,
		scheduleRepo:   scheduleRepo,
		leaveRepo:      leaveRepo,
		overtime:       overtimeDispatcher,
		transactor:     transactor,
		clock:          clk,
		loc:            loc,
		fallbackIPs:    settings.ParseIPSet(defaultOfficeIPs),
	}
}
