package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/i18n"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/validator"
)

type AutoAttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
}

type autoAttendanceHandlerImpl struct {
	attendanceService attendance.AutoAttendanceService
	translator        *i18n.Translator
}

func NewAutoAttendanceHandler(attendanceService attendance.AutoAttendanceService, translator *i18n.Translator) AutoAttendanceHandler {
	return &autoAttendanceHandlerImpl{
		attendanceService: attendanceService,
		translator:        translator,
	}
}

// CheckIn implements AutoAttendanceHandler.
func (h *autoAttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAutoAttendanceRequest(w, r)
	if !ok {
		return
	}

	result := h.attendanceService.AttemptAutoCheckIn(r.Context(), req)
	response.SuccessWithMessage(w, h.message(r.Context(), "checkin_success", result), result)
}

// CheckOut implements AutoAttendanceHandler.
func (h *autoAttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAutoAttendanceRequest(w, r)
	if !ok {
		return
	}

	result := h.attendanceService.AttemptAutoCheckOut(r.Context(), req)
	response.SuccessWithMessage(w, h.message(r.Context(), "checkout_success", result), result)
}

// Today implements AutoAttendanceHandler.
func (h *autoAttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	status, err := h.attendanceService.GetTodayStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// message renders a human sentence for result in the request locale.
func (h *autoAttendanceHandlerImpl) message(ctx context.Context, successID string, result attendance.Result) string {
	if h.translator == nil {
		return ""
	}

	switch result.Status {
	case attendance.ResultSuccess:
		method := h.translator.T(ctx, "method_"+result.Reason, nil)
		return h.translator.T(ctx, successID, map[string]any{"Method": method})
	case attendance.ResultNeedGPS:
		return h.translator.T(ctx, "need_gps", nil)
	case attendance.ResultSkipped:
		reason := result.Reason
		if i := strings.IndexByte(reason, '|'); i >= 0 {
			reason = reason[:i]
		}
		return h.translator.T(ctx, "skip_"+reason, nil)
	default:
		return h.translator.T(ctx, "attendance_error", nil)
	}
}

// decodeAutoAttendanceRequest reads the optional JSON body and stamps the client IP.
// An empty body means no GPS fix was supplied.
func decodeAutoAttendanceRequest(w http.ResponseWriter, r *http.Request) (attendance.AutoAttendanceRequest, bool) {
	var req attendance.AutoAttendanceRequest

	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			slog.Debug("Failed to decode auto attendance body", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return req, false
		}
	}
	req.ClientIP = resolveClientIP(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return req, false
	}

	return req, true
}

// resolveClientIP takes the first X-Forwarded-For hop, then X-Real-IP.
func resolveClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); !validator.IsEmpty(ip) {
		return strings.TrimSpace(ip)
	}
	return attendance.UnknownIP
}
