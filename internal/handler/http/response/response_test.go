package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/auto-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        validator.ValidationErrors{{Field: "latitude", Message: "latitude must be between -90 and 90"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeValidation,
		},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
		{"wrapped not authenticated", fmt.Errorf("today: %w", attendance.ErrNotAuthenticated), http.StatusUnauthorized, CodeUnauthorized},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "location", Message: "latitude and longitude must be provided together"}})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"location": "latitude and longitude must be provided together"}, body.Error.Details)
}
