package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/auto-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/auto-attendance/internal/handler/http/response"
	jwtpkg "github.com/cmlabs-hris/auto-attendance/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hasAccessToken(r) {
			if _, _, err := jwtauth.FromContext(r.Context()); errors.Is(err, jwtauth.ErrExpired) {
				response.HandleError(w, auth.ErrTokenExpired)
				return
			}
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DropNonAccessTokens clears any token that is missing or not an access token,
// leaving the request anonymous instead of rejecting it.
func DropNonAccessTokens(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hasAccessToken(r) {
			r = r.WithContext(jwtauth.NewContext(r.Context(), nil, auth.ErrInvalidToken))
		}
		next.ServeHTTP(w, r)
	})
}

func hasAccessToken(r *http.Request) bool {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return false
	}
	tokenType, ok := claims["type"].(string)
	return ok && tokenType == jwtpkg.TokenTypeAccess
}
