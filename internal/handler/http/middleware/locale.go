package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/auto-attendance/internal/pkg/i18n"
)

// Locale stores the negotiated Accept-Language locale on the request context.
func Locale(tr *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tr == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := tr.Negotiate(r.Header.Get("Accept-Language"))
			next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), locale)))
		})
	}
}
