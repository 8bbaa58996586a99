package http

import (
	"log/slog"

	"github.com/cmlabs-hris/auto-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/i18n"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

func NewRouter(JWTService jwt.Service, attendanceHandler AutoAttendanceHandler, translator *i18n.Translator, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Locale(translator))

	r.Route("/api/v1/attendance", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))

		// Anonymous callers get a SKIPPED result rather than a 401.
		r.Group(func(r chi.Router) {
			r.Use(middleware.DropNonAccessTokens)
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/auto/check-in", attendanceHandler.CheckIn)
			r.Post("/auto/check-out", attendanceHandler.CheckOut)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired)
			r.Get("/today", attendanceHandler.Today)
		})
	})

	return r
}
