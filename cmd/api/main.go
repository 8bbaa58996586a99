package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/auto-attendance/internal/config"
	appHTTP "github.com/cmlabs-hris/auto-attendance/internal/handler/http"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/i18n"
	"github.com/cmlabs-hris/auto-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/auto-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/auto-attendance/internal/service/attendance"
	overtimeService "github.com/cmlabs-hris/auto-attendance/internal/service/overtime"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "auto-attendance"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	translator, err := i18n.New(cfg.App.DefaultLocale)
	if err != nil {
		slog.Error("Failed to load locales", "error", err)
		os.Exit(1)
	}

	overtimeDispatcher := overtimeService.NewDispatcher(
		overtimeRepo,
		attendanceRepo,
		clock.System,
		logger,
		cfg.Attendance.OvertimeTimeout,
	)
	autoAttendanceService := attendanceService.NewAutoAttendanceService(
		attendanceRepo,
		settingsRepo,
		profileRepo,
		scheduleRepo,
		leaveRepo,
		overtimeDispatcher,
		transactor,
		clock.System,
		cfg.Location(),
		cfg.Attendance.DefaultOfficeIPs,
	)

	scheduler := cron.NewScheduler()
	retryJobs := overtimeService.NewRetryJobs(attendanceRepo, overtimeDispatcher, clock.System)
	retryJobs.RegisterJobs(scheduler, cfg.Attendance.OvertimeRetryInterval)
	// Catch up on recalculations left over from the previous run.
	scheduler.RunOnce(ctx)
	scheduler.Start(ctx)

	autoAttendanceHandler := appHTTP.NewAutoAttendanceHandler(autoAttendanceService, translator)

	router := appHTTP.NewRouter(JWTService, autoAttendanceHandler, translator, appHTTP.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		LogLevel:       cfg.LogLevel(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.Attendance.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	scheduler.Stop()
	overtimeDispatcher.Close()
	slog.Info("Shutdown complete")
}
