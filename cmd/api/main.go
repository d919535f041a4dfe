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

	"github.com/dayflow-hr/dayflow-backend/internal/config"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	appHTTP "github.com/dayflow-hr/dayflow-backend/internal/handler/http"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/cron"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/email"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/postgresql"
	attendanceService "github.com/dayflow-hr/dayflow-backend/internal/service/attendance"
	serviceAuth "github.com/dayflow-hr/dayflow-backend/internal/service/auth"
	chatService "github.com/dayflow-hr/dayflow-backend/internal/service/chat"
	dashboardService "github.com/dayflow-hr/dayflow-backend/internal/service/dashboard"
	employeeService "github.com/dayflow-hr/dayflow-backend/internal/service/employee"
	leaderboardService "github.com/dayflow-hr/dayflow-backend/internal/service/leaderboard"
	leaveService "github.com/dayflow-hr/dayflow-backend/internal/service/leave"
	payrollService "github.com/dayflow-hr/dayflow-backend/internal/service/payroll"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "dayflow-hr"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	chatRepo := postgresql.NewChatRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.SecureCookie)
	if err != nil {
		return fmt.Errorf("initializing jwt: %w", err)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initializing email service: %w", err)
	}

	late := attendance.LateThreshold{
		Hour:     cfg.Attendance.LateAfterHour,
		Minute:   cfg.Attendance.LateAfterMinute,
		Location: cfg.App.Location,
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(userRepo, emailService, cfg.App.LoginURL, cfg.App.Location)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, cfg.App.Location)
	leaveSvc := leaveService.NewLeaveService(txManager, leaveRequestRepo, attendanceRepo)
	reconciler := payrollService.NewReconciler(attendanceRepo, cfg.Payroll.PayableStatuses)
	payrollSvc := payrollService.NewPayrollService(txManager, userRepo, structureRepo, payrollRepo, attendanceRepo, reconciler, payrollService.Options{
		MissingStructurePolicy: cfg.Payroll.MissingStructurePolicy,
		FallbackGrossWage:      cfg.Payroll.FallbackGrossWage,
		Workers:                cfg.Payroll.Workers,
		Location:               cfg.App.Location,
	})
	dashboardSvc := dashboardService.NewDashboardService(userRepo, attendanceRepo, leaveRequestRepo, payrollRepo, dashboardService.Options{
		Late:                 late,
		AnnualLeaveAllowance: cfg.Leave.AnnualAllowance,
		Location:             cfg.App.Location,
	})
	leaderboardSvc := leaderboardService.NewLeaderboardService(attendanceRepo, late, cfg.App.Location)
	chatSvc := chatService.NewChatService(chatRepo)

	if err := employeeSvc.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminCode, cfg.Seed.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}

	scheduler := cron.NewScheduler(ctx)
	if cfg.Cron.PayrollEnabled {
		cron.NewPayrollJobs(payrollSvc, cfg.Cron.PayrollDay, cfg.App.Location).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			FrontendURL: cfg.App.FrontendURL,
			Version:     version,
			Env:         cfg.App.Env,
			LogLevel:    cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.NewAuthHandler(JWTService, authService),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
		appHTTP.NewLeaderboardHandler(leaderboardSvc),
		appHTTP.NewChatHandler(chatSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", version)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
