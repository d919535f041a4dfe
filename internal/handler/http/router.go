package http

import (
	"log/slog"
	"os"

	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/middleware"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	FrontendURL string
	Version     string
	Env         string
	LogLevel    slog.Level
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	payrollHandler PayrollHandler,
	dashboardHandler DashboardHandler,
	leaderboardHandler LeaderboardHandler,
	chatHandler ChatHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dayflow-hr"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwt.TokenFromCookie))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", authHandler.Me)
			r.Put("/auth/password", authHandler.UpdatePassword)

			r.Get("/profile", employeeHandler.GetProfile)
			r.Put("/profile", employeeHandler.UpdateProfile)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/today", attendanceHandler.Today)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/history", attendanceHandler.MyHistory)
			})

			r.Get("/leaves", leaveHandler.ListMine)
			r.Post("/leaves", leaveHandler.Apply)

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/history", payrollHandler.MyHistory)
				r.Get("/{id}/payslip", payrollHandler.Payslip)
				r.Get("/simulator", payrollHandler.SimulatorBase)
				r.Post("/simulator", payrollHandler.Simulate)
			})

			r.Get("/dashboard/stats", dashboardHandler.EmployeeStats)
			r.Get("/leaderboard", leaderboardHandler.Get)

			r.Get("/chat", chatHandler.List)
			r.Post("/chat", chatHandler.Post)

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/stats", dashboardHandler.AdminStats)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", employeeHandler.List)
					r.Post("/", employeeHandler.Create)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Delete)
				})

				r.Get("/attendance/today", attendanceHandler.DailyOverview)
				r.Get("/attendance/history", attendanceHandler.EmployeeHistory)

				r.Get("/leaves", leaveHandler.ListAll)
				r.Put("/leaves/{id}", leaveHandler.Review)

				r.Route("/payroll", func(r chi.Router) {
					r.Get("/", payrollHandler.List)
					r.Put("/structure", payrollHandler.SaveStructure)
					r.Get("/structure/{employeeId}", payrollHandler.GetStructure)
					r.Post("/run", payrollHandler.Run)
					r.Get("/export", payrollHandler.Export)
					r.Put("/{id}/paid", payrollHandler.MarkPaid)
				})
			})
		})
	})
	return r
}
