package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/email"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
	attendanceService "github.com/dayflow-hr/dayflow-backend/internal/service/attendance"
	authService "github.com/dayflow-hr/dayflow-backend/internal/service/auth"
	chatService "github.com/dayflow-hr/dayflow-backend/internal/service/chat"
	dashboardService "github.com/dayflow-hr/dayflow-backend/internal/service/dashboard"
	employeeService "github.com/dayflow-hr/dayflow-backend/internal/service/employee"
	leaderboardService "github.com/dayflow-hr/dayflow-backend/internal/service/leaderboard"
	leaveService "github.com/dayflow-hr/dayflow-backend/internal/service/leave"
	payrollService "github.com/dayflow-hr/dayflow-backend/internal/service/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/service/servicetest"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

type nopMailer struct{}

func (nopMailer) SendWelcome(email.WelcomeMessage) error { return email.ErrDisabled }

type testApp struct {
	router     *chi.Mux
	jwtService jwt.Service
	users      *servicetest.Users
	attendance *servicetest.Attendance
	admin      user.User
	employee   user.User
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	jwtService, err := jwt.NewJWTService("test-secret-key-for-jwt", "1h", false)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	users := servicetest.NewUsers()
	admin := users.Add(user.User{
		EmployeeCode: "ADMIN001",
		Email:        "admin@dayflow.test",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
		Profile:      user.Profile{FirstName: "Hema", LastName: "Rao"},
	})
	emp := users.Add(user.User{
		EmployeeCode: "EMP0001",
		Email:        "asha@dayflow.test",
		PasswordHash: string(hash),
		Role:         user.RoleEmployee,
		IsActive:     true,
		Profile:      user.Profile{FirstName: "Asha", LastName: "Nair", JoiningDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	})

	tx := &servicetest.Tx{}
	attendanceRepo := servicetest.NewAttendance(users)
	leaveRepo := servicetest.NewLeaveRequests()
	payrollRepo := servicetest.NewPayrolls(users)
	structureRepo := servicetest.NewStructures()
	messageRepo := servicetest.NewMessages(users)

	late := attendance.LateThreshold{Hour: 10, Location: time.UTC}
	payable := []attendance.Status{attendance.StatusPresent, attendance.StatusHalfDay, attendance.StatusLate}
	reconciler := payrollService.NewReconciler(attendanceRepo, payable)

	router := NewRouter(
		RouterOptions{FrontendURL: "http://localhost:3000", Version: "test", Env: "test"},
		jwtService,
		NewAuthHandler(jwtService, authService.NewAuthService(users, jwtService)),
		NewEmployeeHandler(employeeService.NewEmployeeService(users, nopMailer{}, "http://localhost:3000/login", time.UTC)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(attendanceRepo, users, time.UTC)),
		NewLeaveHandler(leaveService.NewLeaveService(tx, leaveRepo, attendanceRepo)),
		NewPayrollHandler(payrollService.NewPayrollService(tx, users, structureRepo, payrollRepo, attendanceRepo, reconciler, payrollService.Options{
			MissingStructurePolicy: payroll.PolicyStrict,
			FallbackGrossWage:      decimal.NewFromInt(50000),
			Workers:                2,
		})),
		NewDashboardHandler(dashboardService.NewDashboardService(users, attendanceRepo, leaveRepo, payrollRepo, dashboardService.Options{
			Late:                 late,
			AnnualLeaveAllowance: 12,
		})),
		NewLeaderboardHandler(leaderboardService.NewLeaderboardService(attendanceRepo, late, time.UTC)),
		NewChatHandler(chatService.NewChatService(messageRepo)),
	)

	return &testApp{
		router:     router,
		jwtService: jwtService,
		users:      users,
		attendance: attendanceRepo,
		admin:      admin,
		employee:   emp,
	}
}

func (a *testApp) token(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := a.jwtService.GenerateAccessToken(u.ID, u.Role, false)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	t.Run("employee code sets the session cookie", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"login_id": "EMP0001",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)

		var body struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID   string `json:"id"`
				Role string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, app.employee.ID, body.User.ID)
		assert.Equal(t, "EMPLOYEE", body.User.Role)

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == jwt.CookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.Equal(t, body.AccessToken, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		// The cookie alone authenticates follow-up requests.
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(cookie)
		me := httptest.NewRecorder()
		app.router.ServeHTTP(me, req)
		assert.Equal(t, http.StatusOK, me.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"login_id": "asha@dayflow.test",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "login_id")
		assert.Contains(t, env.Error.Details, "password")
	})
}

func TestLogout_ClearsCookie(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, jwt.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRouter_Authorization(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/v1/admin/employees", app.token(t, app.employee), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := app.do(t, http.MethodGet, "/api/v1/admin/employees", app.token(t, app.admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var employees []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &employees))
	require.Len(t, employees, 1)
	assert.Equal(t, app.employee.ID, employees[0].ID)
}

func TestUpdatePassword_ReissuesToken(t *testing.T) {
	app := newTestApp(t)
	first, _, err := app.jwtService.GenerateAccessToken(app.employee.ID, app.employee.Role, true)
	require.NoError(t, err)

	rec, _ := app.do(t, http.MethodPut, "/api/v1/auth/password", first, map[string]string{"new_password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, first, cookies[0].Value)

	updated, err := app.users.GetByID(t.Context(), app.employee.ID)
	require.NoError(t, err)
	assert.False(t, updated.FirstLogin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("s3cret-pass")))
}

func TestAttendance_CheckInFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, app.employee)

	rec, _ := app.do(t, http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today struct {
		Attendance *struct {
			Status string `json:"status"`
		} `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &today))
	require.NotNil(t, today.Attendance)
	assert.Equal(t, "PRESENT", today.Attendance.Status)
}

func TestAttendance_HistoryQueryValidation(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, app.employee)

	rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/history?month=abc&year=2025", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "must be a number", env.Error.Details["month"])

	rec, _ = app.do(t, http.MethodGet, "/api/v1/attendance/history?year=2025", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = app.do(t, http.MethodGet, "/api/v1/attendance/history?month=0&year=2024", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		JoiningDate string `json:"joining_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, "2024-01-15", history.JoiningDate)
}

func TestLeave_ApplyAndApprove(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, http.MethodPost, "/api/v1/leaves", app.token(t, app.employee), map[string]string{
		"type":       "SICK",
		"start_date": "2025-09-01",
		"end_date":   "2025-09-03",
		"reason":     "Flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID     string `json:"id"`
		Days   int    `json:"days"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 3, created.Days)
	assert.Equal(t, "PENDING", created.Status)

	rec, _ = app.do(t, http.MethodPut, "/api/v1/admin/leaves/"+created.ID, app.token(t, app.employee), map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = app.do(t, http.MethodPut, "/api/v1/admin/leaves/"+created.ID, app.token(t, app.admin), map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Leave request approved", env.Message)

	var leaveDays int
	for _, a := range app.attendance.All() {
		if a.EmployeeID == app.employee.ID && a.Status == attendance.StatusLeave {
			leaveDays++
		}
	}
	assert.Equal(t, 3, leaveDays)

	rec, _ = app.do(t, http.MethodPut, "/api/v1/admin/leaves/"+created.ID, app.token(t, app.admin), map[string]string{"status": "REJECTED", "comments": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChat_PostAndList(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodPost, "/api/v1/chat", app.token(t, app.employee), map[string]string{"content": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/chat", app.token(t, app.employee), map[string]string{"content": "Standup in 5"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := app.do(t, http.MethodGet, "/api/v1/chat", app.token(t, app.admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var messages []struct {
		SenderID string `json:"sender_id"`
		Content  string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, app.employee.ID, messages[0].SenderID)
	assert.Equal(t, "Standup in 5", messages[0].Content)
}

func TestPayroll_StructureRoutes(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, app.admin)

	rec, _ := app.do(t, http.MethodGet, "/api/v1/admin/payroll/structure/"+app.employee.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env := app.do(t, http.MethodPut, "/api/v1/admin/payroll/structure", token, map[string]any{
		"employee_id": app.employee.ID,
		"gross_wage":  "50000",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var saved struct {
		NetSalary decimal.Decimal `json:"net_salary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.True(t, saved.NetSalary.Equal(decimal.NewFromInt(46800)), "net %s", saved.NetSalary)

	rec, _ = app.do(t, http.MethodGet, "/api/v1/admin/payroll/structure/"+app.employee.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/v1/admin/payroll?month=x", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
