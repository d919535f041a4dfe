package http

import (
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)

	// Admin
	DailyOverview(w http.ResponseWriter, r *http.Request)
	EmployeeHistory(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Today implements AttendanceHandler.
func (a *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	today, err := a.attendanceService.Today(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, today)
}

// CheckIn implements AttendanceHandler.
func (a *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	record, err := a.attendanceService.CheckIn(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (a *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	record, err := a.attendanceService.CheckOut(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// MyHistory implements AttendanceHandler.
func (a *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	a.history(w, r, claims.UserID)
}

// EmployeeHistory implements AttendanceHandler.
func (a *attendanceHandlerImpl) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	a.history(w, r, r.URL.Query().Get("user_id"))
}

func (a *attendanceHandlerImpl) history(w http.ResponseWriter, r *http.Request, userID string) {
	var errs validator.ValidationErrors
	month := queryInt(r, "month", &errs)
	year := queryInt(r, "year", &errs)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Missing values fall outside the valid range and fail validation.
	query := attendance.HistoryQuery{UserID: userID, Month: -1, Year: -1}
	if month != nil {
		query.Month = *month
	}
	if year != nil {
		query.Year = *year
	}

	history, err := a.attendanceService.History(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// DailyOverview implements AttendanceHandler.
func (a *attendanceHandlerImpl) DailyOverview(w http.ResponseWriter, r *http.Request) {
	entries, err := a.attendanceService.DailyOverview(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}
