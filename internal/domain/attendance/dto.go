package attendance

import (
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type HistoryQuery struct {
	UserID string
	Month  int
	Year   int
}

func (q *HistoryQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.UserID == "" {
		errs.Add("user_id", "is required")
	}
	if !validator.IsValidMonth(q.Month) {
		errs.Add("month", "must be between 0 and 11")
	}
	if !validator.IsValidYear(q.Year) {
		errs.Add("year", "must be between 2000 and 2100")
	}

	return errs.Err()
}

type AttendanceResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Date       string     `json:"date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Status     Status     `json:"status"`
}

type TodayResponse struct {
	Attendance *AttendanceResponse `json:"attendance"`
}

type HistoryResponse struct {
	Attendance  []AttendanceResponse `json:"attendance"`
	JoiningDate string               `json:"joining_date"`
}

type DailyEntryResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeCode string     `json:"employee_code"`
	Name         string     `json:"name"`
	Avatar       *string    `json:"avatar,omitempty"`
	Role         string     `json:"role"`
	Department   *string    `json:"department,omitempty"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Status       Status     `json:"status"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date.Format(time.DateOnly),
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     a.Status,
	}
}

func NewDailyEntryResponse(e EmployeeAttendance) DailyEntryResponse {
	role := "Employee"
	if e.JobTitle != nil && *e.JobTitle != "" {
		role = *e.JobTitle
	}
	return DailyEntryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name(),
		Avatar:       e.ProfilePic,
		Role:         role,
		Department:   e.Department,
		CheckIn:      e.CheckIn,
		CheckOut:     e.CheckOut,
		Status:       e.Status,
	}
}
