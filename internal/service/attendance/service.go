package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	loc            *time.Location
	now            func() time.Time
}

// NewAttendanceService returns the attendance service. "Today" is the
// calendar date in loc.
func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, userRepo user.UserRepository, loc *time.Location) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		loc:            loc,
		now:            time.Now,
	}
}

func (a *AttendanceServiceImpl) today() (now time.Time, date time.Time) {
	now = a.now()
	return now, utils.DateOf(now, a.loc)
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	_, date := a.today()

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.TodayResponse{}, nil
		}
		return attendance.TodayResponse{}, err
	}

	resp := attendance.NewAttendanceResponse(record)
	return attendance.TodayResponse{Attendance: &resp}, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	now, date := a.today()

	record, err := a.attendanceRepo.CreateCheckIn(ctx, employeeID, date, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee checked in", "employee_id", employeeID, "date", date.Format(time.DateOnly))
	return attendance.NewAttendanceResponse(record), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	now, date := a.today()

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, err
	}
	// A LEAVE day has a record but no check-in.
	if record.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	record, err = a.attendanceRepo.SetCheckOut(ctx, record.ID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Employee checked out", "employee_id", employeeID, "date", date.Format(time.DateOnly))
	return attendance.NewAttendanceResponse(record), nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, query attendance.HistoryQuery) (attendance.HistoryResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	owner, err := a.userRepo.GetByID(ctx, query.UserID)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	first, last := utils.MonthRange(query.Month, query.Year)
	records, err := a.attendanceRepo.ListByEmployeeAndRange(ctx, query.UserID, first, last)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	resp := attendance.HistoryResponse{
		Attendance:  make([]attendance.AttendanceResponse, 0, len(records)),
		JoiningDate: owner.Profile.JoiningDate.Format(time.DateOnly),
	}
	for _, r := range records {
		resp.Attendance = append(resp.Attendance, attendance.NewAttendanceResponse(r))
	}
	return resp, nil
}

// DailyOverview implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DailyOverview(ctx context.Context) ([]attendance.DailyEntryResponse, error) {
	_, date := a.today()

	entries, err := a.attendanceRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.DailyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, attendance.NewDailyEntryResponse(e))
	}
	return resp, nil
}
