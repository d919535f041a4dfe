package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// presentStatuses are the attendance statuses that count as "present today".
var presentStatuses = []attendance.Status{attendance.StatusPresent, attendance.StatusLate, attendance.StatusHalfDay}

type Options struct {
	Late                 attendance.LateThreshold
	AnnualLeaveAllowance int
	Location             *time.Location
}

type DashboardServiceImpl struct {
	userRepo       user.UserRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	payrollRepo    payroll.PayrollRepository
	opts           Options
	now            func() time.Time
}

func NewDashboardService(
	userRepo user.UserRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	payrollRepo payroll.PayrollRepository,
	opts Options,
) dashboard.DashboardService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &DashboardServiceImpl{
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		payrollRepo:    payrollRepo,
		opts:           opts,
		now:            time.Now,
	}
}

// AdminStats returns the four overview cards using parallel goroutines
func (s *DashboardServiceImpl) AdminStats(ctx context.Context) (dashboard.AdminStatsResponse, error) {
	today := utils.DateOf(s.now(), s.opts.Location)
	month, year := utils.MonthIndex(today.Month()), today.Year()
	firstOfMonth, _ := utils.MonthRange(month, year)

	var employees, joined, present, pending, processed int

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Active employees and this month's joiners
	g.Go(func() error {
		var err error
		if employees, err = s.userRepo.CountActiveByRole(gCtx, user.RoleEmployee); err != nil {
			return err
		}
		joined, err = s.userRepo.CountJoinedSince(gCtx, user.RoleEmployee, firstOfMonth)
		return err
	})

	// 2. Present today
	g.Go(func() error {
		for _, status := range presentStatuses {
			n, err := s.attendanceRepo.CountByDateAndStatus(gCtx, today, status)
			if err != nil {
				return err
			}
			present += n
		}
		return nil
	})

	// 3. Pending leave requests
	g.Go(func() error {
		var err error
		pending, err = s.leaveRepo.CountByStatus(gCtx, leave.StatusPending)
		return err
	})

	// 4. Payroll rows for the current month
	g.Go(func() error {
		var err error
		processed, err = s.payrollRepo.CountByPeriod(gCtx, month, year)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.AdminStatsResponse{}, err
	}

	attendancePct := 0
	if employees > 0 {
		attendancePct = int(math.Round(float64(present) / float64(employees) * 100))
	}

	pendingChange := "All caught up"
	if pending > 0 {
		pendingChange = "Action required"
	}

	return dashboard.AdminStatsResponse{
		Stats: []dashboard.StatCard{
			{Key: "total_employees", Label: "Total Employees", Value: employees, Change: fmt.Sprintf("+%d this month", joined), Icon: dashboard.IconUsers},
			{Key: "present_today", Label: "Present Today", Value: present, Change: fmt.Sprintf("%d%% attendance", attendancePct), Icon: dashboard.IconUserCheck},
			{Key: "pending_leaves", Label: "Pending Leaves", Value: pending, Change: pendingChange, Icon: dashboard.IconClock},
			{Key: "payroll_status", Label: "Payroll Status", Value: payrollStatus(processed, employees), Change: fmt.Sprintf("%d of %d processed for %s", processed, employees, today.Month()), Icon: dashboard.IconBanknote},
		},
	}, nil
}

func payrollStatus(processed, employees int) string {
	switch {
	case processed == 0:
		return "Pending"
	case processed < employees:
		return "In Progress"
	}
	return "Processed"
}

// EmployeeStats summarises the caller's current month
func (s *DashboardServiceImpl) EmployeeStats(ctx context.Context, employeeID string) (dashboard.EmployeeStatsResponse, error) {
	today := utils.DateOf(s.now(), s.opts.Location)
	month, year := utils.MonthIndex(today.Month()), today.Year()
	first, last := utils.MonthRange(month, year)
	startOfYear := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	var (
		records  []attendance.Attendance
		approved []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByEmployeeAndRange(gCtx, employeeID, first, last)
		return err
	})
	g.Go(func() error {
		var err error
		approved, err = s.leaveRepo.ListApprovedByEmployeeSince(gCtx, employeeID, startOfYear)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboard.EmployeeStatsResponse{}, err
	}

	resp := dashboard.EmployeeStatsResponse{Month: month, Year: year}
	var worked time.Duration
	for _, r := range records {
		if r.Status == attendance.StatusPresent || r.CheckIn != nil {
			resp.PresentDays++
		}
		if r.CheckIn != nil && s.opts.Late.IsLate(*r.CheckIn) {
			resp.LateDays++
		}
		worked += r.WorkedDuration()
	}
	resp.TotalHours = math.Round(worked.Hours()*10) / 10

	used := 0
	for _, lr := range approved {
		if lr.Type != leave.LeaveTypeUnpaid {
			used += lr.Days()
		}
	}
	resp.LeaveBalance = max(0, s.opts.AnnualLeaveAllowance-used)

	return resp, nil
}
