package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        *DashboardServiceImpl
	users      *servicetest.Users
	attendance *servicetest.Attendance
	leaves     *servicetest.LeaveRequests
	payrolls   *servicetest.Payrolls
}

func date(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func at(m time.Month, d, hour, minute int) *time.Time {
	t := time.Date(2025, m, d, hour, minute, 0, 0, time.UTC)
	return &t
}

func newFixture(allowance int) *fixture {
	f := &fixture{users: servicetest.NewUsers(), leaves: servicetest.NewLeaveRequests()}
	f.attendance = servicetest.NewAttendance(f.users)
	f.payrolls = servicetest.NewPayrolls(f.users)
	f.svc = NewDashboardService(f.users, f.attendance, f.leaves, f.payrolls, Options{
		Late:                 attendance.LateThreshold{Hour: 10, Minute: 0, Location: time.UTC},
		AnnualLeaveAllowance: allowance,
		Location:             time.UTC,
	}).(*DashboardServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, time.September, 10, 11, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) employee(code string, active bool, joined time.Time) user.User {
	return f.users.Add(user.User{
		EmployeeCode: code,
		Email:        code + "@dayflow.test",
		Role:         user.RoleEmployee,
		IsActive:     active,
		Profile:      user.Profile{FirstName: code, JoiningDate: joined},
	})
}

func TestAdminStats(t *testing.T) {
	f := newFixture(12)
	a := f.employee("EMP0001", true, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC))
	b := f.employee("EMP0002", true, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))
	c := f.employee("EMP0003", true, date(time.September, 2))
	f.employee("EMP0004", false, time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC))
	f.users.Add(user.User{EmployeeCode: "ADMIN001", Email: "admin@dayflow.test", Role: user.RoleAdmin, IsActive: true})

	f.attendance.Add(attendance.Attendance{EmployeeID: a.ID, Date: date(time.September, 10), CheckIn: at(time.September, 10, 9, 0), Status: attendance.StatusPresent})
	f.attendance.Add(attendance.Attendance{EmployeeID: b.ID, Date: date(time.September, 10), CheckIn: at(time.September, 10, 9, 30), Status: attendance.StatusPresent})
	f.attendance.Add(attendance.Attendance{EmployeeID: c.ID, Date: date(time.September, 10), Status: attendance.StatusLeave})
	f.attendance.Add(attendance.Attendance{EmployeeID: c.ID, Date: date(time.September, 9), CheckIn: at(time.September, 9, 9, 0), Status: attendance.StatusPresent})

	for _, id := range []string{a.ID, b.ID} {
		_, err := f.leaves.Create(context.Background(), leave.LeaveRequest{EmployeeID: id, Type: leave.LeaveTypeSick, StartDate: date(time.October, 1), EndDate: date(time.October, 1)})
		require.NoError(t, err)
	}
	_, err := f.payrolls.Upsert(context.Background(), payroll.Payroll{EmployeeID: a.ID, Month: 8, Year: 2025, NetPay: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	resp, err := f.svc.AdminStats(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Stats, 4)

	byKey := map[string]dashboard.StatCard{}
	for _, card := range resp.Stats {
		byKey[card.Key] = card
	}

	assert.Equal(t, 3, byKey["total_employees"].Value)
	assert.Equal(t, "+1 this month", byKey["total_employees"].Change)
	assert.Equal(t, dashboard.IconUsers, byKey["total_employees"].Icon)

	assert.Equal(t, 2, byKey["present_today"].Value)
	assert.Equal(t, "67% attendance", byKey["present_today"].Change)

	assert.Equal(t, 2, byKey["pending_leaves"].Value)
	assert.Equal(t, "Action required", byKey["pending_leaves"].Change)

	assert.Equal(t, "In Progress", byKey["payroll_status"].Value)
	assert.Equal(t, "1 of 3 processed for September", byKey["payroll_status"].Change)
	assert.Equal(t, dashboard.IconBanknote, byKey["payroll_status"].Icon)
}

func TestAdminStats_Empty(t *testing.T) {
	f := newFixture(12)

	resp, err := f.svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stats[0].Value)
	assert.Equal(t, "0% attendance", resp.Stats[1].Change)
	assert.Equal(t, "All caught up", resp.Stats[2].Change)
	assert.Equal(t, "Pending", resp.Stats[3].Value)
}

func TestPayrollStatus(t *testing.T) {
	assert.Equal(t, "Pending", payrollStatus(0, 5))
	assert.Equal(t, "In Progress", payrollStatus(3, 5))
	assert.Equal(t, "Processed", payrollStatus(5, 5))
}

func (f *fixture) approvedLeave(t *testing.T, employeeID string, typ leave.LeaveType, start, end time.Time) {
	t.Helper()
	lr, err := f.leaves.Create(context.Background(), leave.LeaveRequest{EmployeeID: employeeID, Type: typ, StartDate: start, EndDate: end})
	require.NoError(t, err)
	_, err = f.leaves.UpdateStatus(context.Background(), lr.ID, leave.StatusApproved, nil, "admin", time.Now())
	require.NoError(t, err)
}

func TestEmployeeStats(t *testing.T) {
	f := newFixture(12)
	emp := f.employee("EMP0001", true, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC))

	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: date(time.September, 1), CheckIn: at(time.September, 1, 9, 0), CheckOut: at(time.September, 1, 17, 30), Status: attendance.StatusPresent})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: date(time.September, 2), CheckIn: at(time.September, 2, 10, 30), CheckOut: at(time.September, 2, 18, 0), Status: attendance.StatusPresent})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: date(time.September, 3), Status: attendance.StatusLeave})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: date(time.September, 4), CheckIn: at(time.September, 4, 9, 55), Status: attendance.StatusPresent})
	f.attendance.Add(attendance.Attendance{EmployeeID: emp.ID, Date: date(time.August, 29), CheckIn: at(time.August, 29, 11, 0), Status: attendance.StatusPresent})

	f.approvedLeave(t, emp.ID, leave.LeaveTypePaid, date(time.February, 3), date(time.February, 5))
	f.approvedLeave(t, emp.ID, leave.LeaveTypeUnpaid, date(time.March, 1), date(time.March, 2))
	f.approvedLeave(t, emp.ID, leave.LeaveTypeSick, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))

	resp, err := f.svc.EmployeeStats(context.Background(), emp.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.PresentDays)
	assert.Equal(t, 1, resp.LateDays)
	assert.Equal(t, 16.0, resp.TotalHours)
	assert.Equal(t, 9, resp.LeaveBalance)
	assert.Equal(t, 8, resp.Month)
	assert.Equal(t, 2025, resp.Year)
}

func TestEmployeeStats_LeaveBalanceFloorsAtZero(t *testing.T) {
	f := newFixture(2)
	emp := f.employee("EMP0001", true, time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC))
	f.approvedLeave(t, emp.ID, leave.LeaveTypePaid, date(time.February, 3), date(time.February, 7))

	resp, err := f.svc.EmployeeStats(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LeaveBalance)
	assert.Zero(t, resp.TotalHours)
}

func TestEmployeeStats_RepositoryError(t *testing.T) {
	f := newFixture(12)
	f.attendance.Err = errors.New("connection reset")

	_, err := f.svc.EmployeeStats(context.Background(), "emp")
	assert.Error(t, err)
}
