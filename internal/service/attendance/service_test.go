package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/dayflow-hr/dayflow-backend/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fixture struct {
	svc     *AttendanceServiceImpl
	users   *servicetest.Users
	records *servicetest.Attendance
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users: servicetest.NewUsers(),
		// 20:00 UTC on Sep 9 is already Sep 10 in IST
		clock: time.Date(2025, time.September, 9, 20, 0, 0, 0, time.UTC),
	}
	f.records = servicetest.NewAttendance(f.users)
	f.svc = NewAttendanceService(f.records, f.users, ist).(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) employee(code string) user.User {
	title := "Engineer"
	return f.users.Add(user.User{
		EmployeeCode: code,
		Email:        code + "@dayflow.test",
		Role:         user.RoleEmployee,
		IsActive:     true,
		Profile: user.Profile{
			FirstName:   "Asha",
			LastName:    code,
			JobTitle:    &title,
			JoiningDate: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		},
	})
}

func TestCheckIn_UsesLocalDate(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("EMP0001")

	resp, err := f.svc.CheckIn(context.Background(), emp.ID)
	require.NoError(t, err)

	assert.Equal(t, "2025-09-10", resp.Date)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	require.NotNil(t, resp.CheckIn)
	assert.True(t, resp.CheckIn.Equal(f.clock))
	assert.Nil(t, resp.CheckOut)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("EMP0001")

	_, err := f.svc.CheckIn(context.Background(), emp.ID)
	require.NoError(t, err)
	_, err = f.svc.CheckIn(context.Background(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_OnLeaveDay(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("EMP0001")
	f.records.Add(attendance.Attendance{EmployeeID: emp.ID, Date: time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC), Status: attendance.StatusLeave})

	_, err := f.svc.CheckIn(context.Background(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	_, err = f.svc.CheckOut(context.Background(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("EMP0001")

	_, err := f.svc.CheckOut(context.Background(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.CheckIn(context.Background(), emp.ID)
	require.NoError(t, err)

	f.clock = f.clock.Add(8 * time.Hour)
	resp, err := f.svc.CheckOut(context.Background(), emp.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.CheckOut)
	assert.True(t, resp.CheckOut.Equal(f.clock))
	assert.Equal(t, "2025-09-10", resp.Date)

	_, err = f.svc.CheckOut(context.Background(), emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestToday(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("EMP0001")

	resp, err := f.svc.Today(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.Attendance)

	_, err = f.svc.CheckIn(context.Background(), emp.ID)
	require.NoError(t, err)

	resp, err = f.svc.Today(context.Background(), emp.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Attendance)
	assert.Equal(t, "2025-09-10", resp.Attendance.Date)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	emp := f.employee("EMP0001")
	for _, d := range []time.Time{
		time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.September, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
	} {
		f.records.Add(attendance.Attendance{EmployeeID: emp.ID, Date: d, Status: attendance.StatusPresent})
	}

	resp, err := f.svc.History(context.Background(), attendance.HistoryQuery{UserID: emp.ID, Month: 8, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", resp.JoiningDate)
	require.Len(t, resp.Attendance, 2)
	assert.Equal(t, "2025-09-01", resp.Attendance[0].Date)
	assert.Equal(t, "2025-09-02", resp.Attendance[1].Date)
}

func TestHistory_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.History(context.Background(), attendance.HistoryQuery{UserID: "x", Month: 12, Year: 2025})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.History(context.Background(), attendance.HistoryQuery{UserID: "missing", Month: 0, Year: 2025})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDailyOverview(t *testing.T) {
	f := newFixture(t)
	a := f.employee("EMP0001")
	b := f.employee("EMP0002")

	_, err := f.svc.CheckIn(context.Background(), a.ID)
	require.NoError(t, err)
	f.records.Add(attendance.Attendance{EmployeeID: b.ID, Date: time.Date(2025, time.September, 9, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent})

	entries, err := f.svc.DailyOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "EMP0001", entries[0].EmployeeCode)
	assert.Equal(t, "Asha EMP0001", entries[0].Name)
	assert.Equal(t, "Engineer", entries[0].Role)
}
