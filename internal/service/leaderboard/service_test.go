package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leaderboard"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/dayflow-hr/dayflow-backend/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenAM = attendance.LateThreshold{Hour: 10, Minute: 0, Location: time.UTC}

func clock(m time.Month, d, hour, minute int) *time.Time {
	t := time.Date(2025, m, d, hour, minute, 0, 0, time.UTC)
	return &t
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc     *LeaderboardServiceImpl
	records *servicetest.Attendance
	asha    user.User
	bala    user.User
}

func newFixture() *fixture {
	users := servicetest.NewUsers()
	title := "Engineer"
	f := &fixture{records: servicetest.NewAttendance(users)}
	f.asha = users.Add(user.User{EmployeeCode: "EMP0001", Role: user.RoleEmployee, Profile: user.Profile{FirstName: "Asha", LastName: "Rao", JobTitle: &title}})
	f.bala = users.Add(user.User{EmployeeCode: "EMP0002", Role: user.RoleEmployee, Profile: user.Profile{FirstName: "Bala", LastName: "Iyer"}})
	admin := users.Add(user.User{EmployeeCode: "ADMIN001", Role: user.RoleAdmin, Profile: user.Profile{FirstName: "Admin"}})

	add := func(u user.User, d time.Time, in, out *time.Time, status attendance.Status) {
		f.records.Add(attendance.Attendance{EmployeeID: u.ID, Date: d, CheckIn: in, CheckOut: out, Status: status})
	}
	add(f.asha, day(time.September, 1), clock(time.September, 1, 9, 0), clock(time.September, 1, 17, 0), attendance.StatusPresent)
	add(f.bala, day(time.September, 1), clock(time.September, 1, 8, 30), clock(time.September, 1, 18, 30), attendance.StatusPresent)
	add(f.asha, day(time.September, 2), clock(time.September, 2, 8, 0), clock(time.September, 2, 16, 0), attendance.StatusPresent)
	add(f.bala, day(time.September, 2), clock(time.September, 2, 10, 15), clock(time.September, 2, 19, 15), attendance.StatusPresent)
	add(f.asha, day(time.September, 3), nil, nil, attendance.StatusLeave)
	add(f.bala, day(time.September, 3), clock(time.September, 3, 10, 30), nil, attendance.StatusPresent)
	add(f.asha, day(time.September, 4), nil, nil, attendance.StatusAbsent)
	add(admin, day(time.September, 1), clock(time.September, 1, 7, 0), clock(time.September, 1, 20, 0), attendance.StatusPresent)
	add(f.asha, day(time.August, 31), clock(time.August, 31, 6, 0), clock(time.August, 31, 20, 0), attendance.StatusPresent)

	f.svc = NewLeaderboardService(f.records, tenAM, time.UTC).(*LeaderboardServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, time.September, 20, 12, 0, 0, 0, time.UTC) }
	return f
}

func category(t *testing.T, resp leaderboard.LeaderboardResponse, id leaderboard.CategoryID) leaderboard.Category {
	t.Helper()
	for _, c := range resp.Leaderboard {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("category %s missing", id)
	return leaderboard.Category{}
}

func TestGet_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Get(context.Background(), leaderboard.Query{})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Month)
	assert.Equal(t, 2025, resp.Year)
	require.Len(t, resp.Leaderboard, 4)

	early := category(t, resp, leaderboard.CategoryEarlyBird)
	assert.Equal(t, leaderboard.IconSun, early.Icon)
	require.Len(t, early.Rankings, 2)
	assert.Equal(t, f.bala.ID, early.Rankings[0].EmployeeID)
	assert.Equal(t, "2 times", early.Rankings[0].Score)
	assert.Equal(t, 1, early.Rankings[0].Rank)
	assert.Equal(t, "Asha Rao", early.Rankings[1].Name)
	assert.Equal(t, 2, early.Rankings[1].Rank)
	require.NotNil(t, early.Rankings[1].Title)
	assert.Equal(t, "Engineer", *early.Rankings[1].Title)

	iron := category(t, resp, leaderboard.CategoryIronMan)
	require.Len(t, iron.Rankings, 2)
	assert.Equal(t, "19.0 Hrs", iron.Rankings[0].Score)
	assert.Equal(t, 19.0, iron.Rankings[0].RawValue)
	assert.Equal(t, "16.0 Hrs", iron.Rankings[1].Score)

	late := category(t, resp, leaderboard.CategoryLateLatif)
	require.Len(t, late.Rankings, 1)
	assert.Equal(t, f.bala.ID, late.Rankings[0].EmployeeID)
	assert.Equal(t, "2 times", late.Rankings[0].Score)

	gulli := category(t, resp, leaderboard.CategoryGulliMaster)
	assert.Equal(t, leaderboard.IconPlane, gulli.Icon)
	require.Len(t, gulli.Rankings, 1)
	assert.Equal(t, f.asha.ID, gulli.Rankings[0].EmployeeID)
	assert.Equal(t, "2 times", gulli.Rankings[0].Score)
}

func TestGet_ExplicitMonth(t *testing.T) {
	f := newFixture()
	month, year := 7, 2025

	resp, err := f.svc.Get(context.Background(), leaderboard.Query{Month: &month, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Month)

	early := category(t, resp, leaderboard.CategoryEarlyBird)
	require.Len(t, early.Rankings, 1)
	assert.Equal(t, f.asha.ID, early.Rankings[0].EmployeeID)
	assert.Empty(t, category(t, resp, leaderboard.CategoryGulliMaster).Rankings)
}

func TestGet_Validation(t *testing.T) {
	f := newFixture()
	month := 12

	_, err := f.svc.Get(context.Background(), leaderboard.Query{Month: &month})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRank_TiesAreOrderedByName(t *testing.T) {
	records := []attendance.EmployeeAttendance{
		{Attendance: attendance.Attendance{EmployeeID: "z", Date: day(time.September, 1), Status: attendance.StatusAbsent}, FirstName: "Zoya"},
		{Attendance: attendance.Attendance{EmployeeID: "a", Date: day(time.September, 1), Status: attendance.StatusLeave}, FirstName: "Arun"},
	}

	cats := Rank(records, tenAM)
	gulli := cats[3].Rankings
	require.Len(t, gulli, 2)
	assert.Equal(t, "Arun", gulli[0].Name)
	assert.Equal(t, 1, gulli[0].Rank)
	assert.Equal(t, "Zoya", gulli[1].Name)
	assert.Equal(t, 2, gulli[1].Rank)
	assert.Empty(t, cats[0].Rankings)
	assert.NotNil(t, cats[0].Rankings)
}
