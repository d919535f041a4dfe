package leaderboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leaderboard"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/utils"
)

type LeaderboardServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	late           attendance.LateThreshold
	loc            *time.Location
	now            func() time.Time
}

func NewLeaderboardService(attendanceRepo attendance.AttendanceRepository, late attendance.LateThreshold, loc *time.Location) leaderboard.LeaderboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaderboardServiceImpl{
		attendanceRepo: attendanceRepo,
		late:           late,
		loc:            loc,
		now:            time.Now,
	}
}

// Get implements leaderboard.LeaderboardService.
func (s *LeaderboardServiceImpl) Get(ctx context.Context, query leaderboard.Query) (leaderboard.LeaderboardResponse, error) {
	if err := query.Validate(); err != nil {
		return leaderboard.LeaderboardResponse{}, err
	}

	today := utils.DateOf(s.now(), s.loc)
	month, year := utils.MonthIndex(today.Month()), today.Year()
	if query.Month != nil {
		month = *query.Month
	}
	if query.Year != nil {
		year = *query.Year
	}

	first, last := utils.MonthRange(month, year)
	records, err := s.attendanceRepo.ListEmployeeRecordsByRange(ctx, first, last)
	if err != nil {
		return leaderboard.LeaderboardResponse{}, err
	}

	return leaderboard.LeaderboardResponse{
		Month:       month,
		Year:        year,
		Leaderboard: Rank(records, s.late),
	}, nil
}

// tally accumulates one category's scores per employee.
type tally struct {
	values map[string]float64
	people map[string]attendance.EmployeeAttendance
}

func newTally() *tally {
	return &tally{values: map[string]float64{}, people: map[string]attendance.EmployeeAttendance{}}
}

func (t *tally) add(r attendance.EmployeeAttendance, v float64) {
	t.values[r.EmployeeID] += v
	t.people[r.EmployeeID] = r
}

// rankings orders employees by score descending. Ties keep a stable
// name-then-id order and get consecutive ranks.
func (t *tally) rankings(score func(float64) string) []leaderboard.Ranking {
	ids := make([]string, 0, len(t.values))
	for id := range t.values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if t.values[a] != t.values[b] {
			return t.values[a] > t.values[b]
		}
		if na, nb := t.people[a].Name(), t.people[b].Name(); na != nb {
			return na < nb
		}
		return a < b
	})

	out := make([]leaderboard.Ranking, 0, len(ids))
	for i, id := range ids {
		p := t.people[id]
		out = append(out, leaderboard.Ranking{
			Rank:       i + 1,
			EmployeeID: id,
			Name:       p.Name(),
			Title:      p.JobTitle,
			Avatar:     p.ProfilePic,
			Score:      score(t.values[id]),
			RawValue:   t.values[id],
		})
	}
	return out
}

func times(v float64) string { return fmt.Sprintf("%d times", int(v)) }

func hours(v float64) string { return fmt.Sprintf("%.1f Hrs", v) }

// Rank computes the four categories from one month of employee attendance.
func Rank(records []attendance.EmployeeAttendance, late attendance.LateThreshold) []leaderboard.Category {
	earlyBird, ironMan, lateLatif, gulliMaster := newTally(), newTally(), newTally(), newTally()

	// Early bird: the earliest check-in of each day wins that day
	earliest := map[time.Time]attendance.EmployeeAttendance{}
	for _, r := range records {
		if r.CheckIn == nil {
			continue
		}
		best, ok := earliest[r.Date]
		if !ok || r.CheckIn.Before(*best.CheckIn) || (r.CheckIn.Equal(*best.CheckIn) && r.EmployeeID < best.EmployeeID) {
			earliest[r.Date] = r
		}
	}
	for _, winner := range earliest {
		earlyBird.add(winner, 1)
	}

	for _, r := range records {
		if d := r.WorkedDuration(); d > 0 {
			ironMan.add(r, d.Hours())
		}
		if r.CheckIn != nil && late.IsLate(*r.CheckIn) {
			lateLatif.add(r, 1)
		}
		if r.Status == attendance.StatusLeave || r.Status == attendance.StatusAbsent {
			gulliMaster.add(r, 1)
		}
	}

	// Hours are summed unrounded and rounded once for display
	ironManRankings := ironMan.rankings(hours)
	for i := range ironManRankings {
		ironManRankings[i].RawValue = math.Round(ironManRankings[i].RawValue*100) / 100
	}

	return []leaderboard.Category{
		{
			ID:          leaderboard.CategoryEarlyBird,
			Title:       "The Early Bird",
			Description: "First to check-in most often",
			Icon:        leaderboard.IconSun,
			Rankings:    earlyBird.rankings(times),
		},
		{
			ID:          leaderboard.CategoryIronMan,
			Title:       "The Iron Man",
			Description: "Most hours clocked in",
			Icon:        leaderboard.IconDumbbell,
			Rankings:    ironManRankings,
		},
		{
			ID:          leaderboard.CategoryLateLatif,
			Title:       "The Late Latif",
			Description: "Most frequent late arrivals",
			Icon:        leaderboard.IconClock,
			Rankings:    lateLatif.rankings(times),
		},
		{
			ID:          leaderboard.CategoryGulliMaster,
			Title:       "The Gulli Master",
			Description: "Most leaves taken",
			Icon:        leaderboard.IconPlane,
			Rankings:    gulliMaster.rankings(times),
		},
	}
}
