package leaderboard

import "github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"

// CategoryIcon is the closed set of icons a leaderboard category can carry.
type CategoryIcon string

const (
	IconSun      CategoryIcon = "sun"
	IconDumbbell CategoryIcon = "dumbbell"
	IconClock    CategoryIcon = "clock"
	IconPlane    CategoryIcon = "plane"
)

type CategoryID string

const (
	CategoryEarlyBird   CategoryID = "early_bird"
	CategoryIronMan     CategoryID = "iron_man"
	CategoryLateLatif   CategoryID = "late_latif"
	CategoryGulliMaster CategoryID = "gulli_master"
)

// Query selects the month to rank. Nil fields default to the current month.
type Query struct {
	Month *int
	Year  *int
}

func (q *Query) Validate() error {
	var errs validator.ValidationErrors

	if q.Month != nil && !validator.IsValidMonth(*q.Month) {
		errs.Add("month", "must be between 0 and 11")
	}
	if q.Year != nil && !validator.IsValidYear(*q.Year) {
		errs.Add("year", "must be between 2000 and 2100")
	}

	return errs.Err()
}

type Ranking struct {
	Rank       int     `json:"rank"`
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Title      *string `json:"title,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Score      string  `json:"score"`
	RawValue   float64 `json:"raw_value"`
}

type Category struct {
	ID          CategoryID   `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        CategoryIcon `json:"icon"`
	Rankings    []Ranking    `json:"rankings"`
}

type LeaderboardResponse struct {
	Month       int        `json:"month"`
	Year        int        `json:"year"`
	Leaderboard []Category `json:"leaderboard"`
}
