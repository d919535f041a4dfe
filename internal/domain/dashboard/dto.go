package dashboard

// StatIcon is the closed set of icons a stat card can carry.
type StatIcon string

const (
	IconUsers     StatIcon = "users"
	IconUserCheck StatIcon = "user_check"
	IconClock     StatIcon = "clock"
	IconBanknote  StatIcon = "banknote"
)

// ========== ADMIN STATS ==========

// StatCard is one tile of the admin overview.
type StatCard struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Value  any      `json:"value"`
	Change string   `json:"change"`
	Icon   StatIcon `json:"icon"`
}

type AdminStatsResponse struct {
	Stats []StatCard `json:"stats"`
}

// ========== EMPLOYEE STATS ==========

// EmployeeStatsResponse summarises the caller's current month.
type EmployeeStatsResponse struct {
	PresentDays  int     `json:"present_days"`
	LateDays     int     `json:"late_days"`
	TotalHours   float64 `json:"total_hours"`
	LeaveBalance int     `json:"leave_balance"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
}
