package leaderboard

import "context"

type LeaderboardService interface {
	// Get ranks employees in every category for one month
	Get(ctx context.Context, query Query) (LeaderboardResponse, error)
}
