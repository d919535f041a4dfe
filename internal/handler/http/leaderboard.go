package http

import (
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/leaderboard"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type LeaderboardHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type leaderboardHandlerImpl struct {
	leaderboardService leaderboard.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService leaderboard.LeaderboardService) LeaderboardHandler {
	return &leaderboardHandlerImpl{leaderboardService: leaderboardService}
}

// Get implements LeaderboardHandler.
func (l *leaderboardHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	query := leaderboard.Query{
		Month: queryInt(r, "month", &errs),
		Year:  queryInt(r, "year", &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	board, err := l.leaderboardService.Get(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, board)
}
