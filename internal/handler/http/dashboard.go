package http

import (
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/dashboard"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
)

type DashboardHandler interface {
	AdminStats(w http.ResponseWriter, r *http.Request)
	EmployeeStats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// AdminStats implements DashboardHandler.
func (d *dashboardHandlerImpl) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := d.dashboardService.AdminStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// EmployeeStats implements DashboardHandler.
func (d *dashboardHandlerImpl) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	stats, err := d.dashboardService.EmployeeStats(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}
