package handlers

import (
	"context"
	"net/http"

	"github.com/buildory/phodo-admin/internal/services"
	pkghttp "github.com/buildory/phodo-admin/pkg/http"
)

// DashboardService defines the dashboard aggregation contract.
type DashboardService interface {
	GetStats(ctx context.Context) (*services.DashboardStatsResponse, error)
}

// DashboardHandler handles admin dashboard HTTP requests.
type DashboardHandler struct {
	service DashboardService
}

func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats handles GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve dashboard stats")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, stats)
}
