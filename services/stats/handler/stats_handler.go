package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	stats "farmify/internal/statsService"
	"farmify/services/helpers"
	"farmify/utils"
)

type StatsServiceInterface interface {
	Overview(ctx context.Context) (stats.Overview, error)
}

type StatsHandler struct {
	service StatsServiceInterface
}

func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// OverviewHandler handles GET /api/stats
func (h *StatsHandler) OverviewHandler(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "OverviewHandler", err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, overview, "statistics retrieved successfully")
	helpers.LogSuccess("OverviewHandler", "statistics retrieved successfully", map[string]any{
		"total_bids":     overview.TotalBids,
		"total_listings": overview.TotalListings,
	})
}
