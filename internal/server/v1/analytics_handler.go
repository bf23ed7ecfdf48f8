package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/internal/analytics"
	"github.com/nulzo/scribe/pkg/api"
)

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// GET /v1/analytics/usage?days=N
func (h *AnalyticsHandler) GetUsage(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(analytics.DefaultUsageDays)))
	if err != nil {
		_ = c.Error(api.BadRequestError("Invalid 'days' parameter"))
		return
	}

	stats, err := h.service.GetUsageOverview(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to fetch analytics", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   stats,
	})
}

// GET /v1/analytics/recent?limit=N
func (h *AnalyticsHandler) GetRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(analytics.DefaultRecentLimit)))
	if err != nil {
		_ = c.Error(api.BadRequestError("Invalid 'limit' parameter"))
		return
	}

	logs, err := h.service.GetRecent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to fetch recent generations", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   logs,
	})
}
