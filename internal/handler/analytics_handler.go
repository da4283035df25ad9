package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartbhoomi/smartbhoomi-api/internal/service"
	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetAnalytics returns the aggregated catalog and user summary.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.analyticsService.Aggregate(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}
