package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartbhoomi/smartbhoomi-api/internal/repository"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	store repository.Store
}

func NewHealthHandler(store repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// GetHealth reports service health, including store reachability.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if err := h.store.Ping(c.Request.Context()); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "SmartBhoomi Supply Chain API",
	})
}
