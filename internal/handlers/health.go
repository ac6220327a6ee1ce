package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/services"
)

// HealthChecker reports the health of the engine's dependencies.
type HealthChecker interface {
	CheckHealth() *services.HealthStatus
}

type HealthHandler struct {
	health HealthChecker
	logger *logrus.Logger
}

func NewHealthHandler(health HealthChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		health: health,
		logger: logger,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := h.health.CheckHealth()

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, status)
}
