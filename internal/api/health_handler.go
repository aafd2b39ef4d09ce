package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/service"
)

// HealthHandler answers the liveness probe the client polls at startup.
type HealthHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

func NewHealthHandler(exerciseService service.ExerciseService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{exerciseService: exerciseService, logger: logger}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} gin.H
// @Failure 503 {object} gin.H
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.exerciseService.Health(c.Request.Context()); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}
