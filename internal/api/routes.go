package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/config"
	"muscledynamics/workout-builder/internal/service"
)

// NewRouter builds a gin engine with the middleware stack and all routes.
func NewRouter(cfg config.ServerConfig, logger *zap.Logger, exerciseService service.ExerciseService) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestIDMiddleware(),
		LoggerMiddleware(logger),
		RecoveryMiddleware(logger),
		CORSMiddleware(cfg.CORSOrigins),
		RateLimitMiddleware(cfg.RateLimit),
	)
	SetupRoutes(router, logger, exerciseService)
	return router
}

// SetupRoutes registers the read-only exercise API under /api.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, exerciseService service.ExerciseService) {
	exerciseHandler := NewExerciseHandler(exerciseService, logger)
	healthHandler := NewHealthHandler(exerciseService, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", healthHandler.Health)

		exerciseGroup := apiGroup.Group("/exercises")
		{
			// GET /api/exercises?muscles=&equipment=&category=&search=&limit=&page=
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			// Static segments win over /:id
			exerciseGroup.GET("/equipment", exerciseHandler.GetEquipment)
			exerciseGroup.GET("/muscles", exerciseHandler.GetMuscles)
			exerciseGroup.GET("/random/:count", exerciseHandler.GetRandomExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}
	}
}
