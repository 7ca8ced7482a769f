package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/minhtg/flashsale/internal/server/http/handlers"
	"github.com/minhtg/flashsale/internal/server/http/middleware"
)

// Setup configures the gin engine with the operational endpoints.
func Setup(health *handlers.HealthHandler, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))

	engine.GET("/healthz", health.Live)
	engine.GET("/readyz", health.Ready)

	return engine
}
