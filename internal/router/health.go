package router

import (
	"resourcegen/internal/handler"

	"github.com/gin-gonic/gin"
)

type HealthRouter struct {
	healthHandler *handler.HealthHandler
}

func NewHealthRouter(healthHandler *handler.HealthHandler) *HealthRouter {
	return &HealthRouter{healthHandler: healthHandler}
}

// RegisterRoutes GET / 為純文字 banner，其餘為 JSON 探針
func (healthRouter *HealthRouter) RegisterRoutes(r *gin.Engine) {
	r.GET("/", healthRouter.healthHandler.Root)
	r.GET("/health-check", healthRouter.healthHandler.HealthCheck)

	healthGroup := r.Group("/health")
	healthGroup.GET("/liveness", healthRouter.healthHandler.Liveness)
	healthGroup.GET("/readiness", healthRouter.healthHandler.Readiness)
}
