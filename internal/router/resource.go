package router

import (
	"resourcegen/internal/handler"

	"github.com/gin-gonic/gin"
)

type ResourceRouter struct {
	resourceHandler *handler.ResourceHandler
}

func NewResourceRouter(resourceHandler *handler.ResourceHandler) *ResourceRouter {
	return &ResourceRouter{resourceHandler: resourceHandler}
}

func (router *ResourceRouter) RegisterRoutes(r *gin.Engine) {
	r.POST("/generate", router.resourceHandler.Generate)
	r.POST("/generate-resource", router.resourceHandler.Generate)
	r.POST("/activate-paid", router.resourceHandler.Activate)
}
