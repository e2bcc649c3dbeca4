package handler

import (
	"net/http"

	"resourcegen/internal/service"

	"github.com/gin-gonic/gin"
)

// Banner GET / 回傳的純文字
const Banner = "AI Generator running..."

type HealthHandler struct {
	healthStatus *service.HealthService
}

func NewHealthHandler(status *service.HealthService) *HealthHandler {
	return &HealthHandler{healthStatus: status}
}

// Root 純文字存活訊息
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// HealthCheck 綜合狀態（含版本與運行秒數）
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthStatus.Status())
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "dead"})
}

// Readiness 未就緒時回 503，讓負載平衡器先不導流
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.healthStatus.IsReady() {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
}
