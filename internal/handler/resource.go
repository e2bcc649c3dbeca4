package handler

import (
	"errors"
	"io"

	"resourcegen/internal/core"
	"resourcegen/internal/dto"
	"resourcegen/internal/pkg/request"
	"resourcegen/internal/pkg/response"
	"resourcegen/internal/service"
	"resourcegen/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	trace           *telemetry.Trace
	resourceService *service.ResourceService
}

func NewResourceHandler(trace *telemetry.Trace, resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{trace: trace, resourceService: resourceService}
}

// Generate 生成教材
// @Summary 生成教材（受免費額度限制）
// @Tags Resource
// @Accept json
// @Produce json
// @Param body body dto.GenerateResourceDto true "生成條件"
// @Success 200 {object} dto.AnswerKeyResponseDto "worksheet / quiz 等附解答類型"
// @Success 200 {object} dto.OutputResponseDto "其他類型"
// @Success 200 {object} dto.DocumentResponseDto "output_type=pdf"
// @Failure 400 {object} response.ErrorResponse "EMAIL_REQUIRED / BAD_REQUEST"
// @Failure 402 {object} response.ErrorResponse "FREE_LIMIT_REACHED"
// @Failure 500 {object} response.ErrorResponse "SERVER_ERROR / GENERATION_FAILED / RENDER_FAILED"
// @Router /generate [post]
// @Router /generate-resource [post]
func (h *ResourceHandler) Generate(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)

	var body dto.GenerateResourceDto
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		end(err)
		response.AbortWithError(c, request.GetError(&body, err))
		return
	}
	body.RequestID = c.GetString(core.ContextRequestIDKey)

	result, err := h.resourceService.Generate(ctx, &body)
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, result.Body())
}

// Activate 付費開通
// @Summary 將身份標記為付費（冪等）
// @Tags Resource
// @Accept json
// @Produce json
// @Param body body dto.ActivatePaidDto true "身份"
// @Success 200 {object} dto.ActivatePaidResponseDto
// @Failure 400 {object} response.ErrorResponse "EMAIL_REQUIRED"
// @Failure 500 {object} response.ErrorResponse "SERVER_ERROR"
// @Router /activate-paid [post]
func (h *ResourceHandler) Activate(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)

	var body dto.ActivatePaidDto
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		end(err)
		response.AbortWithError(c, request.GetError(&body, err))
		return
	}

	err := h.resourceService.Activate(ctx, body.IdentityValue())
	end(err)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, dto.ActivatePaidResponseDto{Success: true})
}
