package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resourcegen/internal/core"
	"resourcegen/internal/database/fluentd/model"
	"resourcegen/internal/database/fluentd/repository"
	cErr "resourcegen/internal/pkg/error"
	"resourcegen/internal/pkg/response"
	"resourcegen/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 把 handler 放進 c.Set("data") 的結果原樣輸出成 JSON
type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		fluentdRepository: fluentdRepository,
	}
}

func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSkippedPath(c.FullPath()) {
			c.Next()
			return
		}

		requestTime := time.Now()
		if startTime, exists := c.Get(contextStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		} else {
			c.Set(contextStartKey, requestTime)
		}

		c.Next()

		// 已有錯誤交由 Recovery，或 handler 自行寫出（例如純文字）就不動
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		data, exists := c.Get("data")
		if !exists {
			// 沒有 handler 處理（例如 404），轉成應用錯誤交給 Recovery
			if status := c.Writer.Status(); status >= http.StatusBadRequest {
				response.AbortWithError(c, cErr.MapHttpStatusToError(status, http.StatusText(status)))
			}
			return
		}
		statusCode := http.StatusOK
		if s, ok := c.Get("status"); ok {
			if v, ok := s.(int); ok {
				statusCode = v
			}
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		jsonBytes, err := json.Marshal(data)
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed").Wrap(err))
			return
		}

		duration := time.Since(requestTime)
		traceID := span.SpanContext().TraceID()
		requestID := c.GetString(core.ContextRequestIDKey)

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    "OK",
			DurationMs: float64(duration.Milliseconds()),
			Data:       safePreview(jsonBytes, 2000),
		})
		middleware.logger.Info("[Response] "+c.Request.Method+" "+c.Request.URL.Path,
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:  requestID,
			StatusCode: statusCode,
			Body:       safePreview(jsonBytes, 2000),
			ResponseTS: time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
		}); err != nil {
			middleware.logger.Warn("fluentd response log failed", zap.Error(err))
		}

		c.Data(statusCode, "application/json; charset=utf-8", jsonBytes)
	}
}

func safePreview(b []byte, max int) string {
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
