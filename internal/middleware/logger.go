package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"resourcegen/config"
	"resourcegen/internal/core"
	"resourcegen/internal/database/fluentd/model"
	"resourcegen/internal/database/fluentd/repository"
	"resourcegen/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// LoggerHandler 每個請求記一筆（method + path），文字 body 做安全截斷
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSkippedPath(c.FullPath()) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get(contextStartKey); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))

		var bodyRaw string
		var identity string
		if c.Request.Body != nil {
			// 上限之後的內容不讀；超過時下游綁定會拿到 *http.MaxBytesError（413）
			limit := m.config.App.MaxBodyBytes
			if limit <= 0 {
				limit = config.DefaultMaxBodyBytes
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		if c.Request.Body != nil && c.Request.ContentLength != 0 && !isBinaryContent(mediaType) {
			// 讀完 body 後回填，確保下游仍可讀取
			data, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), errReader{err: err}))
			} else {
				c.Request.Body = io.NopCloser(bytes.NewReader(data))
			}
			bodyRaw = toSafePreview(data, 2000)
			if err == nil && strings.HasPrefix(mediaType, "application/json") {
				identity = identityFromBody(data)
			}
		}

		method := c.Request.Method
		path := c.Request.URL.Path
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		headerMap := make(map[string]string, len(c.Request.Header))
		for k, v := range c.Request.Header {
			if strings.EqualFold(k, "Authorization") {
				continue
			}
			headerMap[strings.ToLower(k)] = strings.Join(v, ",")
		}

		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     method,
			Path:       path,
			FullPath:   c.FullPath(),
			Query:      c.Request.URL.RawQuery,
			Body:       bodyRaw,
			Scheme:     c.Request.URL.Scheme,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
		})

		logFields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
		}
		if identity != "" {
			logFields = append(logFields, zap.String("identity", identity))
		}
		if bodyRaw != "" {
			logFields = append(logFields, zap.String("body", bodyRaw))
		}
		logFields = append(logFields,
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		)
		m.logger.Info("[Request] "+method+" "+path, logFields...)

		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID: fmt.Sprintf("%x", traceID[:]),
			Method:    method,
			Path:      path,
			Identity:  identity,
			RequestTS: requestTime.Format("2006-01-02 15:04:05.999999 UTC"),
			Body:      bodyRaw,
			IPHash:    hashIP(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
		}); err != nil {
			m.logger.Warn("fluentd request log failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}

// identityFromBody 取 identity（或 email）欄位供 log 使用
func identityFromBody(data []byte) string {
	var body struct {
		Identity string `json:"identity"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if v := strings.TrimSpace(body.Identity); v != "" {
		return v
	}
	return strings.TrimSpace(body.Email)
}

func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

// 僅對文字內容做安全預覽：UTF-8 直接截斷；非 UTF-8 以 Base64 表示
func toSafePreview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

// 是否為二進位內容（不讀 body）
func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}

// errReader 讀完已緩衝的內容後回傳原本的讀取錯誤
type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}
