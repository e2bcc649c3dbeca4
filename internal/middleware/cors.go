package middleware

import (
	"resourcegen/internal/core"
	"resourcegen/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace *telemetry.Trace
}

func NewCors(trace *telemetry.Trace) *Cors {
	return &Cors{trace: trace}
}

// CorsHandler 所有來源皆可呼叫；跳過特定路徑的 tracing，但仍套用 CORS
func (m *Cors) CorsHandler() gin.HandlerFunc {
	cfg := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}
	corsHandler := cors.New(cfg)

	type corsMeta struct {
		AllowAll     bool     `trace:"http.cors.allow_all_origins"`
		AllowMethods []string `trace:"http.cors.allow_methods"`
		AllowHeaders []string `trace:"http.cors.allow_headers"`
	}

	return func(c *gin.Context) {
		if isSkippedPath(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowAll:     cfg.AllowAllOrigins,
			AllowMethods: cfg.AllowMethods,
			AllowHeaders: cfg.AllowHeaders,
		})
		end(nil)

		// preflight 會在這裡直接 204 結束
		corsHandler(c)
	}
}
