package middleware

import (
	"strings"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewCors,
	NewLogger,
	NewRecovery,
	NewTraceEntry,
	NewResponse,
)

const contextStartKey = "requestDuration"

// 不做 tracing / logging 的路徑
var skippedPrefixes = []string{
	"/swagger",
	"/metrics",
	"/version",
	"/health-check",
	"/health/",
	"/debug/pprof",
}

func isSkippedPath(endpoint string) bool {
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(endpoint, prefix) {
			return true
		}
	}
	return false
}
