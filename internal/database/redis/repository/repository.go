package repository

import (
	"fmt"
	"resourcegen/internal/core"
)

// buildKey 建構 Redis key，例如 resourcegen:usage:a@x.com
func buildKey(kind core.RedisKey, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("%s:%s", core.RedisKeyServerName, kind)
	}
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, kind, suffix)
}
