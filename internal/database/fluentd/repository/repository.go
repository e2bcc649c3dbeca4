package repository

import (
	"encoding/json"
	"time"

	"github.com/google/wire"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// toMessage 轉成 fluentd 可接受的 map（依 json tag）
func toMessage(record any) map[string]any {
	b, _ := json.Marshal(record)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	return fluentdMessage
}

func now() string {
	return time.Now().UTC().Format(loggedAtLayout)
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(NewLogRepository)
