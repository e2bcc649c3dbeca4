package model

// GenerationUsageLog 每次生成請求一筆（不論成功與否）
type GenerationUsageLog struct {
	RequestID    string `json:"request_id,omitempty"`
	Identity     string `json:"identity"`
	ResourceType string `json:"resource_type,omitempty"`
	OutputType   string `json:"output_type,omitempty"`
	Provider     string `json:"provider"`
	Model        string `json:"model,omitempty"`
	Outcome      string `json:"outcome"`
	Paid         bool   `json:"paid"`
	Count        int    `json:"count"`
	TokensTotal  int    `json:"tokens_total,omitempty"`
	Rendered     bool   `json:"rendered"`
	LatencyMs    int64  `json:"latency_ms"`
	Version      string `json:"version"`
	LoggedAt     string `json:"logged_at"`
}
