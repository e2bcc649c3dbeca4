package config

type TelemetryConfig struct {
	Metric struct {
		Enabled bool `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
		// histogram 秒數區間，未設定用 prometheus 預設值
		Buckets []float64 `yaml:"buckets" mapstructure:"BUCKETS" json:"buckets"`
	} `yaml:"metric" mapstructure:"METRIC" json:"metric"`
	Trace struct {
		Enabled     bool   `yaml:"enabled" mapstructure:"ENABLED" json:"enabled"`
		EndpointUrl string `yaml:"endpointUrl" mapstructure:"ENDPOINT_URL" json:"endpointUrl"`
	} `yaml:"trace" mapstructure:"TRACE" json:"trace"`
}

// MetricBuckets 取 histogram 區間；fallback 由呼叫端提供
func (t TelemetryConfig) MetricBuckets(fallback []float64) []float64 {
	if len(t.Metric.Buckets) > 0 {
		return t.Metric.Buckets
	}
	return fallback
}
