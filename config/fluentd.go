package config

// Fluentd 使用量與請求紀錄的轉送目標；HOST 為空時不轉送
type Fluentd struct {
	Host      string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port      int    `mapstructure:"PORT" json:"port" yaml:"port"`
	TagPrefix string `mapstructure:"TAG_PREFIX" json:"tagPrefix" yaml:"tagPrefix"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}

func (f Fluentd) Enabled() bool {
	return f.Host != ""
}

// Prefix tag 前綴，未設定時用服務名稱
func (f Fluentd) Prefix(appName string) string {
	if f.TagPrefix != "" {
		return f.TagPrefix
	}
	return appName
}
