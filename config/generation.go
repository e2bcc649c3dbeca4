package config

const (
	GenerationProviderOpenAI = "openai"
	GenerationProviderStub   = "stub"
)

type Generation struct {
	// openai / stub
	Provider    string  `mapstructure:"PROVIDER" json:"provider" yaml:"provider"`
	BaseURL     string  `mapstructure:"BASE_URL" json:"base_url" yaml:"base_url"`
	APIKey      string  `mapstructure:"API_KEY" json:"-" yaml:"api_key"`
	Model       string  `mapstructure:"MODEL" json:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"MAX_TOKENS" json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"TEMPERATURE" json:"temperature" yaml:"temperature"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}

type Render struct {
	URL    string `mapstructure:"URL" json:"url" yaml:"url"`
	APIKey string `mapstructure:"API_KEY" json:"-" yaml:"api_key"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}
