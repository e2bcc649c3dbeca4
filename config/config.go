package config

type Configuration struct {
	App        App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log        Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	Store      Store           `mapstructure:"STORE" json:"store" yaml:"store"`
	MongoDB    MongoDB         `mapstructure:"MONGODB" json:"mongodb" yaml:"mongodb"`
	Redis      Redis           `mapstructure:"REDIS" json:"redis" yaml:"redis"`
	Quota      Quota           `mapstructure:"QUOTA" json:"quota" yaml:"quota"`
	Generation Generation      `mapstructure:"GENERATION" json:"generation" yaml:"generation"`
	Render     Render          `mapstructure:"RENDER" json:"render" yaml:"render"`
	Telemetry  TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd    Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
}

// ApplyDefaults 補齊未設定的欄位，環境變數或設定檔沒給時使用
func (c *Configuration) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "resourcegen"
	}
	if c.App.Port == 0 {
		c.App.Port = 10000
	}
	if c.App.MaxBodyBytes <= 0 {
		c.App.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreDriverSQLite
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/usage.db"
	}
	if c.MongoDB.Database == "" {
		c.MongoDB.Database = "resourcegen"
	}
	if c.Quota.FreeLimit == 0 {
		c.Quota.FreeLimit = DefaultFreeLimit
	}
	if c.Quota.SnapshotSpec == "" {
		c.Quota.SnapshotSpec = "0 * * * * *"
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = GenerationProviderOpenAI
	}
	if c.Generation.BaseURL == "" {
		c.Generation.BaseURL = "https://api.openai.com"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = 2000
	}
	if c.Generation.Timeout == 0 {
		c.Generation.Timeout = 60000
	}
	if c.Render.Timeout == 0 {
		c.Render.Timeout = 30000
	}
}
