package config

// DefaultMaxBodyBytes 請求體上限（64 KiB），生成請求的欄位合計遠小於此
const DefaultMaxBodyBytes int64 = 64 << 10

type App struct {
	// 當前開發環境
	Env string `mapstructure:"ENV" json:"env" yaml:"env"`
	// 服務端口
	Port uint32 `mapstructure:"PORT" json:"port" yaml:"port"`
	// 服務名稱
	Name string `mapstructure:"NAME" json:"name" yaml:"name"`
	// 服務版本
	Version        string `mapstructure:"VERSION" json:"version" yaml:"version"`
	SwaggerEnabled bool   `mapstructure:"SWAGGER_ENABLED" json:"swagger_enabled" yaml:"swagger_enabled"`
	// 請求體上限（bytes），超過回 413
	MaxBodyBytes int64 `mapstructure:"MAX_BODY_BYTES" json:"max_body_bytes" yaml:"max_body_bytes"`
}

func (a App) IsProduction() bool {
	return a.Env == "production"
}
