package config

const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverRedis    = "redis"
)

type Store struct {
	// sqlite / postgres / mongo / redis
	Driver string `mapstructure:"DRIVER" json:"driver" yaml:"driver"`
	// sqlite 檔案位置
	Path string `mapstructure:"PATH" json:"path" yaml:"path"`
	// postgres 連線字串
	DSN string `mapstructure:"DSN" json:"dsn" yaml:"dsn"`
}

type MongoDB struct {
	URI      string `mapstructure:"URI" json:"uri" yaml:"uri"`
	Options  string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
	Database string `mapstructure:"DATABASE" json:"database" yaml:"database"`
}
