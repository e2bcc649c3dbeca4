package config

const DefaultFreeLimit = 3

type Quota struct {
	// 免費額度，未付費身份可使用的生成次數。
	// 0（未設定）套用 DefaultFreeLimit；負數代表不限次數。
	// 無法設定成「沒有免費額度」：要關閉免費使用時請改在上游拒絕未付費身份。
	FreeLimit int `mapstructure:"FREE_LIMIT" json:"free_limit" yaml:"free_limit"`
	// 使用量快照排程（cron，含秒）
	SnapshotSpec string `mapstructure:"SNAPSHOT_SPEC" json:"snapshot_spec" yaml:"snapshot_spec"`
}
