package core

// ─── Database Types ────────────────────────────────────────────────────────────

type MongoCollection string
type RedisKey string
type SQLTable string
type FluentdSubTag string

// ─── SQL / MongoDB ─────────────────────────────────────────────────────────────

const (
	SQLTableUsageRecords SQLTable = "usage_records"
)

const (
	MongoCollectionUsageRecords MongoCollection = "usage_records"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName RedisKey = "resourcegen" // 伺服器名稱
	RedisKeyUsage      RedisKey = "usage"       // 使用量 hash
	RedisKeyUsageIndex RedisKey = "usage_index" // 所有身份的集合，統計用
)

const (
	FluentdRequest  FluentdSubTag = "request_log"
	FluentdResponse FluentdSubTag = "response_log"
	FluentUsage     FluentdSubTag = "generation_usage_log"
)
