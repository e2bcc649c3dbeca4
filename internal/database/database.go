package database

import (
	"fmt"

	"resourcegen/config"
	client "resourcegen/internal/database/client"
	fluentdRepo "resourcegen/internal/database/fluentd/repository"
	mongoRepo "resourcegen/internal/database/mongodb/repository"
	redisRepo "resourcegen/internal/database/redis/repository"
	sqlRepo "resourcegen/internal/database/sql/repository"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	NewUsageStore,
	client.NewFluentdClient,
	fluentdRepo.ProviderSet,
)

// NewUsageStore 依 STORE.DRIVER 開啟對應後端並確保 schema/index 存在
// 任何錯誤都應讓程序停止啟動
func NewUsageStore(logger *zap.Logger, conf *config.Configuration, trace *telemetry.Trace) (usage.Store, func(), error) {
	switch conf.Store.Driver {
	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		sqlClient, cleanup, err := client.NewSQLClient(logger, conf)
		if err != nil {
			return nil, nil, err
		}
		repository, err := sqlRepo.NewUsageRepository(trace, sqlClient)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return repository, cleanup, nil

	case config.StoreDriverMongo:
		mongoClient, cleanup, err := client.NewMongoClient(logger, conf)
		if err != nil {
			return nil, nil, err
		}
		repository, err := mongoRepo.NewUsageRepository(trace, mongoClient)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return repository, cleanup, nil

	case config.StoreDriverRedis:
		redisClient, cleanup, err := client.NewRedisClient(logger, conf)
		if err != nil {
			return nil, nil, err
		}
		return redisRepo.NewUsageRepository(trace, redisClient), cleanup, nil
	}
	return nil, nil, fmt.Errorf("unsupported store driver %q", conf.Store.Driver)
}
