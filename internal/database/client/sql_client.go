package client

import (
	"fmt"

	"resourcegen/config"
	rlog "resourcegen/internal/log"
	"resourcegen/utils/path"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SQLClient 連接 sqlite（預設，單一檔案）或 postgres
type SQLClient struct {
	db     *gorm.DB
	driver string
	logger *zap.Logger
}

func NewSQLClient(logger *zap.Logger, config *config.Configuration) (*SQLClient, func(), error) {
	sqlClient := &SQLClient{logger: logger, driver: config.Store.Driver}
	db, err := sqlClient.connectDB(config)
	if err != nil {
		logger.Error("failed to open SQL store", zap.String("driver", config.Store.Driver), zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to SQL store", zap.String("driver", config.Store.Driver))
	sqlClient.db = db

	cleanup := func() {
		logger.Info("closing the SQL store resources")
		if err := sqlClient.Close(); err != nil {
			logger.Error("failed to close SQL store", zap.Error(err))
		}
	}
	return sqlClient, cleanup, nil
}

func (client *SQLClient) connectDB(config *config.Configuration) (*gorm.DB, error) {
	dialector, err := dialect(config.Store)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: rlog.NewGormLogger(client.logger),
	})
	if err != nil {
		return nil, err
	}
	if config.Store.Driver == "" || config.Store.Driver == "sqlite" {
		// sqlite 單一寫入者：固定一條連線並設定 WAL 與 busy_timeout
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		if err := db.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
			return nil, err
		}
		if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, err
		}
	}
	return db, nil
}

func dialect(store config.Store) (gorm.Dialector, error) {
	switch store.Driver {
	case "", config.StoreDriverSQLite:
		if err := path.EnsureParentDir(store.Path); err != nil {
			return nil, err
		}
		return sqlite.Open(store.Path), nil
	case config.StoreDriverPostgres:
		if store.DSN == "" {
			return nil, fmt.Errorf("STORE.DSN is required for postgres")
		}
		return postgres.Open(store.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported %s store driver", store.Driver)
	}
}

// Close 關閉底層連線
func (client *SQLClient) Close() error {
	sqlDB, err := client.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB 回傳 gorm 連線
func (client *SQLClient) DB() *gorm.DB {
	return client.db
}

func (client *SQLClient) Driver() string {
	if client.driver == "" {
		return "sqlite"
	}
	return client.driver
}
