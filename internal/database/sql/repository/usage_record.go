package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resourcegen/internal/core"
	client "resourcegen/internal/database/client"
	"resourcegen/internal/database/sql/model"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepository struct {
	db     *gorm.DB
	driver string
	trace  *telemetry.Trace
}

// NewUsageRepository 建立 repository 並執行 AutoMigrate（可重複執行）
func NewUsageRepository(trace *telemetry.Trace, sqlClient *client.SQLClient) (*UsageRepository, error) {
	repository := &UsageRepository{db: sqlClient.DB(), driver: sqlClient.Driver(), trace: trace}
	if err := repository.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return repository, nil
}

func (repository *UsageRepository) Migrate(contextValue context.Context) error {
	if err := repository.db.WithContext(contextValue).AutoMigrate(&model.UsageRecord{}); err != nil {
		return fmt.Errorf("migrate %s: %w", core.SQLTableUsageRecords, err)
	}
	return nil
}

func (repository *UsageRepository) Get(contextValue context.Context, identity string) (_ *usage.Record, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: repository.driver, Identity: identity, Op: "get"})

	var row model.UsageRecord
	err := repository.db.WithContext(contextValue).Where("identity = ?", identity).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToRecord(), nil
}

// Create INSERT ... ON CONFLICT DO NOTHING；沒有寫入代表已存在
func (repository *UsageRepository) Create(contextValue context.Context, identity string, count int, paid bool) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	row := model.UsageRecord{Identity: identity, Count: count, Paid: paid}
	result := repository.db.WithContext(contextValue).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			DoNothing: true,
		}).
		Create(&row)

	meta := core.TraceUsageWriteMeta{Driver: repository.driver, Identity: identity, Op: "create", Count: count, Affected: result.RowsAffected}
	if result.Error != nil {
		repository.trace.ApplyTraceAttributes(span, meta)
		return result.Error
	}
	if result.RowsAffected == 0 {
		meta.Duplicate = true
		repository.trace.ApplyTraceAttributes(span, meta)
		return usage.ErrAlreadyExists
	}
	repository.trace.ApplyTraceAttributes(span, meta)
	return nil
}

// IncrementCount 單一條件式 UPDATE；同一交易內讀回新值
func (repository *UsageRepository) IncrementCount(contextValue context.Context, identity string, limit int) (newCount int, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	meta := core.TraceUsageWriteMeta{Driver: repository.driver, Identity: identity, Op: "increment", Limit: limit}
	defer func() {
		meta.Count = newCount
		repository.trace.ApplyTraceAttributes(span, meta)
	}()

	returnedError = repository.db.WithContext(contextValue).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&model.UsageRecord{}).Where("identity = ?", identity)
		if limit > 0 {
			query = query.Where("(paid = ? OR count < ?)", true, limit)
		}
		result := query.Updates(map[string]interface{}{
			"count":      gorm.Expr("count + ?", 1),
			"updated_at": time.Now().UTC(),
		})
		if result.Error != nil {
			return result.Error
		}
		meta.Affected = result.RowsAffected

		var row model.UsageRecord
		err := tx.Where("identity = ?", identity).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return usage.ErrLimitReached
		}
		newCount = row.Count
		return nil
	})
	return newCount, returnedError
}

// SetPaid upsert：衝突時只更新 paid，不動 count
func (repository *UsageRepository) SetPaid(contextValue context.Context, identity string) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	row := model.UsageRecord{Identity: identity, Count: 0, Paid: true}
	result := repository.db.WithContext(contextValue).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "identity"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"paid":       true,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&row)
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: repository.driver, Identity: identity, Op: "set_paid", Affected: result.RowsAffected})
	return result.Error
}

func (repository *UsageRepository) Stats(contextValue context.Context) (usage.Stats, error) {
	var stats usage.Stats
	err := repository.db.WithContext(contextValue).
		Model(&model.UsageRecord{}).
		Select("COUNT(*) AS identities, " +
			"COALESCE(SUM(CASE WHEN paid THEN 1 ELSE 0 END), 0) AS paid_identities, " +
			"COALESCE(SUM(count), 0) AS metered_units").
		Scan(&stats).Error
	return stats, err
}

var _ usage.Store = (*UsageRepository)(nil)
