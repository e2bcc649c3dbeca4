package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"resourcegen/config"
	client "resourcegen/internal/database/client"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig(t *testing.T) *config.Configuration {
	conf := &config.Configuration{}
	conf.Store.Driver = config.StoreDriverSQLite
	conf.Store.Path = filepath.Join(t.TempDir(), "usage.db")
	conf.ApplyDefaults()
	return conf
}

func newTestRepository(t *testing.T, conf *config.Configuration) *UsageRepository {
	sqlClient, cleanup, err := client.NewSQLClient(zap.NewNop(), conf)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	repository, err := NewUsageRepository(&telemetry.Trace{}, sqlClient)
	require.NoError(t, err)
	return repository
}

func TestUsageRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repository := newTestRepository(t, newTestConfig(t))

	_, err := repository.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, usage.ErrNotFound)

	require.NoError(t, repository.Create(ctx, "a@x.com", 1, false))
	record, err := repository.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, usage.Record{Identity: "a@x.com", Count: 1, Paid: false}, *record)

	// 已存在不覆寫
	assert.ErrorIs(t, repository.Create(ctx, "a@x.com", 0, true), usage.ErrAlreadyExists)
	record, err = repository.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, record.Count)
	assert.False(t, record.Paid)

	// 大小寫視為不同身份
	_, err = repository.Get(ctx, "A@x.com")
	assert.ErrorIs(t, err, usage.ErrNotFound)
}

func TestUsageRepository_IncrementCount(t *testing.T) {
	ctx := context.Background()
	repository := newTestRepository(t, newTestConfig(t))

	_, err := repository.IncrementCount(ctx, "missing", 3)
	assert.ErrorIs(t, err, usage.ErrNotFound)

	require.NoError(t, repository.Create(ctx, "a", 1, false))
	count, err := repository.IncrementCount(ctx, "a", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = repository.IncrementCount(ctx, "a", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = repository.IncrementCount(ctx, "a", 3)
	assert.ErrorIs(t, err, usage.ErrLimitReached)
	record, err := repository.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, record.Count)

	// limit <= 0 不設上限
	count, err = repository.IncrementCount(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestUsageRepository_IncrementCountPaidIgnoresLimit(t *testing.T) {
	ctx := context.Background()
	repository := newTestRepository(t, newTestConfig(t))

	require.NoError(t, repository.Create(ctx, "p", 5, true))
	count, err := repository.IncrementCount(ctx, "p", 3)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestUsageRepository_ConcurrentIncrementNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	repository := newTestRepository(t, newTestConfig(t))
	require.NoError(t, repository.Create(ctx, "race", 1, false))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repository.IncrementCount(ctx, "race", 3); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	record, err := repository.Get(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, 3, record.Count)
}

func TestUsageRepository_ConcurrentCreateSingleRecord(t *testing.T) {
	ctx := context.Background()
	repository := newTestRepository(t, newTestConfig(t))

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repository.Create(ctx, "first", 1, false)
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, usage.ErrAlreadyExists)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	stats, err := repository.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Identities)
	assert.Equal(t, int64(1), stats.MeteredUnits)
}

func TestUsageRepository_SetPaid(t *testing.T) {
	ctx := context.Background()
	repository := newTestRepository(t, newTestConfig(t))

	// 不存在：建立 {0, paid}
	require.NoError(t, repository.SetPaid(ctx, "new"))
	record, err := repository.Get(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, usage.Record{Identity: "new", Count: 0, Paid: true}, *record)

	// 已存在：保留 count，重複呼叫不變
	require.NoError(t, repository.Create(ctx, "old", 3, false))
	require.NoError(t, repository.SetPaid(ctx, "old"))
	require.NoError(t, repository.SetPaid(ctx, "old"))
	record, err = repository.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, usage.Record{Identity: "old", Count: 3, Paid: true}, *record)

	stats, err := repository.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, usage.Stats{Identities: 2, PaidIdentities: 2, MeteredUnits: 3}, stats)
}

func TestUsageRepository_DurableAcrossReopen(t *testing.T) {
	ctx := context.Background()
	conf := newTestConfig(t)

	sqlClient, cleanup, err := client.NewSQLClient(zap.NewNop(), conf)
	require.NoError(t, err)
	repository, err := NewUsageRepository(&telemetry.Trace{}, sqlClient)
	require.NoError(t, err)
	require.NoError(t, repository.Create(ctx, "durable", 2, false))
	cleanup()

	// 重新開啟時 migrate 可重複執行
	reopened := newTestRepository(t, conf)
	record, err := reopened.Get(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, 2, record.Count)
}
