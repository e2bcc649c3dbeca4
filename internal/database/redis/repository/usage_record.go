package repository

import (
	"context"
	"errors"
	"strconv"

	"resourcegen/internal/core"
	client "resourcegen/internal/database/client"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// 以 Lua 在 Redis 端一次完成「檢查 + 寫入」，對單一身份是原子的
var (
	createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'count', ARGV[1], 'paid', ARGV[2])
redis.call('SADD', KEYS[2], ARGV[3])
return 1
`)

	incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
local limit = tonumber(ARGV[1])
local paid = redis.call('HGET', KEYS[1], 'paid')
local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
if paid ~= '1' and limit > 0 and count >= limit then
  return -2
end
return redis.call('HINCRBY', KEYS[1], 'count', 1)
`)

	setPaidScript = redis.NewScript(`
redis.call('HSETNX', KEYS[1], 'count', 0)
redis.call('HSET', KEYS[1], 'paid', 1)
redis.call('SADD', KEYS[2], ARGV[1])
return 1
`)
)

type UsageRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewUsageRepository(trace *telemetry.Trace, redisClient *client.RedisClient) *UsageRepository {
	return &UsageRepository{trace: trace, client: redisClient.Client()}
}

func (repository *UsageRepository) Get(contextValue context.Context, identity string) (_ *usage.Record, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: "redis", Identity: identity, Op: "get"})

	fields, err := repository.client.HGetAll(contextValue, buildKey(core.RedisKeyUsage, identity)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, usage.ErrNotFound
	}
	return toRecord(identity, fields), nil
}

func (repository *UsageRepository) Create(contextValue context.Context, identity string, count int, paid bool) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	created, err := createScript.Run(contextValue, repository.client,
		[]string{buildKey(core.RedisKeyUsage, identity), buildKey(core.RedisKeyUsageIndex, "")},
		count, boolFlag(paid), identity,
	).Int()
	meta := core.TraceUsageWriteMeta{Driver: "redis", Identity: identity, Op: "create", Count: count, Affected: int64(created)}
	if err == nil && created == 0 {
		meta.Duplicate = true
		err = usage.ErrAlreadyExists
	}
	repository.trace.ApplyTraceAttributes(span, meta)
	return err
}

func (repository *UsageRepository) IncrementCount(contextValue context.Context, identity string, limit int) (_ int, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	result, err := incrementScript.Run(contextValue, repository.client,
		[]string{buildKey(core.RedisKeyUsage, identity)},
		limit,
	).Int()
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: "redis", Identity: identity, Op: "increment", Limit: limit, Count: result})
	switch {
	case err != nil:
		return 0, err
	case result == -1:
		return 0, usage.ErrNotFound
	case result == -2:
		return 0, usage.ErrLimitReached
	}
	return result, nil
}

func (repository *UsageRepository) SetPaid(contextValue context.Context, identity string) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Driver: "redis", Identity: identity, Op: "set_paid"})

	return setPaidScript.Run(contextValue, repository.client,
		[]string{buildKey(core.RedisKeyUsage, identity), buildKey(core.RedisKeyUsageIndex, "")},
		identity,
	).Err()
}

// Stats 走訪身份索引；用 pipeline 一次取回所有 hash
func (repository *UsageRepository) Stats(contextValue context.Context) (usage.Stats, error) {
	identities, err := repository.client.SMembers(contextValue, buildKey(core.RedisKeyUsageIndex, "")).Result()
	if err != nil {
		return usage.Stats{}, err
	}
	pipeline := repository.client.Pipeline()
	commands := make([]*redis.MapStringStringCmd, len(identities))
	for i, identity := range identities {
		commands[i] = pipeline.HGetAll(contextValue, buildKey(core.RedisKeyUsage, identity))
	}
	if _, err := pipeline.Exec(contextValue); err != nil && !errors.Is(err, redis.Nil) {
		return usage.Stats{}, err
	}

	var stats usage.Stats
	for i, cmd := range commands {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		record := toRecord(identities[i], fields)
		stats.Identities++
		if record.Paid {
			stats.PaidIdentities++
		}
		stats.MeteredUnits += int64(record.Count)
	}
	return stats, nil
}

func toRecord(identity string, fields map[string]string) *usage.Record {
	count, _ := strconv.Atoi(fields["count"])
	return &usage.Record{Identity: identity, Count: count, Paid: fields["paid"] == "1"}
}

func boolFlag(v bool) int {
	if v {
		return 1
	}
	return 0
}

var _ usage.Store = (*UsageRepository)(nil)
