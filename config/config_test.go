package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	c := &Configuration{}
	c.ApplyDefaults()

	assert.Equal(t, uint32(10000), c.App.Port)
	assert.Equal(t, StoreDriverSQLite, c.Store.Driver)
	assert.Equal(t, "data/usage.db", c.Store.Path)
	// FREE_LIMIT=0 視為未設定
	assert.Equal(t, DefaultFreeLimit, c.Quota.FreeLimit)
	assert.Equal(t, DefaultMaxBodyBytes, c.App.MaxBodyBytes)
	assert.Equal(t, GenerationProviderOpenAI, c.Generation.Provider)
	assert.Equal(t, 2000, c.Generation.MaxTokens)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := &Configuration{}
	c.App.Port = 8080
	c.Quota.FreeLimit = -1
	c.Store.Driver = StoreDriverRedis
	c.Generation.Provider = GenerationProviderStub
	c.ApplyDefaults()

	assert.Equal(t, uint32(8080), c.App.Port)
	// 負數代表不限次數
	assert.Equal(t, -1, c.Quota.FreeLimit)
	assert.Equal(t, StoreDriverRedis, c.Store.Driver)
	assert.Equal(t, GenerationProviderStub, c.Generation.Provider)
	assert.False(t, c.App.IsProduction())
}

func TestRedisAddrAndFluentdPrefix(t *testing.T) {
	assert.Equal(t, "cache:6379", Redis{Host: "cache"}.Addr())
	assert.Equal(t, "127.0.0.1:6380", Redis{Host: "127.0.0.1", Port: 6380}.Addr())

	assert.False(t, Fluentd{}.Enabled())
	assert.Equal(t, "resourcegen", Fluentd{Host: "fluentd"}.Prefix("resourcegen"))
	assert.Equal(t, "edu", Fluentd{TagPrefix: "edu"}.Prefix("resourcegen"))
}
