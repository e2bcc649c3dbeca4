package cron

import (
	"context"
	"testing"
	"time"

	"resourcegen/config"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/service"
	"resourcegen/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type statsStore struct {
	usage.Store
	called chan struct{}
}

func (s *statsStore) Stats(context.Context) (usage.Stats, error) {
	select {
	case s.called <- struct{}{}:
	default:
	}
	return usage.Stats{Identities: 1}, nil
}

func newTestCron(spec string, store usage.Store) *Cron {
	conf := &config.Configuration{}
	conf.Quota.SnapshotSpec = spec
	snapshot := service.NewSnapshotService(zap.NewNop(), &telemetry.Trace{}, &telemetry.Metric{}, store)
	return NewCron(zap.NewNop(), conf, snapshot)
}

func TestCron_RunsUsageSnapshot(t *testing.T) {
	store := &statsStore{called: make(chan struct{}, 1)}
	c := newTestCron("* * * * * *", store)
	require.NoError(t, c.Run())
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	select {
	case <-store.called:
	case <-time.After(3 * time.Second):
		t.Fatal("usage snapshot was not scheduled")
	}
}

func TestCron_InvalidSpec(t *testing.T) {
	c := newTestCron("not a spec", &statsStore{called: make(chan struct{}, 1)})
	assert.Error(t, c.Run())
}
