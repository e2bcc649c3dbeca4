package cron

import (
	"context"
	"time"

	"resourcegen/config"
	"resourcegen/internal/service"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	logger   *zap.Logger
	server   *cron.Cron
	spec     string
	snapshot *service.SnapshotService
}

// NewCron .
func NewCron(logger *zap.Logger, conf *config.Configuration, snapshot *service.SnapshotService) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Cron{
		logger:   logger,
		server:   server,
		spec:     conf.Quota.SnapshotSpec,
		snapshot: snapshot,
	}
}

func (c *Cron) Run() error {
	if _, err := c.server.AddFunc(c.spec, c.usageSnapshot); err != nil {
		return err
	}
	c.logger.Info("cron started", zap.String("usage_snapshot", c.spec))
	c.server.Start()
	return nil
}

func (c *Cron) usageSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, _ = c.snapshot.Snapshot(ctx)
}

func (c *Cron) Stop(ctx context.Context) error {
	stopped := c.server.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
