package service

import (
	"context"

	"resourcegen/internal/core"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/telemetry"

	"go.uber.org/zap"
)

// SnapshotService 定期把使用量總數寫進 gauge
type SnapshotService struct {
	logger *zap.Logger
	trace  *telemetry.Trace
	metric *telemetry.Metric
	store  usage.Store
}

func NewSnapshotService(logger *zap.Logger, trace *telemetry.Trace, metric *telemetry.Metric, store usage.Store) *SnapshotService {
	return &SnapshotService{logger: logger, trace: trace, metric: metric, store: store}
}

func (s *SnapshotService) Snapshot(ctx context.Context) (_ usage.Stats, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanUsageSnapshot))
	defer func() { end(returnedError) }()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("usage snapshot failed", zap.Error(err))
		return usage.Stats{}, err
	}
	s.trace.ApplyTraceAttributes(span, core.TraceUsageSnapshotMeta{
		Identities:     stats.Identities,
		PaidIdentities: stats.PaidIdentities,
		MeteredUnits:   stats.MeteredUnits,
	})
	s.metric.SetUsageSnapshot(stats.Identities, stats.PaidIdentities, stats.MeteredUnits)
	s.logger.Debug("usage snapshot",
		zap.Int64("identities", stats.Identities),
		zap.Int64("paid_identities", stats.PaidIdentities),
		zap.Int64("metered_units", stats.MeteredUnits),
	)
	return stats, nil
}
