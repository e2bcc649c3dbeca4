package repository

import (
	"context"

	"resourcegen/config"
	"resourcegen/internal/core"
	"resourcegen/internal/database/client"
	"resourcegen/internal/database/fluentd/model"
)

// LogRepository 統一負責發送 Request/Response/Usage Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.FluentdPoster
	version       string
}

func NewLogRepository(config *config.Configuration, client client.FluentdPoster) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = now()
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.fluentdClient.Post(ctx, string(core.FluentdRequest), toMessage(req))
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = now()
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.fluentdClient.Post(ctx, string(core.FluentdResponse), toMessage(resp))
}

func (repository *LogRepository) LogUsage(ctx context.Context, usage model.GenerationUsageLog) error {
	if usage.LoggedAt == "" {
		usage.LoggedAt = now()
	}
	if usage.Version == "" {
		usage.Version = repository.version
	}
	return repository.fluentdClient.Post(ctx, string(core.FluentUsage), toMessage(usage))
}
