package command

import (
	"context"
	"encoding/json"
	"time"

	"resourcegen/config"
	"resourcegen/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// UsageHandler 維運用命令：schema、開通、查詢
type UsageHandler struct {
	logger          *zap.Logger
	conf            *config.Configuration
	resourceService *service.ResourceService
	snapshotService *service.SnapshotService
}

func NewUsageHandler(
	logger *zap.Logger,
	conf *config.Configuration,
	resourceService *service.ResourceService,
	snapshotService *service.SnapshotService,
) *UsageHandler {
	return &UsageHandler{
		logger:          logger,
		conf:            conf,
		resourceService: resourceService,
		snapshotService: snapshotService,
	}
}

// Migrate store 開啟時已建立 schema，這裡只回報結果
func (handler *UsageHandler) Migrate(cmd *cobra.Command, args []string) error {
	cmd.Printf("usage store (%s) schema is up to date\n", handler.conf.Store.Driver)
	return nil
}

func (handler *UsageHandler) Activate(cmd *cobra.Command, args []string) error {
	ctx, cancel := handler.context()
	defer cancel()
	if err := handler.resourceService.Activate(ctx, args[0]); err != nil {
		return err
	}
	cmd.Printf("%s activated\n", args[0])
	return nil
}

func (handler *UsageHandler) Usage(cmd *cobra.Command, args []string) error {
	ctx, cancel := handler.context()
	defer cancel()
	usage, err := handler.resourceService.Usage(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, usage)
}

func (handler *UsageHandler) Stats(cmd *cobra.Command, args []string) error {
	ctx, cancel := handler.context()
	defer cancel()
	stats, err := handler.snapshotService.Snapshot(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd, stats)
}

func (handler *UsageHandler) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}
