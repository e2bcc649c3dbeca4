package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"resourcegen/config"
	"resourcegen/internal/core"
	fluentdModel "resourcegen/internal/database/fluentd/model"
	fluentdRepo "resourcegen/internal/database/fluentd/repository"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/dto"
	cErr "resourcegen/internal/pkg/error"
	"resourcegen/internal/service/generation"
	"resourcegen/internal/service/render"
	"resourcegen/internal/telemetry"

	"go.uber.org/zap"
)

// 生成流程狀態（記錄在 span 與 log）
const (
	stateStart        = "START"
	stateQuotaChecked = "QUOTA_CHECKED"
	stateProvisioned  = "PROVISIONED"
	stateGenerated    = "GENERATED"
	stateRendered     = "RENDERED"
	stateDone         = "DONE"
	stateError        = "ERROR"
)

// ResourceService 配額檢查 → 扣量 → 生成 → (渲染)
// 扣量一定在呼叫生成服務之前，失敗不退還
type ResourceService struct {
	logger    *zap.Logger
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	store     usage.Store
	generator generation.Generator
	renderer  render.Renderer
	usageLog  *fluentdRepo.LogRepository
	freeLimit int
}

func NewResourceService(
	logger *zap.Logger,
	conf *config.Configuration,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	store usage.Store,
	generator generation.Generator,
	renderer render.Renderer,
	usageLog *fluentdRepo.LogRepository,
) *ResourceService {
	return &ResourceService{
		logger:    logger,
		trace:     trace,
		metric:    metric,
		store:     store,
		generator: generator,
		renderer:  renderer,
		usageLog:  usageLog,
		freeLimit: conf.Quota.FreeLimit,
	}
}

// Generate 依序執行整個流程；任何一步失敗即結束，不回傳部分結果
func (s *ResourceService) Generate(ctx context.Context, req *dto.GenerateResourceDto) (_ *dto.GenerateResultDto, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanResourceGenerate))
	defer func() { end(returnedError) }()

	start := time.Now()
	identity := req.IdentityValue()
	meta := core.TraceGenerateMeta{
		Identity:     identity,
		ResourceType: req.ResourceType,
		OutputType:   req.OutputType,
		FreeLimit:    s.freeLimit,
		State:        stateStart,
	}
	usageLog := fluentdModel.GenerationUsageLog{
		RequestID:    req.RequestID,
		Identity:     identity,
		ResourceType: req.ResourceType,
		OutputType:   req.OutputType,
		Provider:     s.generator.Name(),
	}
	defer func() {
		meta.Outcome = outcomeOf(returnedError)
		if returnedError != nil {
			meta.State = stateError
		}
		s.trace.ApplyTraceAttributes(span, meta)
		s.metric.ObserveGeneration(meta.Outcome)

		if meta.Outcome == core.OutcomeInvalid {
			return
		}
		usageLog.Outcome = meta.Outcome
		usageLog.Paid = meta.Paid
		usageLog.Count = meta.Count
		usageLog.LatencyMs = time.Since(start).Milliseconds()
		s.logUsage(ctx, usageLog)
	}()

	if identity == "" {
		return nil, cErr.EmailRequired("identity is required")
	}

	record, err := s.store.Get(ctx, identity)
	switch {
	case errors.Is(err, usage.ErrNotFound):
		record = nil
	case err != nil:
		s.logger.Error("usage lookup failed", zap.String("identity", identity), zap.Error(err))
		return nil, cErr.StoreFailure("usage lookup failed").Wrap(err)
	}
	if record != nil {
		meta.Paid = record.Paid
		meta.Count = record.Count
	}

	if record != nil && !record.Paid && s.freeLimit > 0 && record.Count >= s.freeLimit {
		s.logger.Info("free limit reached", zap.String("identity", identity), zap.Int("count", record.Count))
		return nil, cErr.FreeLimitReached("free generation limit reached")
	}
	meta.State = stateQuotaChecked

	if err := s.consume(ctx, identity, record, &meta); err != nil {
		return nil, err
	}
	meta.State = stateProvisioned

	result, err := s.generator.Generate(ctx, generation.BuildPrompt(req.Fields()))
	if err != nil {
		s.logger.Warn("generation failed", zap.String("identity", identity), zap.Error(err))
		var appErr *cErr.Error
		if errors.As(err, &appErr) && appErr.ErrorCode() == cErr.GENERATION_FAILED {
			return nil, appErr
		}
		return nil, cErr.GenerationFailed("generation provider failed").Wrap(err)
	}
	meta.State = stateGenerated
	usageLog.Model = result.Model
	usageLog.TokensTotal = result.TokensTotal

	output := &dto.GenerateResultDto{Kind: dto.ResultOutput, Output: result.Text}
	answerKeyFound := false
	if core.HasAnswerKey(req.ResourceType) {
		worksheet, answerKey, found := generation.SplitAnswerKey(result.Text)
		answerKeyFound = found
		if !found {
			s.logger.Info("answer key marker missing", zap.String("identity", identity), zap.String("resource_type", req.ResourceType))
		}
		output = &dto.GenerateResultDto{Kind: dto.ResultAnswerKey, Worksheet: worksheet, AnswerKey: answerKey}
	}

	if core.OutputType(req.OutputType).IsDocument() {
		document, err := s.renderDocument(ctx, req, output, answerKeyFound)
		if err != nil {
			return nil, err
		}
		meta.State = stateRendered
		usageLog.Rendered = true
		output = document
	}

	meta.State = stateDone
	return output, nil
}

// consume 在生成前扣量
//   - 不存在：建立 count=1（首次請求即第一個計量單位）；併發重複建立視為已計量
//   - 未付費：條件式 +1，輸掉競爭時回 402
//   - 已付費：不計量
func (s *ResourceService) consume(ctx context.Context, identity string, record *usage.Record, meta *core.TraceGenerateMeta) error {
	switch {
	case record == nil:
		err := s.store.Create(ctx, identity, 1, false)
		switch {
		case err == nil:
			meta.Provisioned = true
			meta.Count = 1
		case errors.Is(err, usage.ErrAlreadyExists):
			s.logger.Info("concurrent first request absorbed", zap.String("identity", identity))
			meta.Count = 1
		default:
			s.logger.Error("usage provisioning failed", zap.String("identity", identity), zap.Error(err))
			return cErr.StoreFailure("usage provisioning failed").Wrap(err)
		}
	case !record.Paid:
		count, err := s.store.IncrementCount(ctx, identity, s.freeLimit)
		switch {
		case errors.Is(err, usage.ErrLimitReached):
			return cErr.FreeLimitReached("free generation limit reached")
		case err != nil:
			s.logger.Error("usage increment failed", zap.String("identity", identity), zap.Error(err))
			return cErr.StoreFailure("usage increment failed").Wrap(err)
		}
		meta.Count = count
	}
	return nil
}

// renderDocument 找不到解答標記時不輸出解答頁（佔位字串不印在文件上）
func (s *ResourceService) renderDocument(ctx context.Context, req *dto.GenerateResourceDto, output *dto.GenerateResultDto, answerKeyFound bool) (*dto.GenerateResultDto, error) {
	body, answerKey := output.Output, ""
	if output.Kind == dto.ResultAnswerKey {
		body = output.Worksheet
		if answerKeyFound {
			answerKey = output.AnswerKey
		}
	}
	html, err := render.WrapHTML(documentTitle(req), body, answerKey)
	if err != nil {
		s.metric.ObserveRender(core.OutcomeRenderFailed)
		return nil, cErr.RenderFailed("build document html failed").Wrap(err)
	}
	url, err := s.renderer.Render(ctx, html)
	if err != nil {
		s.metric.ObserveRender(core.OutcomeRenderFailed)
		s.logger.Warn("render failed", zap.String("identity", req.IdentityValue()), zap.Error(err))
		var appErr *cErr.Error
		if errors.As(err, &appErr) && appErr.ErrorCode() == cErr.RENDER_FAILED {
			return nil, appErr
		}
		return nil, cErr.RenderFailed("render provider failed").Wrap(err)
	}
	s.metric.ObserveRender(core.OutcomeSuccess)
	return &dto.GenerateResultDto{Kind: dto.ResultDocument, HTML: html, PdfURL: url}, nil
}

func documentTitle(req *dto.GenerateResourceDto) string {
	parts := make([]string, 0, 2)
	for _, v := range []string{req.ResourceType, req.Topic} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "Resource"
	}
	return strings.Join(parts, ": ")
}

// Activate 付費開通；冪等，不讀取也不重設 count
func (s *ResourceService) Activate(ctx context.Context, identity string) (returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanResourceActivate))
	defer func() { end(returnedError) }()

	identity = strings.TrimSpace(identity)
	s.trace.ApplyTraceAttributes(span, core.TraceUsageWriteMeta{Identity: identity, Op: "set_paid"})
	if identity == "" {
		return cErr.EmailRequired("identity is required")
	}
	if err := s.store.SetPaid(ctx, identity); err != nil {
		s.logger.Error("activation failed", zap.String("identity", identity), zap.Error(err))
		return cErr.StoreFailure("activation failed").Wrap(err)
	}
	s.metric.ObserveActivation()
	s.logger.Info("identity activated", zap.String("identity", identity))
	return nil
}

// Usage 查詢單一身份的使用量
func (s *ResourceService) Usage(ctx context.Context, identity string) (*dto.UsageResponseDto, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, cErr.EmailRequired("identity is required")
	}
	record, err := s.store.Get(ctx, identity)
	switch {
	case errors.Is(err, usage.ErrNotFound):
		record = &usage.Record{Identity: identity}
	case err != nil:
		return nil, cErr.StoreFailure("usage lookup failed").Wrap(err)
	}
	remaining := 0
	if !record.Paid && s.freeLimit > record.Count {
		remaining = s.freeLimit - record.Count
	}
	return &dto.UsageResponseDto{
		Identity:  record.Identity,
		Count:     record.Count,
		Paid:      record.Paid,
		FreeLimit: s.freeLimit,
		Remaining: remaining,
	}, nil
}

// Stats 全部身份的統計
func (s *ResourceService) Stats(ctx context.Context) (usage.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return usage.Stats{}, cErr.StoreFailure("usage stats failed").Wrap(err)
	}
	return stats, nil
}

func (s *ResourceService) logUsage(ctx context.Context, record fluentdModel.GenerationUsageLog) {
	if s.usageLog == nil {
		return
	}
	if err := s.usageLog.LogUsage(ctx, record); err != nil {
		s.logger.Warn("fluentd usage log failed", zap.Error(err))
	}
}

func outcomeOf(err error) string {
	var appErr *cErr.Error
	if err == nil {
		return core.OutcomeSuccess
	}
	if !errors.As(err, &appErr) {
		return core.OutcomeStoreFailed
	}
	switch appErr.ErrorCode() {
	case cErr.EMAIL_REQUIRED, cErr.BAD_REQUEST_BODY, cErr.BAD_REQUEST_PARAMS:
		return core.OutcomeInvalid
	case cErr.FREE_LIMIT_REACHED:
		return core.OutcomeQuotaExceeded
	case cErr.GENERATION_FAILED:
		return core.OutcomeGenerationFailed
	case cErr.RENDER_FAILED:
		return core.OutcomeRenderFailed
	}
	return core.OutcomeStoreFailed
}
