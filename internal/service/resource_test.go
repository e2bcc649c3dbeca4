package service

import (
	"context"
	"errors"
	"html"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"resourcegen/config"
	"resourcegen/internal/core"
	client "resourcegen/internal/database/client"
	fluentdRepo "resourcegen/internal/database/fluentd/repository"
	sqlRepo "resourcegen/internal/database/sql/repository"
	"resourcegen/internal/database/usage"
	"resourcegen/internal/dto"
	cErr "resourcegen/internal/pkg/error"
	"resourcegen/internal/service/generation"
	"resourcegen/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	calls    atomic.Int32
	generate func(ctx context.Context, prompt generation.Prompt) (*generation.Result, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt generation.Prompt) (*generation.Result, error) {
	g.calls.Add(1)
	if g.generate != nil {
		return g.generate(ctx, prompt)
	}
	return &generation.Result{Text: "Generated text", Provider: "fake", Model: "fake-1"}, nil
}

func (g *fakeGenerator) Name() string { return "fake" }

type fakeRenderer struct {
	calls  atomic.Int32
	render func(ctx context.Context, html string) (string, error)
}

func (r *fakeRenderer) Render(ctx context.Context, html string) (string, error) {
	r.calls.Add(1)
	if r.render != nil {
		return r.render(ctx, html)
	}
	return "https://files.example.com/doc.pdf", nil
}

// failingStore 讀取成功但寫入失敗
type failingStore struct {
	usage.Store
	err error
}

func (s *failingStore) Get(context.Context, string) (*usage.Record, error) { return nil, s.err }

type recordingPoster struct {
	mu   sync.Mutex
	tags []string
}

func (p *recordingPoster) Post(_ context.Context, tag string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tags = append(p.tags, tag)
	return nil
}

func (p *recordingPoster) Close() error { return nil }

type fixture struct {
	service   *ResourceService
	store     usage.Store
	generator *fakeGenerator
	renderer  *fakeRenderer
	metric    *telemetry.Metric
	poster    *recordingPoster
}

func newFixture(t *testing.T) *fixture {
	conf := &config.Configuration{}
	conf.Store.Path = filepath.Join(t.TempDir(), "usage.db")
	conf.Telemetry.Metric.Enabled = true
	conf.ApplyDefaults()

	sqlClient, cleanup, err := client.NewSQLClient(zap.NewNop(), conf)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	store, err := sqlRepo.NewUsageRepository(&telemetry.Trace{}, sqlClient)
	require.NoError(t, err)

	f := &fixture{
		store:     store,
		generator: &fakeGenerator{},
		renderer:  &fakeRenderer{},
		metric:    telemetry.NewMetricWithRegisterer(conf, prometheus.NewRegistry()),
		poster:    &recordingPoster{},
	}
	f.service = NewResourceService(zap.NewNop(), conf, &telemetry.Trace{}, f.metric, store,
		f.generator, f.renderer, fluentdRepo.NewLogRepository(conf, f.poster))
	return f
}

func request(identity string) *dto.GenerateResourceDto {
	return &dto.GenerateResourceDto{Identity: identity, Grade: "5", Subject: "Math", ResourceType: "lesson plan", Topic: "Fractions"}
}

func (f *fixture) record(t *testing.T, identity string) *usage.Record {
	record, err := f.store.Get(context.Background(), identity)
	require.NoError(t, err)
	return record
}

func TestGenerate_FreeTierCountsThenRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 1; i <= 3; i++ {
		result, err := f.service.Generate(ctx, request("a@x.com"))
		require.NoError(t, err)
		assert.Equal(t, dto.OutputResponseDto{Output: "Generated text"}, result.Body())
		assert.Equal(t, i, f.record(t, "a@x.com").Count)
	}

	_, err := f.service.Generate(ctx, request("a@x.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cErr.FreeLimitReached("")))
	assert.Equal(t, 402, cErr.From(err).HttpCode())
	assert.Equal(t, 3, f.record(t, "a@x.com").Count)
	assert.Equal(t, int32(3), f.generator.calls.Load())

	assert.Equal(t, float64(3), testutil.ToFloat64(f.metric.GenerationTotal.WithLabelValues(core.OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metric.QuotaRejectedTotal))
	assert.Len(t, f.poster.tags, 4)
}

func TestGenerate_IdentityIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Generate(ctx, request("A@x.com"))
	require.NoError(t, err)
	_, err = f.service.Generate(ctx, &dto.GenerateResourceDto{Email: "  a@x.com "})
	require.NoError(t, err)

	assert.Equal(t, 1, f.record(t, "A@x.com").Count)
	assert.Equal(t, 1, f.record(t, "a@x.com").Count)
}

func TestGenerate_PaidIsUnmetered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Create(ctx, "p@x.com", 7, true))

	for i := 0; i < 100; i++ {
		_, err := f.service.Generate(ctx, request("p@x.com"))
		require.NoError(t, err)
	}
	assert.Equal(t, usage.Record{Identity: "p@x.com", Count: 7, Paid: true}, *f.record(t, "p@x.com"))
}

// barrierStore 讓所有併發請求都先讀到「不存在」再一起往下走
type barrierStore struct {
	usage.Store
	reads sync.WaitGroup
}

func (s *barrierStore) Get(ctx context.Context, identity string) (*usage.Record, error) {
	record, err := s.Store.Get(ctx, identity)
	s.reads.Done()
	s.reads.Wait()
	return record, err
}

func TestGenerate_ConcurrentFirstRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const requests = 4
	store := &barrierStore{Store: f.store}
	store.reads.Add(requests)
	f.service.store = store

	var wg sync.WaitGroup
	errs := make([]error, requests)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Generate(ctx, request("new@x.com"))
		}(i)
	}
	wg.Wait()

	// 全部看到不存在 → 只有一個建立成功，其餘重複建立被吸收，皆不再計量
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(requests), f.generator.calls.Load())
	assert.Equal(t, usage.Record{Identity: "new@x.com", Count: 1, Paid: false}, *f.record(t, "new@x.com"))
}

func TestGenerate_GenerationFailureKeepsCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.Create(ctx, "b@x.com", 1, false))
	f.generator.generate = func(context.Context, generation.Prompt) (*generation.Result, error) {
		return nil, errors.New("upstream 503")
	}

	result, err := f.service.Generate(ctx, request("b@x.com"))
	assert.Nil(t, result)
	assert.True(t, cErr.HasCode(err, cErr.GENERATION_FAILED))
	assert.Equal(t, 500, cErr.From(err).HttpCode())
	assert.Equal(t, 2, f.record(t, "b@x.com").Count)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metric.GenerationTotal.WithLabelValues(core.OutcomeGenerationFailed)))
}

func TestGenerate_RenderFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.renderer.render = func(context.Context, string) (string, error) {
		return "", errors.New("render timeout")
	}
	req := request("c@x.com")
	req.OutputType = "pdf"

	result, err := f.service.Generate(ctx, req)
	assert.Nil(t, result)
	assert.True(t, cErr.HasCode(err, cErr.RENDER_FAILED))
	assert.Equal(t, 1, f.record(t, "c@x.com").Count)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metric.RenderTotal.WithLabelValues(core.OutcomeRenderFailed)))
}

func TestGenerate_DocumentOutput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var rendered string
	f.renderer.render = func(_ context.Context, html string) (string, error) {
		rendered = html
		return "https://files.example.com/r.pdf", nil
	}
	f.generator.generate = func(context.Context, generation.Prompt) (*generation.Result, error) {
		return &generation.Result{Text: "1 + 1 = ?\nANSWER KEY:\n2"}, nil
	}
	req := request("d@x.com")
	req.ResourceType = "Worksheet"
	req.OutputType = "document"

	result, err := f.service.Generate(ctx, req)
	require.NoError(t, err)
	body, ok := result.Body().(dto.DocumentResponseDto)
	require.True(t, ok)
	assert.Equal(t, "https://files.example.com/r.pdf", body.PdfURL)
	assert.Equal(t, rendered, body.HTML)
	// html/template 會把 + 跳脫成 &#43;
	text := html.UnescapeString(body.HTML)
	assert.Contains(t, text, "1 + 1 = ?")
	assert.Contains(t, text, "<h1>Answer Key</h1>")
	assert.NotContains(t, text, "ANSWER KEY:")
}

func TestGenerate_DocumentWithoutAnswerKeyMarker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var rendered string
	f.renderer.render = func(_ context.Context, html string) (string, error) {
		rendered = html
		return "https://files.example.com/r.pdf", nil
	}
	req := request("k@x.com")
	req.ResourceType = "quiz"
	req.OutputType = "pdf"

	_, err := f.service.Generate(ctx, req)
	require.NoError(t, err)
	text := html.UnescapeString(rendered)
	assert.Contains(t, text, "Generated text")
	assert.NotContains(t, text, "Answer Key")
	assert.NotContains(t, text, core.AnswerKeyNotFound)
}

func TestGenerate_AnswerKeyShape(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var prompt generation.Prompt
	f.generator.generate = func(_ context.Context, p generation.Prompt) (*generation.Result, error) {
		prompt = p
		return &generation.Result{Text: "Q1. 2+2\n\nanswer key: 4"}, nil
	}
	req := request("e@x.com")
	req.ResourceType = "quiz"

	result, err := f.service.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, dto.AnswerKeyResponseDto{Worksheet: "Q1. 2+2", AnswerKey: "4"}, result.Body())
	assert.True(t, strings.Contains(prompt.User, "ANSWER KEY:"))
	assert.Equal(t, int32(0), f.renderer.calls.Load())
}

func TestGenerate_SubstringIsNotAnswerKeyType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var prompt generation.Prompt
	f.generator.generate = func(_ context.Context, p generation.Prompt) (*generation.Result, error) {
		prompt = p
		return &generation.Result{Text: "Generated text"}, nil
	}
	req := request("l@x.com")
	req.ResourceType = "reading passage about the latest Olympics contest"

	result, err := f.service.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, dto.OutputResponseDto{Output: "Generated text"}, result.Body())
	assert.NotContains(t, prompt.User, core.AnswerKeyMarker)
}

func TestGenerate_EmptyIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Generate(ctx, request("   "))
	assert.True(t, cErr.HasCode(err, cErr.EMAIL_REQUIRED))
	assert.Equal(t, 400, cErr.From(err).HttpCode())
	assert.Equal(t, int32(0), f.generator.calls.Load())

	stats, err := f.store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, usage.Stats{}, stats)
	assert.Empty(t, f.poster.tags)
}

func TestGenerate_StoreFailureNeverProceeds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.service.store = &failingStore{err: errors.New("disk I/O error")}

	_, err := f.service.Generate(ctx, request("f@x.com"))
	assert.True(t, cErr.HasCode(err, cErr.DATABASE_ERROR))
	assert.Equal(t, int32(0), f.generator.calls.Load())
}

func TestActivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.True(t, cErr.HasCode(f.service.Activate(ctx, " "), cErr.EMAIL_REQUIRED))

	for i := 0; i < 3; i++ {
		_, err := f.service.Generate(ctx, request("g@x.com"))
		require.NoError(t, err)
	}
	require.NoError(t, f.service.Activate(ctx, "g@x.com"))
	require.NoError(t, f.service.Activate(ctx, "g@x.com"))
	assert.Equal(t, usage.Record{Identity: "g@x.com", Count: 3, Paid: true}, *f.record(t, "g@x.com"))

	_, err := f.service.Generate(ctx, request("g@x.com"))
	require.NoError(t, err)
	assert.Equal(t, 3, f.record(t, "g@x.com").Count)

	// 未曾使用過的身份也可以開通
	require.NoError(t, f.service.Activate(ctx, "h@x.com"))
	assert.Equal(t, usage.Record{Identity: "h@x.com", Count: 0, Paid: true}, *f.record(t, "h@x.com"))
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metric.ActivationTotal))
}

func TestUsageAndSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	usageDto, err := f.service.Usage(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, dto.UsageResponseDto{Identity: "nobody", FreeLimit: 3, Remaining: 3}, *usageDto)

	_, err = f.service.Generate(ctx, request("i@x.com"))
	require.NoError(t, err)
	require.NoError(t, f.service.Activate(ctx, "j@x.com"))

	usageDto, err = f.service.Usage(ctx, "i@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, usageDto.Remaining)

	snapshot := NewSnapshotService(zap.NewNop(), &telemetry.Trace{}, f.metric, f.store)
	stats, err := snapshot.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, usage.Stats{Identities: 2, PaidIdentities: 1, MeteredUnits: 1}, stats)
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metric.UsageIdentities))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metric.UsageMeteredUnits))
}
