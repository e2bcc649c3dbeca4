package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resourcegen/config"
	"resourcegen/internal/core"
	cErr "resourcegen/internal/pkg/error"
	"resourcegen/internal/telemetry"
	"resourcegen/utils/compress"
)

const chatCompletionsPath = "/v1/chat/completions"

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResult struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// OpenAIGenerator 呼叫 chat completions；不重試
type OpenAIGenerator struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	trace       *telemetry.Trace
	metric      *telemetry.Metric
}

// NewOpenAIGenerator httpClient 為 nil 時依 GENERATION.TIMEOUT 建立
func NewOpenAIGenerator(conf *config.Configuration, trace *telemetry.Trace, metric *telemetry.Metric, httpClient *http.Client) *OpenAIGenerator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(conf.Generation.Timeout) * time.Millisecond}
	}
	return &OpenAIGenerator{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(conf.Generation.BaseURL, "/"),
		apiKey:      conf.Generation.APIKey,
		model:       conf.Generation.Model,
		maxTokens:   conf.Generation.MaxTokens,
		temperature: conf.Generation.Temperature,
		trace:       trace,
		metric:      metric,
	}
}

func (g *OpenAIGenerator) Name() string { return config.GenerationProviderOpenAI }

// Generate 失敗情境：
//   - 送出失敗 / 非 2xx
//   - 回應無法解碼
//   - 沒有 choices 或內容為空
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt Prompt) (_ *Result, returnedError error) {
	url := g.baseURL + chatCompletionsPath
	ctx, span, end := g.trace.WithSpan(ctx, string(core.SpanGenerationProvider))
	defer func() { end(returnedError) }()
	meta := core.TraceProviderMeta{Provider: g.Name(), Model: g.model, URL: url}
	defer func() { g.trace.ApplyTraceAttributes(span, meta) }()

	start := time.Now()
	defer func() { g.metric.ObserveProvider(g.Name(), time.Since(start)) }()

	payload := chatPayload{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens: g.maxTokens,
	}
	if g.temperature > 0 {
		payload.Temperature = &g.temperature
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, cErr.GenerationFailed("marshal chat payload failed").Wrap(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, cErr.GenerationFailed("create http request failed").Wrap(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, cErr.GenerationFailed("generation provider request failed").Wrap(err)
	}
	defer resp.Body.Close()
	meta.StatusCode = resp.StatusCode
	meta.Encoding = resp.Header.Get("Content-Encoding")

	raw, err := compress.ReadBody(resp)
	if err != nil {
		return nil, cErr.GenerationFailed("read generation response failed").Wrap(err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, cErr.GenerationFailed(fmt.Sprintf("generation provider returned %d", resp.StatusCode)).
			Wrap(fmt.Errorf("provider non-2xx: %s %s", resp.Status, truncate(string(raw), 512)))
	}

	var result chatResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, cErr.GenerationFailed("decode generation response failed").Wrap(err)
	}
	if len(result.Choices) == 0 {
		return nil, cErr.GenerationFailed("generation provider returned no choices")
	}
	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return nil, cErr.GenerationFailed("generation provider returned empty content")
	}
	meta.Tokens = result.Usage.TotalTokens

	model := result.Model
	if model == "" {
		model = g.model
	}
	return &Result{Text: text, Provider: g.Name(), Model: model, TokensTotal: result.Usage.TotalTokens}, nil
}

// 安全截斷前 n 個 rune
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}
