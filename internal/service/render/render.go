package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"resourcegen/config"
	"resourcegen/internal/core"
	cErr "resourcegen/internal/pkg/error"
	"resourcegen/internal/telemetry"
	"resourcegen/utils/compress"
)

// Renderer 把 HTML 轉成可下載文件的 URL
type Renderer interface {
	Render(ctx context.Context, html string) (string, error)
}

// 固定 letter 直式
const (
	PageWidth       = "8.5in"
	PageHeight      = "11in"
	PageOrientation = "portrait"
)

type page struct {
	Width       string `json:"width"`
	Height      string `json:"height"`
	Orientation string `json:"orientation"`
}

type renderPayload struct {
	HTML string `json:"html"`
	Page page   `json:"page"`
}

type renderResult struct {
	URL         string `json:"url"`
	PdfURL      string `json:"pdfUrl"`
	DocumentURL string `json:"document_url"`
}

func (r renderResult) location() string {
	for _, v := range []string{r.URL, r.PdfURL, r.DocumentURL} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type HTTPRenderer struct {
	httpClient *http.Client
	url        string
	apiKey     string
	trace      *telemetry.Trace
	metric     *telemetry.Metric
}

func NewHTTPRenderer(conf *config.Configuration, trace *telemetry.Trace, metric *telemetry.Metric, httpClient *http.Client) *HTTPRenderer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(conf.Render.Timeout) * time.Millisecond}
	}
	return &HTTPRenderer{
		httpClient: httpClient,
		url:        conf.Render.URL,
		apiKey:     conf.Render.APIKey,
		trace:      trace,
		metric:     metric,
	}
}

// NewRenderer wire 使用
func NewRenderer(conf *config.Configuration, trace *telemetry.Trace, metric *telemetry.Metric) Renderer {
	return NewHTTPRenderer(conf, trace, metric, nil)
}

func (r *HTTPRenderer) Render(ctx context.Context, html string) (_ string, returnedError error) {
	ctx, span, end := r.trace.WithSpan(ctx, string(core.SpanRenderProvider))
	defer func() { end(returnedError) }()
	meta := core.TraceProviderMeta{Provider: "render", URL: r.url}
	defer func() { r.trace.ApplyTraceAttributes(span, meta) }()

	start := time.Now()
	defer func() { r.metric.ObserveProvider("render", time.Since(start)) }()

	if r.url == "" {
		return "", cErr.RenderFailed("RENDER.URL is not configured")
	}

	body, err := json.Marshal(renderPayload{
		HTML: html,
		Page: page{Width: PageWidth, Height: PageHeight, Orientation: PageOrientation},
	})
	if err != nil {
		return "", cErr.RenderFailed("marshal render payload failed").Wrap(err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", cErr.RenderFailed("create http request failed").Wrap(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return "", cErr.RenderFailed("render provider request failed").Wrap(err)
	}
	defer resp.Body.Close()
	meta.StatusCode = resp.StatusCode
	meta.Encoding = resp.Header.Get("Content-Encoding")

	raw, err := compress.ReadBody(resp)
	if err != nil {
		return "", cErr.RenderFailed("read render response failed").Wrap(err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", cErr.RenderFailed(fmt.Sprintf("render provider returned %d", resp.StatusCode))
	}

	var result renderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", cErr.RenderFailed("decode render response failed").Wrap(err)
	}
	location := result.location()
	if location == "" {
		return "", cErr.RenderFailed("render provider returned no document url")
	}
	return location, nil
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: 8.5in 11in; margin: 0.75in; }
body { font-family: Arial, Helvetica, sans-serif; font-size: 12pt; line-height: 1.5; }
h1 { font-size: 18pt; margin-bottom: 0.25in; }
pre { white-space: pre-wrap; font-family: inherit; }
.answer-key { page-break-before: always; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<pre>{{.Body}}</pre>
{{if .AnswerKey}}<section class="answer-key"><h1>Answer Key</h1><pre>{{.AnswerKey}}</pre></section>{{end}}
</body>
</html>`))

// WrapHTML 以固定版型包裝生成內容；內容一律跳脫
func WrapHTML(title, body, answerKey string) (string, error) {
	var b bytes.Buffer
	err := documentTemplate.Execute(&b, struct {
		Title     string
		Body      string
		AnswerKey string
	}{Title: title, Body: body, AnswerKey: answerKey})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
