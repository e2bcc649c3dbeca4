package core

const ContextTraceKey = "telemetry_trace_ctx"

// ContextRequestIDKey Recovery middleware 產生的 uuid v7
const ContextRequestIDKey = "requestID"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanResourceGenerate   TraceSpanName = "resource.generate"
	SpanResourceActivate   TraceSpanName = "resource.activate"
	SpanGenerationProvider TraceSpanName = "generation.provider"
	SpanRenderProvider     TraceSpanName = "render.provider"
	SpanUsageSnapshot      TraceSpanName = "usage.snapshot"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal        MetricName = "requests_total"
	MetricHttpRequestDuration      MetricName = "request_duration_seconds"
	MetricGenerationTotal          MetricName = "generation_total"
	MetricQuotaRejectedTotal       MetricName = "quota_rejected_total"
	MetricRenderTotal              MetricName = "render_total"
	MetricProviderDuration         MetricName = "provider_duration_seconds"
	MetricActivationTotal          MetricName = "activation_total"
	MetricUsageIdentitiesGauge     MetricName = "usage_identities"
	MetricUsagePaidIdentitiesGauge MetricName = "usage_paid_identities"
	MetricUsageUnitsGauge          MetricName = "usage_metered_units"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelOutcome  MetricLabelName = "outcome"
	MetricLabelProvider MetricLabelName = "provider"
)

// 生成流程的結果標籤
const (
	OutcomeSuccess          = "success"
	OutcomeQuotaExceeded    = "quota_exceeded"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeRenderFailed     = "render_failed"
	OutcomeStoreFailed      = "store_failed"
	OutcomeInvalid          = "invalid"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
}

// 供生成流程（配額檢查 → 扣量 → 生成 → 渲染）使用
type TraceGenerateMeta struct {
	Identity     string `trace:"resource.identity"`
	ResourceType string `trace:"resource.type"`
	OutputType   string `trace:"resource.output_type"`
	Paid         bool   `trace:"usage.paid"`
	Count        int    `trace:"usage.count"`
	FreeLimit    int    `trace:"usage.free_limit"`
	Provisioned  bool   `trace:"usage.provisioned"`
	State        string `trace:"resource.state"`
	Outcome      string `trace:"resource.outcome"`
}

// 供使用量儲存層寫入使用
type TraceUsageWriteMeta struct {
	Driver    string `trace:"usage.driver"`
	Identity  string `trace:"usage.identity"`
	Op        string `trace:"usage.op"` // "get" / "create" / "increment" / "set_paid"
	Limit     int    `trace:"usage.limit"`
	Count     int    `trace:"usage.count"`
	Affected  int64  `trace:"usage.affected"`
	Duplicate bool   `trace:"usage.duplicate"`
}

type TraceProviderMeta struct {
	Provider   string `trace:"ai.provider"`
	Model      string `trace:"ai.model"`
	URL        string `trace:"http.url"`
	StatusCode int    `trace:"http.status_code"`
	Encoding   string `trace:"http.content_encoding"`
	Tokens     int    `trace:"ai.tokens.total"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

type TraceUsageSnapshotMeta struct {
	Identities     int64 `trace:"usage.identities"`
	PaidIdentities int64 `trace:"usage.paid_identities"`
	MeteredUnits   int64 `trace:"usage.metered_units"`
}
