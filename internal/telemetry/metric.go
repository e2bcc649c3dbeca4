package telemetry

import (
	"resourcegen/config"
	"resourcegen/internal/core"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	GenerationTotal     *prometheus.CounterVec
	QuotaRejectedTotal  prometheus.Counter
	RenderTotal         *prometheus.CounterVec
	ProviderDuration    *prometheus.HistogramVec
	ActivationTotal     prometheus.Counter
	UsageIdentities     prometheus.Gauge
	UsagePaidIdentities prometheus.Gauge
	UsageMeteredUnits   prometheus.Gauge
	config              *config.Configuration
}

// NewMetric 建立所有指標，註冊在 prometheus 預設 registry
func NewMetric(config *config.Configuration) *Metric {
	return NewMetricWithRegisterer(config, prometheus.DefaultRegisterer)
}

// NewMetricWithRegisterer 測試時可傳入獨立 registry，避免重複註冊
func NewMetricWithRegisterer(config *config.Configuration, registerer prometheus.Registerer) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := config.Telemetry.MetricBuckets(prometheus.DefBuckets)
	factory := promauto.With(registerer)
	prefix := config.App.Name + "_"
	return &Metric{
		config: config,
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricHttpRequestDuration),
				Help:    "Request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		GenerationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricGenerationTotal),
				Help: "Generation requests by outcome",
			},
			labelNames(core.MetricLabelOutcome),
		),
		QuotaRejectedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricQuotaRejectedTotal),
				Help: "Requests rejected by the free-tier quota gate",
			},
		),
		RenderTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricRenderTotal),
				Help: "Document render calls by outcome",
			},
			labelNames(core.MetricLabelOutcome),
		),
		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(core.MetricProviderDuration),
				Help:    "Outbound provider call duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelProvider),
		),
		ActivationTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + string(core.MetricActivationTotal),
				Help: "Paid activations",
			},
		),
		UsageIdentities: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricUsageIdentitiesGauge),
				Help: "Known identities in the usage store",
			},
		),
		UsagePaidIdentities: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricUsagePaidIdentitiesGauge),
				Help: "Paid identities in the usage store",
			},
		),
		UsageMeteredUnits: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + string(core.MetricUsageUnitsGauge),
				Help: "Metered generation units consumed by all identities",
			},
		),
	}
}

// ==== 以下方法皆允許指標關閉（欄位為 nil） ====

func (m *Metric) ObserveGeneration(outcome string) {
	if m == nil || m.GenerationTotal == nil {
		return
	}
	m.GenerationTotal.WithLabelValues(outcome).Inc()
	if outcome == core.OutcomeQuotaExceeded && m.QuotaRejectedTotal != nil {
		m.QuotaRejectedTotal.Inc()
	}
}

func (m *Metric) ObserveRender(outcome string) {
	if m == nil || m.RenderTotal == nil {
		return
	}
	m.RenderTotal.WithLabelValues(outcome).Inc()
}

func (m *Metric) ObserveProvider(provider string, elapsed time.Duration) {
	if m == nil || m.ProviderDuration == nil {
		return
	}
	m.ProviderDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metric) ObserveActivation() {
	if m == nil || m.ActivationTotal == nil {
		return
	}
	m.ActivationTotal.Inc()
}

func (m *Metric) SetUsageSnapshot(identities, paid, units int64) {
	if m == nil || m.UsageIdentities == nil {
		return
	}
	m.UsageIdentities.Set(float64(identities))
	m.UsagePaidIdentities.Set(float64(paid))
	m.UsageMeteredUnits.Set(float64(units))
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
