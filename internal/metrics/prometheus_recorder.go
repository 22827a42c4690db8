package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	stageDuration  *prom.HistogramVec
	stageResults   *prom.CounterVec
	hookDuration   *prom.HistogramVec
	hookResults    *prom.CounterVec
	pluginsLoaded  prom.Gauge
	pagesProcessed prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "siteporter",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteporter",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "siteporter",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteporter",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.hookDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "siteporter",
			Name:      "hook_duration_seconds",
			Help:      "Duration of individual plugin hook invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"hook"})
		pr.hookResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteporter",
			Name:      "hook_results_total",
			Help:      "Plugin hook results by action",
		}, []string{"hook", "result"})
		pr.pluginsLoaded = prom.NewGauge(prom.GaugeOpts{
			Namespace: "siteporter",
			Name:      "plugins_loaded",
			Help:      "Number of currently loaded plugins",
		})
		pr.pagesProcessed = prom.NewGauge(prom.GaugeOpts{
			Namespace: "siteporter",
			Name:      "pages_processed",
			Help:      "Pages processed by the last build",
		})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.stageDuration, pr.stageResults, pr.hookDuration, pr.hookResults, pr.pluginsLoaded, pr.pagesProcessed)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveHookDuration(hook string, d time.Duration) {
	if p == nil || p.hookDuration == nil {
		return
	}
	p.hookDuration.WithLabelValues(hook).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncHookResult(hook, result string) {
	if p == nil || p.hookResults == nil {
		return
	}
	p.hookResults.WithLabelValues(hook, result).Inc()
}

func (p *PrometheusRecorder) SetPluginsLoaded(n int) {
	if p == nil || p.pluginsLoaded == nil {
		return
	}
	p.pluginsLoaded.Set(float64(n))
}

func (p *PrometheusRecorder) SetPagesProcessed(n int) {
	if p == nil || p.pagesProcessed == nil {
		return
	}
	p.pagesProcessed.Set(float64(n))
}
