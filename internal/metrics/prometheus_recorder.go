package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	textfile     string
	stepDuration *prom.HistogramVec
	stepResults  *prom.CounterVec
	items        *prom.CounterVec
	runDuration  *prom.HistogramVec
	runOutcomes  *prom.CounterVec
	lastRunItems *prom.GaugeVec
	lastRunTime  *prom.GaugeVec
}

// NewPrometheusRecorder registers the seedbed metrics on reg. When textfile
// is set, Flush writes the registry there.
func NewPrometheusRecorder(reg *prom.Registry, textfile string) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		textfile: textfile,
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "seedbed",
			Name:      "step_duration_seconds",
			Help:      "Duration of individual batch steps",
			Buckets:   prom.DefBuckets,
		}, []string{"mode", "step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "seedbed",
			Name:      "step_results_total",
			Help:      "Batch step result counts by outcome",
		}, []string{"mode", "result"}),
		items: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "seedbed",
			Name:      "items_total",
			Help:      "Entities created or removed per step",
		}, []string{"mode", "step"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "seedbed",
			Name:      "run_duration_seconds",
			Help:      "Total batch run duration",
			Buckets:   prom.DefBuckets,
		}, []string{"mode"}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "seedbed",
			Name:      "run_outcomes_total",
			Help:      "Batch runs by final status",
		}, []string{"mode", "outcome"}),
		lastRunItems: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "seedbed",
			Name:      "last_run_items",
			Help:      "Items processed by the most recent run",
		}, []string{"mode"}),
		lastRunTime: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "seedbed",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished",
		}, []string{"mode"}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.items, pr.runDuration, pr.runOutcomes, pr.lastRunItems, pr.lastRunTime)
	return pr
}

// Registry returns the backing registry.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveStep(mode, step string, items int, d time.Duration, success bool) {
	if p == nil {
		return
	}
	result := OutcomeSuccess
	if !success {
		result = OutcomeFailed
	}
	p.stepDuration.WithLabelValues(mode, step).Observe(d.Seconds())
	p.stepResults.WithLabelValues(mode, result).Inc()
	p.items.WithLabelValues(mode, step).Add(float64(max(items, 0)))
}

func (p *PrometheusRecorder) ObserveRun(mode, outcome string, items int, d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.WithLabelValues(mode).Observe(d.Seconds())
	p.runOutcomes.WithLabelValues(mode, outcome).Inc()
	p.lastRunItems.WithLabelValues(mode).Set(float64(items))
	p.lastRunTime.WithLabelValues(mode).SetToCurrentTime()
}

// Flush writes the registry to the textfile, if one is configured.
func (p *PrometheusRecorder) Flush() error {
	if p == nil || p.textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.textfile), 0o755); err != nil {
		return fmt.Errorf("metrics: create %s: %w", filepath.Dir(p.textfile), err)
	}
	if err := prom.WriteToTextfile(p.textfile, p.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", p.textfile, err)
	}
	return nil
}
