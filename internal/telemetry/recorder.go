// Package telemetry records Prometheus metrics about lint runs.
package telemetry

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric the linter exposes about itself.
const Namespace = "promnamelint"

// Recorder counts files, inspected calls and cache lookups. A nil *Recorder
// records nothing.
type Recorder struct {
	registry      *prom.Registry
	filesChecked  *prom.CounterVec
	callsInspect  *prom.CounterVec
	cacheLookups  *prom.CounterVec
	checkDuration prom.Histogram
}

// NewRecorder constructs the metrics and registers them on reg, or on a fresh
// registry when reg is nil.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		filesChecked: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "files_checked_total",
			Help:      "Files processed by result (checked, cached, skipped)",
		}, []string{"result"}),
		callsInspect: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "calls_inspected_total",
			Help:      "Call expressions inspected by outcome",
		}, []string{"outcome"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		checkDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "file_check_duration_seconds",
			Help:      "Time spent parsing and checking one file",
			Buckets:   prom.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	reg.MustRegister(r.filesChecked, r.callsInspect, r.cacheLookups, r.checkDuration)
	return r
}

// Registry returns the registry the metrics are registered on.
func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) IncFile(result string) {
	if r == nil {
		return
	}
	r.filesChecked.WithLabelValues(result).Inc()
}

func (r *Recorder) IncCall(outcome string) {
	if r == nil {
		return
	}
	r.callsInspect.WithLabelValues(outcome).Inc()
}

func (r *Recorder) IncCacheLookup(result string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveCheckDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.checkDuration.Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format,
// for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prom.WriteToTextfile(path, r.registry)
}
