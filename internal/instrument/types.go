package instrument

import (
	"math"
	"strings"

	"github.com/prometheus/common/model"
)

// DefaultBuckets are the prometheus_client histogram defaults.
var DefaultBuckets = []float64{.005, .01, .025, .05, .075, .1, .25, .5, .75, 1.0, 2.5, 5.0, 7.5, 10.0, math.Inf(1)}

var multiprocessModes = []string{
	"all", "liveall", "min", "livemin", "max", "livemax",
	"sum", "livesum", "mostrecent", "livemostrecent",
}

var (
	// Counter emulates prometheus_client.Counter.
	Counter = &MetricType{
		constructor: "Counter",
		typ:         "counter",
		params:      baseParams(),
	}

	// Gauge emulates prometheus_client.Gauge.
	Gauge = &MetricType{
		constructor: "Gauge",
		typ:         "gauge",
		params:      append(baseParams(), param{name: "multiprocess_mode", fallback: constant("all")}),
		prepare:     prepareGauge,
	}

	// Summary emulates prometheus_client.Summary.
	Summary = &MetricType{
		constructor: "Summary",
		typ:         "summary",
		params:      baseParams(),
		reserved:    []string{model.QuantileLabel},
	}

	// Histogram emulates prometheus_client.Histogram.
	Histogram = &MetricType{
		constructor: "Histogram",
		typ:         "histogram",
		params: append(baseParams(), param{name: "buckets", fallback: func(Registerer) any {
			buckets := make([]any, len(DefaultBuckets))
			for i, b := range DefaultBuckets {
				buckets[i] = b
			}
			return buckets
		}}),
		reserved: []string{model.BucketLabel},
		prepare:  prepareHistogram,
	}

	// Info emulates prometheus_client.Info.
	Info = &MetricType{
		constructor: "Info",
		typ:         "info",
		params:      baseParams(),
	}

	// Enum emulates prometheus_client.Enum.
	Enum = &MetricType{
		constructor: "Enum",
		typ:         "stateset",
		params:      append(baseParams(), param{name: "states", fallback: constant(nil)}),
		finish:      finishEnum,
	}
)

// Types lists every supported metric type in a stable order.
func Types() []*MetricType {
	return []*MetricType{Counter, Gauge, Summary, Histogram, Info, Enum}
}

// Lookup finds a metric type by constructor name ("Histogram") or type string
// ("histogram", "stateset"), ignoring case.
func Lookup(name string) (*MetricType, bool) {
	for _, t := range Types() {
		if strings.EqualFold(name, t.constructor) || strings.EqualFold(name, t.typ) {
			return t, true
		}
	}
	return nil, false
}

func prepareGauge(m *Metric, args bound) error {
	mode, ok := args["multiprocess_mode"].(string)
	if !ok {
		return typeErrorf("multiprocess_mode must be str, not %s", typeName(args["multiprocess_mode"]))
	}
	for _, allowed := range multiprocessModes {
		if mode == allowed {
			m.MultiprocessMode = mode
			return nil
		}
	}
	return valueErrorf("Invalid multiprocess mode: %s", mode)
}

func prepareHistogram(m *Metric, args bound) error {
	items, err := iterate(args["buckets"])
	if err != nil {
		return err
	}
	buckets := make([]float64, 0, len(items)+1)
	for _, item := range items {
		f, err := toFloat(item)
		if err != nil {
			return err
		}
		buckets = append(buckets, f)
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i-1] > buckets[i] {
			return valueErrorf("Buckets not in sorted order")
		}
	}
	if len(buckets) > 0 && !math.IsInf(buckets[len(buckets)-1], 1) {
		buckets = append(buckets, math.Inf(1))
	}
	if len(buckets) < 2 {
		return valueErrorf("Must have at least two buckets")
	}
	m.UpperBounds = buckets
	return nil
}

func finishEnum(m *Metric, args bound) error {
	name := args["name"]
	switch labels := args["labelnames"].(type) {
	case string:
		if s, ok := name.(string); ok && strings.Contains(labels, s) {
			return valueErrorf("Overlapping labels for Enum metric: %s", s)
		}
	default:
		items, _ := iterate(labels)
		for _, l := range items {
			if l == name {
				return valueErrorf("Overlapping labels for Enum metric: %s", describe(name))
			}
		}
	}
	if !truthy(args["states"]) {
		return valueErrorf("No states provided for Enum metric: %s", describe(name))
	}
	m.States = args["states"]
	return nil
}
