// Package instrument emulates the prometheus_client metric constructors
// closely enough to compute the name a constructor call would register,
// without any collector registry or process state involved.
package instrument

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"
)

// Metric is the result of a successful constructor emulation.
type Metric struct {
	// Type is the prometheus_client type string: counter, gauge, summary,
	// histogram, info or stateset.
	Type string
	// Family is the internal metric name after namespace, subsystem and unit
	// handling, with a counter's _total suffix removed.
	Family        string
	Documentation any
	LabelNames    []string
	LabelValues   []any
	Unit          string

	// UpperBounds holds histogram buckets with +Inf appended.
	UpperBounds []float64
	// MultiprocessMode is set for gauges.
	MultiprocessMode string
	// States is the raw states argument of an Enum.
	States any
}

// Name returns the canonical name the metric is exposed under. Counters expose
// their family with the _total suffix; every other type uses the family.
func (m *Metric) Name() string {
	if m.Type == "counter" {
		return m.Family + "_total"
	}
	return m.Family
}

type param struct {
	name     string
	required bool
	// fallback produces the default; it runs per call so no default value is
	// shared between constructions.
	fallback func(reg Registerer) any
}

// bound maps parameter names to their final values.
type bound map[string]any

func constant(v any) func(Registerer) any {
	return func(Registerer) any { return v }
}

// baseParams follows MetricWrapperBase.__init__.
func baseParams() []param {
	return []param{
		{name: "name", required: true},
		{name: "documentation", required: true},
		{name: "labelnames", fallback: func(Registerer) any { return []any{} }},
		{name: "namespace", fallback: constant("")},
		{name: "subsystem", fallback: constant("")},
		{name: "unit", fallback: constant("")},
		{name: "registry", fallback: func(reg Registerer) any { return reg }},
		{name: "_labelvalues", fallback: constant(nil)},
	}
}

// MetricType describes one metric constructor.
type MetricType struct {
	constructor string
	typ         string
	params      []param
	reserved    []string
	// prepare runs before the shared validation, finish after registration.
	prepare func(m *Metric, args bound) error
	finish  func(m *Metric, args bound) error
}

// Constructor returns the Python class name, e.g. "Histogram".
func (t *MetricType) Constructor() string { return t.constructor }

// Type returns the prometheus_client type string, e.g. "histogram".
func (t *MetricType) Type() string { return t.typ }

func (t *MetricType) String() string { return t.constructor }

// New binds args and kwargs to the constructor signature, validates them and
// registers the result with the registry argument. reg is the registration
// target used when the call does not pass one, or passes one the analysis
// cannot use. A *RejectionError means the arguments were refused.
func (t *MetricType) New(args []any, kwargs map[string]any, reg Registerer) (*Metric, error) {
	b, err := t.bind(args, kwargs, reg)
	if err != nil {
		return nil, err
	}

	m := &Metric{Type: t.typ}
	if t.prepare != nil {
		if err := t.prepare(m, b); err != nil {
			return nil, err
		}
	}

	if m.Family, err = buildFullName(t.typ, b["name"], b["namespace"], b["subsystem"], b["unit"]); err != nil {
		return nil, err
	}
	if m.LabelNames, err = t.validateLabelNames(b["labelnames"]); err != nil {
		return nil, err
	}
	if truthy(b["_labelvalues"]) {
		if m.LabelValues, err = iterate(b["_labelvalues"]); err != nil {
			return nil, err
		}
	}
	if truthy(b["unit"]) {
		m.Unit = b["unit"].(string)
	}
	m.Documentation = b["documentation"]

	if !model.MetricNameRE.MatchString(m.Family) {
		return nil, valueErrorf("Invalid metric name: %s", m.Family)
	}

	if target := registrationTarget(b["registry"], reg); target != nil && len(m.LabelValues) == 0 {
		target.Register(m)
	}

	if t.finish != nil {
		if err := t.finish(m, b); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (t *MetricType) bind(args []any, kwargs map[string]any, reg Registerer) (bound, error) {
	if len(args) > len(t.params) {
		return nil, typeErrorf("%s() takes from 3 to %d positional arguments but %d were given",
			t.constructor, len(t.params)+1, len(args)+1)
	}

	b := make(bound, len(t.params))
	for i, v := range args {
		b[t.params[i].name] = v
	}
	for key, v := range kwargs {
		if key == "" {
			return nil, typeErrorf("%s() keywords must be strings", t.constructor)
		}
		if !t.hasParam(key) {
			return nil, typeErrorf("%s() got an unexpected keyword argument '%s'", t.constructor, key)
		}
		if _, dup := b[key]; dup {
			return nil, typeErrorf("%s() got multiple values for argument '%s'", t.constructor, key)
		}
		b[key] = v
	}

	var missing []string
	for _, p := range t.params {
		if _, ok := b[p.name]; ok {
			continue
		}
		if p.required {
			missing = append(missing, "'"+p.name+"'")
			continue
		}
		b[p.name] = p.fallback(reg)
	}
	if len(missing) > 0 {
		return nil, typeErrorf("%s() missing %d required positional argument(s): %s",
			t.constructor, len(missing), strings.Join(missing, " and "))
	}
	return b, nil
}

func (t *MetricType) hasParam(name string) bool {
	for _, p := range t.params {
		if p.name == name {
			return true
		}
	}
	return false
}

func (t *MetricType) validateLabelNames(v any) ([]string, error) {
	items, err := iterate(v)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		l, err := asString(item, "label name")
		if err != nil {
			return nil, err
		}
		if !model.LabelNameRE.MatchString(l) {
			return nil, valueErrorf("Invalid label metric name: %s", l)
		}
		if strings.HasPrefix(l, model.ReservedLabelPrefix) {
			return nil, valueErrorf("Reserved label metric name: %s", l)
		}
		for _, r := range t.reserved {
			if l == r {
				return nil, valueErrorf("Reserved label metric name: %s", l)
			}
		}
		names = append(names, l)
	}
	return names, nil
}

// buildFullName mirrors prometheus_client's _build_full_name.
func buildFullName(typ string, name, namespace, subsystem, unit any) (string, error) {
	if !truthy(name) {
		return "", valueErrorf("Metric name should not be empty")
	}
	parts := make([]string, 3)
	for i, part := range []struct {
		value any
		what  string
	}{{namespace, "namespace"}, {subsystem, "subsystem"}, {name, "name"}} {
		if !truthy(part.value) {
			continue
		}
		s, err := asString(part.value, part.what)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}

	full := prometheus.BuildFQName(parts[0], parts[1], parts[2])
	if typ == "counter" {
		full = strings.TrimSuffix(full, "_total")
	}
	if truthy(unit) {
		u, err := asString(unit, "unit")
		if err != nil {
			return "", err
		}
		if !strings.HasSuffix(full, "_"+u) {
			full += "_" + u
		}
		if typ == "info" || typ == "stateset" {
			return "", valueErrorf("Metric name is of a type that cannot have a unit: %s", full)
		}
	}
	return full, nil
}

// registrationTarget resolves the registry argument. A falsy value disables
// registration; anything truthy that is not a Registerer goes to fallback.
func registrationTarget(v any, fallback Registerer) Registerer {
	if !truthy(v) {
		return nil
	}
	if r, ok := v.(Registerer); ok {
		return r
	}
	return fallback
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("<%s>", typeName(v))
}
