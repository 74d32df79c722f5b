package instrument

import "errors"

// Construction is the outcome of trying to build a metric from arguments
// recovered by static analysis. Exactly one of Metric and Rejection is set.
type Construction struct {
	Metric    *Metric
	Rejection *RejectionError
}

// Built reports whether a metric was produced.
func (c Construction) Built() bool { return c.Metric != nil }

// Construct runs the constructor of t. Refused arguments come back as a
// Construction with Rejection set; the returned error is reserved for defects
// such as a nil metric type.
func Construct(t *MetricType, args []any, kwargs map[string]any, reg Registerer) (Construction, error) {
	if t == nil {
		return Construction{}, ErrNilMetricType
	}
	m, err := t.New(args, kwargs, reg)
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			return Construction{Rejection: rej}, nil
		}
		return Construction{}, err
	}
	return Construction{Metric: m}, nil
}
