package instrument

import (
	"errors"
	"fmt"
)

// Domain classifies why a constructor rejected its arguments.
type Domain string

const (
	// ValueDomain covers arguments of the right type with an unusable value.
	ValueDomain Domain = "value"
	// TypeDomain covers wrong arity, unknown keywords and wrongly typed values.
	TypeDomain Domain = "type"
)

// ErrNilMetricType is returned when a constructor mapping entry has no metric
// type behind it.
var ErrNilMetricType = errors.New("metric type is nil")

// RejectionError reports that a constructor refused the supplied arguments.
// For static analysis it means the call could not be reduced, not that the
// analyzed code is wrong.
type RejectionError struct {
	Domain  Domain
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Domain, e.Message)
}

func valueErrorf(format string, args ...any) error {
	return &RejectionError{Domain: ValueDomain, Message: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...any) error {
	return &RejectionError{Domain: TypeDomain, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is, or wraps, a *RejectionError.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}
