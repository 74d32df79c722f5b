// Package checker matches metric constructor calls and validates the names of
// the metrics they would create.
package checker

import (
	"fmt"
	"strings"

	"promnamelint/internal/evaluate"
	"promnamelint/internal/instrument"
	"promnamelint/internal/pyast"
)

// ConstructorMapping maps the identifier a call is written with ("Counter" in
// both Counter(...) and prometheus_client.Counter(...)) to its metric type.
type ConstructorMapping map[string]*instrument.MetricType

// DefaultConstructors maps every prometheus_client class name to its type.
func DefaultConstructors() ConstructorMapping {
	m := make(ConstructorMapping)
	for _, t := range instrument.Types() {
		m[t.Constructor()] = t
	}
	return m
}

// Outcome is the stage at which a check concluded.
type Outcome int

const (
	// OutcomeNotApplicable: not a call to a mapped constructor.
	OutcomeNotApplicable Outcome = iota
	// OutcomeRejected: the constructor refused the recovered arguments.
	OutcomeRejected
	// OutcomeValid: the metric name starts with an allowed prefix.
	OutcomeValid
	// OutcomeViolation: the metric name matches no allowed prefix.
	OutcomeViolation
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotApplicable:
		return "not_applicable"
	case OutcomeRejected:
		return "rejected"
	case OutcomeValid:
		return "valid"
	case OutcomeViolation:
		return "violation"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Violation is a metric whose canonical name starts with no allowed prefix.
type Violation struct {
	Name        string
	Constructor string
	Position    pyast.Position
}

func (v *Violation) Error() string {
	return fmt.Sprintf("metric name %q does not start with an allowed prefix", v.Name)
}

// Result describes how a single node was handled.
type Result struct {
	Outcome     Outcome
	Constructor string
	Metric      *instrument.Metric
	Rejection   *instrument.RejectionError
	Violation   *Violation
}

// Checker runs the match, evaluate and validate pipeline on single nodes.
// It keeps no state between calls.
type Checker struct {
	constructors ConstructorMapping
	prefixes     PrefixAllowList
	registry     instrument.Registerer
	evaluator    *evaluate.Evaluator
}

// New returns a Checker. The mapping and prefix list are shared, not copied,
// and must not be modified afterwards. registry is the inert registration
// target handed to every constructor.
func New(constructors ConstructorMapping, prefixes PrefixAllowList, registry instrument.Registerer) *Checker {
	return &Checker{
		constructors: constructors,
		prefixes:     prefixes,
		registry:     registry,
		evaluator:    evaluate.New(registry),
	}
}

// Check returns the naming violation for node, or nil when the node is not a
// mapped constructor call, cannot be reduced, or is compliant. The error is
// reserved for defects such as a mapping entry without a metric type.
func (c *Checker) Check(node pyast.Expr) (*Violation, error) {
	res, err := c.Inspect(node)
	if err != nil {
		return nil, err
	}
	return res.Violation, nil
}

// Inspect is Check with the intermediate results exposed.
func (c *Checker) Inspect(node pyast.Expr) (Result, error) {
	call, name, metricType, ok := c.match(node)
	if !ok {
		return Result{Outcome: OutcomeNotApplicable}, nil
	}
	res := Result{Constructor: name}

	args := c.evaluator.Call(call)
	built, err := instrument.Construct(metricType, args.Positional, args.Keywords, c.registry)
	if err != nil {
		return Result{}, fmt.Errorf("construct %s at %d:%d: %w", name, call.Line, call.Column, err)
	}
	if !built.Built() {
		res.Outcome = OutcomeRejected
		res.Rejection = built.Rejection
		return res, nil
	}
	res.Metric = built.Metric

	metricName := built.Metric.Name()
	if c.prefixes.Allows(metricName) {
		res.Outcome = OutcomeValid
		return res, nil
	}
	res.Outcome = OutcomeViolation
	res.Violation = &Violation{Name: metricName, Constructor: name, Position: call.Position}
	return res, nil
}

func (c *Checker) match(node pyast.Expr) (*pyast.Call, string, *instrument.MetricType, bool) {
	call, ok := node.(*pyast.Call)
	if !ok {
		return nil, "", nil, false
	}
	var name string
	switch fn := call.Func.(type) {
	case *pyast.Name:
		name = fn.ID
	case *pyast.Attribute:
		name = fn.Attr
	default:
		return nil, "", nil, false
	}
	metricType, ok := c.constructors[name]
	if !ok {
		return nil, "", nil, false
	}
	return call, name, metricType, true
}

// Prefixes returns the allow-list the checker validates against.
func (c *Checker) Prefixes() PrefixAllowList { return c.prefixes }

// PrefixAllowList is an ordered list of acceptable metric name prefixes.
type PrefixAllowList []string

// Allows reports whether name starts with any prefix, checked in order.
func (p PrefixAllowList) Allows(name string) bool {
	for _, prefix := range p {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (p PrefixAllowList) String() string {
	return strings.Join(p, ", ")
}
