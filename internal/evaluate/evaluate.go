// Package evaluate reduces call argument syntax to plain values without
// executing anything.
package evaluate

import (
	"promnamelint/internal/instrument"
	"promnamelint/internal/pyast"
)

// RegistryAttr is the attribute name whose access is replaced by the inert
// registration target.
const RegistryAttr = "registry"

// Arguments are the reduced arguments of one call.
type Arguments struct {
	Positional []any
	Keywords   map[string]any
}

// Evaluator reduces argument nodes. It is stateless apart from the sentinel it
// substitutes for registry references and is safe for concurrent use.
type Evaluator struct {
	sentinel instrument.Registerer
}

// New returns an Evaluator that substitutes sentinel for x.registry.
func New(sentinel instrument.Registerer) *Evaluator {
	return &Evaluator{sentinel: sentinel}
}

// Call reduces the arguments of call. Arguments that are bare variable
// references are dropped, positionally and by keyword.
//
// Dropping a positional variable shifts every later positional argument one
// parameter to the left, so Counter(name, "help") is evaluated as
// Counter("help"). This usually fails construction, but can also bind a
// literal to the wrong parameter and produce a misleading name.
func (e *Evaluator) Call(call *pyast.Call) Arguments {
	args := Arguments{
		Positional: make([]any, 0, len(call.Args)),
		Keywords:   make(map[string]any, len(call.Keywords)),
	}
	for _, arg := range call.Args {
		if _, isName := arg.(*pyast.Name); isName {
			continue
		}
		args.Positional = append(args.Positional, e.Value(arg))
	}
	for _, kw := range call.Keywords {
		if _, isName := kw.Value.(*pyast.Name); isName {
			continue
		}
		args.Keywords[kw.Arg] = e.Value(kw.Value)
	}
	return args
}

// Value reduces a single node: literals to their value, tuples element-wise,
// x.registry to the sentinel. Anything else is returned unchanged.
func (e *Evaluator) Value(node pyast.Expr) any {
	switch n := node.(type) {
	case *pyast.Constant:
		return n.Value
	case *pyast.Tuple:
		elts := make([]any, len(n.Elts))
		for i, elt := range n.Elts {
			elts[i] = e.Value(elt)
		}
		return elts
	case *pyast.Attribute:
		if n.Attr == RegistryAttr {
			return e.sentinel
		}
	}
	return node
}
