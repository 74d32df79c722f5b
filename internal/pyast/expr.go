// Package pyast models the subset of Python expression syntax the metric-name
// check inspects, converted from tree-sitter-python parse trees.
package pyast

// Position is a 1-based source location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Pos returns the position itself so embedding types satisfy Expr.
func (p Position) Pos() Position { return p }

// Expr is a Python expression node. The set of implementations is closed:
// Constant, Tuple, Attribute, Name, Call, Starred and Other.
type Expr interface {
	Pos() Position
	expr()
}

// Constant is a literal: None (nil), bool, int64, *big.Int, float64,
// complex128, string, []byte or Ellipsis.
type Constant struct {
	Position
	Value any
}

// Tuple is a fixed-size sequence literal such as (1, 2, 3).
type Tuple struct {
	Position
	Elts []Expr
}

// Attribute is a qualified reference such as prometheus_client.Counter.
type Attribute struct {
	Position
	Value Expr
	Attr  string
}

// Name is a bare identifier reference.
type Name struct {
	Position
	ID string
}

// Call is a call expression.
type Call struct {
	Position
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

// Keyword is one keyword argument of a call. Arg is empty for **mapping.
type Keyword struct {
	Arg   string
	Value Expr
}

// Starred is a *iterable positional argument.
type Starred struct {
	Position
	Value Expr
}

// Other is any expression kind the check does not reduce.
type Other struct {
	Position
	Type string
	Text string
}

func (*Constant) expr()  {}
func (*Tuple) expr()     {}
func (*Attribute) expr() {}
func (*Name) expr()      {}
func (*Call) expr()      {}
func (*Starred) expr()   {}
func (*Other) expr()     {}

// Ellipsis is the value of the ... literal.
type Ellipsis struct{}

func (Ellipsis) String() string { return "Ellipsis" }
