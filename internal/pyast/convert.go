package pyast

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrNoExpression is returned by ParseExpression when the source holds no
// expression statement.
var ErrNoExpression = errors.New("source does not contain an expression")

// Language returns the tree-sitter grammar the converter understands.
func Language() *sitter.Language {
	return python.GetLanguage()
}

// ParseExpression parses src as Python and converts its first expression
// statement.
func ParseExpression(src string) (Expr, error) {
	source := []byte(src)

	parser := sitter.NewParser()
	parser.SetLanguage(Language())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse expression: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parse expression: syntax error in %q", src)
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		if children := namedChildren(stmt); len(children) > 0 {
			return FromNode(children[0], source), nil
		}
	}
	return nil, ErrNoExpression
}

// FromNode converts a tree-sitter-python expression node. Node kinds outside
// the modelled set become *Other.
func FromNode(n *sitter.Node, src []byte) Expr {
	pos := positionOf(n)

	switch n.Type() {
	case "call":
		return convertCall(n, src)
	case "identifier":
		return &Name{Position: pos, ID: n.Content(src)}
	case "attribute":
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			break
		}
		return &Attribute{Position: pos, Value: FromNode(obj, src), Attr: attr.Content(src)}
	case "tuple":
		children := namedChildren(n)
		elts := make([]Expr, 0, len(children))
		for _, child := range children {
			elts = append(elts, FromNode(child, src))
		}
		return &Tuple{Position: pos, Elts: elts}
	case "parenthesized_expression":
		if children := namedChildren(n); len(children) == 1 {
			return FromNode(children[0], src)
		}
	case "list_splat":
		if children := namedChildren(n); len(children) == 1 {
			return &Starred{Position: pos, Value: FromNode(children[0], src)}
		}
	case "string":
		if v, ok := DecodeString(n.Content(src)); ok {
			return &Constant{Position: pos, Value: v}
		}
	case "concatenated_string":
		if v, ok := decodeConcatenated(n, src); ok {
			return &Constant{Position: pos, Value: v}
		}
	case "integer", "float":
		if v, ok := DecodeNumber(n.Content(src)); ok {
			return &Constant{Position: pos, Value: v}
		}
	case "true":
		return &Constant{Position: pos, Value: true}
	case "false":
		return &Constant{Position: pos, Value: false}
	case "none":
		return &Constant{Position: pos, Value: nil}
	case "ellipsis":
		return &Constant{Position: pos, Value: Ellipsis{}}
	}

	return &Other{Position: pos, Type: n.Type(), Text: n.Content(src)}
}

func convertCall(n *sitter.Node, src []byte) Expr {
	call := &Call{Position: positionOf(n)}
	if fn := n.ChildByFieldName("function"); fn != nil {
		call.Func = FromNode(fn, src)
	} else {
		call.Func = &Other{Position: call.Position, Type: "missing"}
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	// f(x for x in xs) passes a single generator positionally.
	if args.Type() != "argument_list" {
		call.Args = append(call.Args, FromNode(args, src))
		return call
	}

	for _, arg := range namedChildren(args) {
		switch arg.Type() {
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			value := arg.ChildByFieldName("value")
			if name == nil || value == nil {
				continue
			}
			call.Keywords = append(call.Keywords, Keyword{Arg: name.Content(src), Value: FromNode(value, src)})
		case "dictionary_splat":
			children := namedChildren(arg)
			if len(children) != 1 {
				continue
			}
			call.Keywords = append(call.Keywords, Keyword{Value: FromNode(children[0], src)})
		default:
			call.Args = append(call.Args, FromNode(arg, src))
		}
	}
	return call
}

func decodeConcatenated(n *sitter.Node, src []byte) (any, bool) {
	var (
		text    string
		raw     []byte
		isBytes bool
	)
	for i, part := range namedChildren(n) {
		if part.Type() != "string" {
			return nil, false
		}
		v, ok := DecodeString(part.Content(src))
		if !ok {
			return nil, false
		}
		switch s := v.(type) {
		case string:
			if i > 0 && isBytes {
				return nil, false
			}
			text += s
		case []byte:
			if i > 0 && !isBytes {
				return nil, false
			}
			isBytes = true
			raw = append(raw, s...)
		}
	}
	if isBytes {
		return raw, true
	}
	return text, true
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func positionOf(n *sitter.Node) Position {
	p := n.StartPoint()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}
