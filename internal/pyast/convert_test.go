package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := ParseExpression(src)
	require.NoError(t, err)
	return e
}

func TestParseExpression_Call(t *testing.T) {
	e := parse(t, `prometheus_client.Counter("app_total", 'help', ("a", "b"), registry=self.registry, **extra)`)

	call, ok := e.(*Call)
	require.True(t, ok, "expected *Call, got %T", e)
	assert.Equal(t, Position{Line: 1, Column: 1}, call.Pos())

	fn, ok := call.Func.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "Counter", fn.Attr)
	assert.Equal(t, &Name{Position: Position{Line: 1, Column: 1}, ID: "prometheus_client"}, fn.Value)

	require.Len(t, call.Args, 3)
	assert.Equal(t, "app_total", call.Args[0].(*Constant).Value)
	assert.Equal(t, "help", call.Args[1].(*Constant).Value)
	tuple, ok := call.Args[2].(*Tuple)
	require.True(t, ok)
	require.Len(t, tuple.Elts, 2)
	assert.Equal(t, "b", tuple.Elts[1].(*Constant).Value)

	require.Len(t, call.Keywords, 2)
	assert.Equal(t, "registry", call.Keywords[0].Arg)
	reg, ok := call.Keywords[0].Value.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "registry", reg.Attr)
	assert.Equal(t, "", call.Keywords[1].Arg)
	assert.IsType(t, &Name{}, call.Keywords[1].Value)
}

func TestParseExpression_Literals(t *testing.T) {
	cases := []struct {
		src  string
		want any
	}{
		{`None`, nil},
		{`True`, true},
		{`False`, false},
		{`...`, Ellipsis{}},
		{`12`, int64(12)},
		{`0.5`, 0.5},
		{`("parenthesized")`, "parenthesized"},
		{`"implicit" '_concat' """enation"""`, "implicit_concatenation"},
		{`b"ab" b"cd"`, []byte("abcd")},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			c, ok := parse(t, tc.src).(*Constant)
			require.True(t, ok)
			assert.Equal(t, tc.want, c.Value)
		})
	}
}

func TestParseExpression_Irreducible(t *testing.T) {
	for _, src := range []string{
		`f"app_{suffix}"`,
		`-1`,
		`["a", "b"]`,
		`{"a": 1}`,
		`"a" + "b"`,
		`items[0]`,
	} {
		t.Run(src, func(t *testing.T) {
			other, ok := parse(t, src).(*Other)
			require.True(t, ok)
			assert.NotEmpty(t, other.Type)
			assert.Equal(t, src, other.Text)
		})
	}
}

func TestParseExpression_CallShapes(t *testing.T) {
	t.Run("tuples", func(t *testing.T) {
		tuple, ok := parse(t, `(1, (2.0, "x"), ())`).(*Tuple)
		require.True(t, ok)
		require.Len(t, tuple.Elts, 3)
		inner := tuple.Elts[1].(*Tuple)
		assert.Equal(t, 2.0, inner.Elts[0].(*Constant).Value)
		assert.Empty(t, tuple.Elts[2].(*Tuple).Elts)
	})

	t.Run("starred positional", func(t *testing.T) {
		call := parse(t, `Gauge(*args)`).(*Call)
		require.Len(t, call.Args, 1)
		starred, ok := call.Args[0].(*Starred)
		require.True(t, ok)
		assert.Equal(t, "args", starred.Value.(*Name).ID)
	})

	t.Run("generator argument", func(t *testing.T) {
		call := parse(t, `Summary(x for x in xs)`).(*Call)
		require.Len(t, call.Args, 1)
		assert.IsType(t, &Other{}, call.Args[0])
	})

	t.Run("comments between arguments", func(t *testing.T) {
		call := parse(t, "Counter(\n    \"a\",  # name\n    \"b\",\n)").(*Call)
		require.Len(t, call.Args, 2)
		assert.Equal(t, Position{Line: 3, Column: 5}, call.Args[1].Pos())
	})

	t.Run("callee of a call", func(t *testing.T) {
		call := parse(t, `factory()("x")`).(*Call)
		assert.IsType(t, &Call{}, call.Func)
	})
}

func TestParseExpression_Errors(t *testing.T) {
	_, err := ParseExpression(`Counter(`)
	assert.Error(t, err)

	_, err = ParseExpression(`import os`)
	assert.ErrorIs(t, err, ErrNoExpression)
}
