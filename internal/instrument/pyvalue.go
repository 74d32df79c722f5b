package instrument

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Arguments handed to a constructor are loosely typed the way Python values
// are: nil, bool, int64, *big.Int, float64, complex128, string, []byte, []any
// for sequences, a Registerer, or an arbitrary object the constructor can only
// pass around.

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case *big.Int:
		return x.Sign() != 0
	case float64:
		return x != 0
	case complex128:
		return x != 0
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	case []any:
		return len(x) > 0
	default:
		return true
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64, *big.Int:
		return "int"
	case float64:
		return "float"
	case complex128:
		return "complex"
	case string:
		return "str"
	case []byte:
		return "bytes"
	case []any:
		return "tuple"
	case Registerer:
		return "CollectorRegistry"
	default:
		return "object"
	}
}

func asString(v any, what string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeErrorf("%s must be str, not %s", what, typeName(v))
	}
	return s, nil
}

// iterate mirrors tuple(v): sequences yield their elements, strings their
// characters and bytes their integer values.
func iterate(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case string:
		out := make([]any, 0, len(x))
		for _, r := range x {
			out = append(out, string(r))
		}
		return out, nil
	case []byte:
		out := make([]any, 0, len(x))
		for _, b := range x {
			out = append(out, int64(b))
		}
		return out, nil
	default:
		return nil, typeErrorf("'%s' object is not iterable", typeName(v))
	}
}

// toFloat mirrors Python's float() constructor.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int64:
		return float64(x), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		if math.IsInf(f, 0) {
			return 0, typeErrorf("int too large to convert to float")
		}
		return f, nil
	case float64:
		return x, nil
	case string:
		return parseFloat(x)
	case []byte:
		return parseFloat(string(x))
	default:
		return 0, typeErrorf("float() argument must be a string or a real number, not '%s'", typeName(v))
	}
}

func parseFloat(s string) (float64, error) {
	t := strings.TrimSpace(s)
	lower := strings.ToLower(t)
	if t == "" || strings.Contains(lower, "0x") || strings.HasPrefix(t, "_") || strings.HasSuffix(t, "_") {
		return 0, valueErrorf("could not convert string to float: %q", s)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(t, "_", ""), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, valueErrorf("could not convert string to float: %q", s)
	}
	return f, nil
}
