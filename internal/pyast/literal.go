package pyast

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeString decodes the source text of a Python string literal, prefix and
// quotes included. It returns a string, or []byte for b-prefixed literals.
// f-strings and literals using \N{...} are not decoded.
func DecodeString(lit string) (any, bool) {
	prefixLen := strings.IndexAny(lit, `'"`)
	if prefixLen < 0 {
		return nil, false
	}
	prefix := strings.ToLower(lit[:prefixLen])
	var rawMode, bytesMode bool
	for _, r := range prefix {
		switch r {
		case 'r':
			rawMode = true
		case 'b':
			bytesMode = true
		case 'u':
		default:
			// f-strings evaluate expressions at runtime.
			return nil, false
		}
	}

	body := lit[prefixLen:]
	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	if len(body) < 2*len(quote) || !strings.HasSuffix(body, quote) {
		return nil, false
	}
	body = body[len(quote) : len(body)-len(quote)]

	if rawMode {
		if bytesMode {
			return []byte(body), true
		}
		return body, true
	}

	decoded, ok := unescape(body, bytesMode)
	if !ok {
		return nil, false
	}
	if bytesMode {
		return decoded, true
	}
	return string(decoded), true
}

func unescape(body string, bytesMode bool) ([]byte, bool) {
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			out = append(out, c)
			continue
		}
		i++
		switch e := body[i]; e {
		case '\n':
			// line continuation
		case '\\', '\'', '"':
			out = append(out, e)
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(body) && j < i+3 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(body[i:j], 8, 32)
			out = appendCodePoint(out, rune(v), bytesMode)
			i = j - 1
		case 'x':
			v, ok := hexDigits(body, i+1, 2)
			if !ok {
				return nil, false
			}
			out = appendCodePoint(out, rune(v), bytesMode)
			i += 2
		case 'u', 'U':
			if bytesMode {
				out = append(out, '\\', e)
				continue
			}
			width := 4
			if e == 'U' {
				width = 8
			}
			v, ok := hexDigits(body, i+1, width)
			if !ok || v > utf8.MaxRune {
				return nil, false
			}
			out = utf8.AppendRune(out, rune(v))
			i += width
		case 'N':
			if bytesMode {
				out = append(out, '\\', e)
				continue
			}
			return nil, false
		default:
			out = append(out, '\\', e)
		}
	}
	return out, true
}

func hexDigits(s string, start, width int) (uint64, bool) {
	if start+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}

func appendCodePoint(out []byte, v rune, bytesMode bool) []byte {
	if bytesMode {
		return append(out, byte(v))
	}
	return utf8.AppendRune(out, v)
}

// DecodeNumber decodes a Python integer, float or imaginary literal.
func DecodeNumber(lit string) (any, bool) {
	s := strings.ToLower(strings.ReplaceAll(lit, "_", ""))
	if s == "" {
		return nil, false
	}

	if strings.HasSuffix(s, "j") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "j"), 64)
		if err != nil {
			return nil, false
		}
		return complex(0, f), true
	}

	isInt := !strings.ContainsAny(s, ".e") || strings.HasPrefix(s, "0x")
	if !isInt {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}

	// Python allows redundant leading zeros ("00") but not octal-style "017".
	if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
		if strings.Trim(s, "0") != "" {
			return nil, false
		}
		return int64(0), true
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, true
	}
	if v, ok := new(big.Int).SetString(s, 0); ok {
		return v, true
	}
	return nil, false
}
