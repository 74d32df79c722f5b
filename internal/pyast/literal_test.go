package pyast

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	cases := []struct {
		lit  string
		want any
	}{
		{`"app_requests_total"`, "app_requests_total"},
		{`'single'`, "single"},
		{`""`, ""},
		{`"""triple "quoted" text"""`, `triple "quoted" text`},
		{`''''''`, ""},
		{`"tab\there"`, "tab\there"},
		{`"esc\\aped\'"`, `esc\aped'`},
		{`"\x41\101é"`, "AAé"},
		{`"\U0001F600"`, "\U0001F600"},
		{`"unknown\q"`, `unknown\q`},
		{`r"raw\n"`, `raw\n`},
		{`R'raw'`, "raw"},
		{`u"unicode"`, "unicode"},
		{`b"bytes\x00"`, []byte("bytes\x00")},
		{`rb"raw\bytes"`, []byte(`raw\bytes`)},
	}
	for _, tc := range cases {
		t.Run(tc.lit, func(t *testing.T) {
			got, ok := DecodeString(tc.lit)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("f-strings are not decoded", func(t *testing.T) {
		_, ok := DecodeString(`f"app_{name}"`)
		assert.False(t, ok)
		_, ok = DecodeString(`Rf"plain"`)
		assert.False(t, ok)
	})

	t.Run("named unicode escapes are not decoded", func(t *testing.T) {
		_, ok := DecodeString(`"\N{BULLET}"`)
		assert.False(t, ok)
	})
}

func TestDecodeNumber(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	cases := []struct {
		lit  string
		want any
	}{
		{"0", int64(0)},
		{"000", int64(0)},
		{"42", int64(42)},
		{"1_000", int64(1000)},
		{"0x1F", int64(31)},
		{"0o17", int64(15)},
		{"0B101", int64(5)},
		{"0x1e5", int64(485)},
		{"123456789012345678901234567890", huge},
		{"1.5", 1.5},
		{".25", 0.25},
		{"1e3", 1000.0},
		{"2j", complex(0, 2)},
		{"1.5J", complex(0, 1.5)},
	}
	for _, tc := range cases {
		t.Run(tc.lit, func(t *testing.T) {
			got, ok := DecodeNumber(tc.lit)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := DecodeNumber("017")
	assert.False(t, ok, "octal-style literals are a syntax error in Python 3")
}
