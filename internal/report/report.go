// Package report turns naming violations into diagnostics and writes them.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"promnamelint/internal/checker"
)

// Code is the diagnostic code of a metric naming violation.
const Code = "PMN001"

// Diagnostic is one reported violation.
type Diagnostic struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Metric  string `json:"metric"`
}

// FromViolation builds the diagnostic for v found in path.
func FromViolation(path string, v *checker.Violation, prefixes checker.PrefixAllowList) Diagnostic {
	return Diagnostic{
		Path:    path,
		Line:    v.Position.Line,
		Column:  v.Position.Column,
		Code:    Code,
		Message: fmt.Sprintf("metric name %q does not start with any allowed prefix (%s)", v.Name, prefixes),
		Metric:  v.Name,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", d.Path, d.Line, d.Column, d.Code, d.Message)
}

// Sort orders diagnostics by path, line and column.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Writer renders diagnostics in one output format.
type Writer interface {
	Write(w io.Writer, diags []Diagnostic) error
}

// NewWriter returns the writer for format ("text" or "json"; empty means text).
func NewWriter(format string) (Writer, error) {
	switch format {
	case "", "text":
		return TextWriter{}, nil
	case "json":
		return JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TextWriter prints one flake8-style line per diagnostic.
type TextWriter struct{}

func (TextWriter) Write(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	return nil
}

// JSONWriter prints all diagnostics as one JSON array.
type JSONWriter struct{}

func (JSONWriter) Write(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// Suppressed reports whether a source line carries a noqa comment covering
// code: a bare "# noqa", or "# noqa: X1, X2" listing it.
func Suppressed(line, code string) bool {
	lower := strings.ToLower(line)
	idx := strings.Index(lower, "# noqa")
	if idx < 0 {
		idx = strings.Index(lower, "#noqa")
		if idx < 0 {
			return false
		}
	}
	rest := strings.TrimLeft(lower[idx+1:], " ")
	rest = strings.TrimPrefix(rest, "noqa")
	if !strings.HasPrefix(rest, ":") {
		return true
	}
	codes := strings.FieldsFunc(rest[1:], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, c := range codes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// Summary counts the result of a run.
type Summary struct {
	Files       int
	Violations  int
	CachedFiles int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d file(s) checked, %d from cache, %d violation(s)", s.Files, s.CachedFiles, s.Violations)
}
