package lint

import (
	"path/filepath"
	"strings"

	"promnamelint/internal/git"
	"promnamelint/internal/report"
)

// Scope restricts a run to files changed relative to a git ref.
type Scope struct {
	files     map[string]git.ChangedFile
	linesOnly bool
}

// NewScope builds a scope from git changes. With linesOnly, diagnostics are
// kept only when they sit on an added or modified line.
func NewScope(changes []git.ChangedFile, linesOnly bool) *Scope {
	s := &Scope{files: make(map[string]git.ChangedFile), linesOnly: linesOnly}
	for _, c := range changes {
		if c.Deleted || !strings.HasSuffix(c.Path, ".py") {
			continue
		}
		s.files[filepath.Clean(filepath.FromSlash(c.Path))] = c
	}
	return s
}

// Paths returns the changed Python files that still exist.
func (s *Scope) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	return paths
}

// Filter drops diagnostics outside the scope.
func (s *Scope) Filter(diags []report.Diagnostic) []report.Diagnostic {
	var kept []report.Diagnostic
	for _, d := range diags {
		c, ok := s.files[filepath.Clean(d.Path)]
		if !ok {
			continue
		}
		if s.linesOnly && !c.Touches(d.Line) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
