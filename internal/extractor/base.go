package extractor

import (
	"promnamelint/internal/pyast"

	sitter "github.com/smacker/go-tree-sitter"
)

// CallSite is one call expression found in a source file.
type CallSite struct {
	Filepath string     `json:"filepath"`
	Line     int        `json:"line"`
	Column   int        `json:"column"`
	Callee   string     `json:"callee"`
	Expr     pyast.Expr `json:"-"`
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	ExtractSite(captureName string, node *sitter.Node, sourceCode []byte, filepath string) *CallSite
}
