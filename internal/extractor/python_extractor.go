package extractor

import (
	"promnamelint/internal/pyast"

	sitter "github.com/smacker/go-tree-sitter"
)

// PythonExtractor implements LanguageExtractor for Python.
type PythonExtractor struct{}

func (p *PythonExtractor) GetLanguage() *sitter.Language {
	return pyast.Language()
}

func (p *PythonExtractor) GetQuery() string {
	return `(call) @call`
}

func (p *PythonExtractor) ExtractSite(captureName string, node *sitter.Node, sourceCode []byte, filepath string) *CallSite {
	if captureName != "call" {
		return nil
	}
	expr := pyast.FromNode(node, sourceCode)
	pos := expr.Pos()

	site := &CallSite{
		Filepath: filepath,
		Line:     pos.Line,
		Column:   pos.Column,
		Expr:     expr,
	}
	if fn := node.ChildByFieldName("function"); fn != nil {
		site.Callee = fn.Content(sourceCode)
	}
	return site
}
