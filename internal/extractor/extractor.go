package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is returned for sources tree-sitter could only parse with errors.
var ErrSyntax = errors.New("source has syntax errors")

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
	query         *sitter.Query
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "python":
		langExt = &PythonExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	query, err := sitter.NewQuery([]byte(langExt.GetQuery()), langExt.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	return &Extractor{langExtractor: langExt, langName: lang, query: query}, nil
}

// Language returns the language name the extractor was created for.
func (e *Extractor) Language() string { return e.langName }

// ExtractFromFile reads and parses a single source file and returns every call site in it.
func (e *Extractor) ExtractFromFile(ctx context.Context, filepath string) ([]*CallSite, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return e.ExtractFromSource(ctx, filepath, sourceCode)
}

// ExtractFromSource parses sourceCode and returns its call sites in source
// order, nested calls included.
func (e *Extractor) ExtractFromSource(ctx context.Context, filepath string, sourceCode []byte) ([]*CallSite, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filepath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: %w", filepath, ErrSyntax)
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(e.query, root)

	var sites []*CallSite
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			captureName := e.query.CaptureNameForId(c.Index)
			if site := e.langExtractor.ExtractSite(captureName, c.Node, sourceCode, filepath); site != nil {
				sites = append(sites, site)
			}
		}
	}
	return sites, nil
}

// ContentHash returns the hex SHA-256 of sourceCode.
func ContentHash(sourceCode []byte) string {
	sum := sha256.Sum256(sourceCode)
	return hex.EncodeToString(sum[:])
}
