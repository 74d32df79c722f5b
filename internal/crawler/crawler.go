package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnored are directory names never descended into.
var DefaultIgnored = []string{
	".git", "__pycache__", "venv", ".venv", "env", "node_modules", "vendor",
	"build", "dist", ".tox", ".eggs", "site-packages", ".mypy_cache", ".pytest_cache",
}

// Crawler scans directories for Python source files.
type Crawler struct {
	ignored []string
	exclude []string
}

// NewCrawler creates a new crawler instance. exclude holds doublestar
// patterns matched against slash-separated paths relative to the scan root.
func NewCrawler(exclude []string) (*Crawler, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &Crawler{
		ignored: DefaultIgnored,
		exclude: exclude,
	}, nil
}

// Scan visits every Python file below roots. A root naming a file is visited
// as-is, whatever its name. Errors from onFile stop the scan.
func (c *Crawler) Scan(ctx context.Context, roots []string, onFile func(path string) error) error {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if err := onFile(root); err != nil {
				return err
			}
			continue
		}
		if err := c.ScanProject(ctx, root, onFile); err != nil {
			return err
		}
	}
	return nil
}

// ScanProject walks the root directory and streams Python file paths to onFile.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (c.SkipDir(d.Name()) || c.Excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".py") || c.Excluded(rel) {
			return nil
		}
		return onFile(path)
	})
}

// SkipDir reports whether a directory with this base name is never scanned.
func (c *Crawler) SkipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

// Excluded reports whether a slash-separated relative path matches an exclude pattern.
func (c *Crawler) Excluded(rel string) bool {
	for _, pattern := range c.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
