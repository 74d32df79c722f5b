package storage

import (
	"context"

	"promnamelint/internal/report"
)

// CachedResult is the stored outcome of checking one file.
type CachedResult struct {
	Path        string
	ContentHash string
	Fingerprint string
	Diagnostics []report.Diagnostic
}

// ResultStore caches per-file diagnostics so unchanged files are not re-parsed.
type ResultStore interface {
	// Lookup returns the cached diagnostics for path when both the content
	// hash and the configuration fingerprint match. ok is false on a miss.
	Lookup(ctx context.Context, path, contentHash, fingerprint string) (diags []report.Diagnostic, ok bool, err error)

	// Save upserts the result for a file.
	Save(ctx context.Context, result CachedResult) error

	// Prune removes every entry whose path is not in keep.
	Prune(ctx context.Context, keep []string) (int64, error)

	Close() error
}
