// Package lint drives the metric-name check over Python source files.
package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"promnamelint/internal/checker"
	"promnamelint/internal/crawler"
	"promnamelint/internal/extractor"
	"promnamelint/internal/report"
	"promnamelint/internal/storage"
	"promnamelint/internal/telemetry"
)

// File results recorded in telemetry.
const (
	fileChecked = "checked"
	fileCached  = "cached"
	fileSkipped = "skipped"
)

// Options wires a Runner. Checker, Extractor and Crawler are required.
type Options struct {
	Checker   *checker.Checker
	Extractor *extractor.Extractor
	Crawler   *crawler.Crawler

	// Store and Fingerprint enable the result cache.
	Store       storage.ResultStore
	Fingerprint string
	// PruneCache drops cache entries for files not visited by Run.
	PruneCache bool

	// Scope limits Run to changed files, when set.
	Scope *Scope

	Recorder *telemetry.Recorder
	Logger   *slog.Logger
}

// Runner checks files and collects diagnostics.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// Result is the outcome of Run.
type Result struct {
	Diagnostics []report.Diagnostic
	Summary     report.Summary
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path        string
	Diagnostics []report.Diagnostic
	Cached      bool
	Skipped     bool
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Checker == nil || opts.Extractor == nil || opts.Crawler == nil {
		return nil, errors.New("lint: checker, extractor and crawler are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, logger: logger}, nil
}

// Run checks every Python file below roots. With a Scope, only the files in
// the scope are checked, and roots is ignored.
func (r *Runner) Run(ctx context.Context, roots []string) (*Result, error) {
	if r.opts.Scope != nil {
		roots = r.opts.Scope.Paths()
	}

	res := &Result{}
	var visited []string
	err := r.opts.Crawler.Scan(ctx, roots, func(path string) error {
		fr, err := r.CheckFile(ctx, path)
		if err != nil {
			return err
		}
		visited = append(visited, fr.Path)
		if fr.Skipped {
			return nil
		}
		res.Summary.Files++
		if fr.Cached {
			res.Summary.CachedFiles++
		}
		res.Diagnostics = append(res.Diagnostics, fr.Diagnostics...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.opts.Scope != nil {
		res.Diagnostics = r.opts.Scope.Filter(res.Diagnostics)
	}
	report.Sort(res.Diagnostics)
	res.Summary.Violations = len(res.Diagnostics)

	if r.opts.PruneCache && r.opts.Store != nil {
		removed, err := r.opts.Store.Prune(ctx, visited)
		if err != nil {
			r.logger.Warn("Failed to prune result cache", "error", err)
		} else if removed > 0 {
			r.logger.Debug("Pruned result cache", "removed", removed)
		}
	}
	return res, nil
}

// CheckFile reads and checks one file. Unreadable or unparseable files are
// logged and reported as skipped; only checker defects are returned as errors.
func (r *Runner) CheckFile(ctx context.Context, path string) (FileResult, error) {
	path = filepath.Clean(path)
	fr := FileResult{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("Skipping unreadable file", "path", path, "error", err)
		r.opts.Recorder.IncFile(fileSkipped)
		fr.Skipped = true
		return fr, nil
	}

	hash := extractor.ContentHash(src)
	if diags, ok := r.lookup(ctx, path, hash); ok {
		r.opts.Recorder.IncFile(fileCached)
		fr.Diagnostics = diags
		fr.Cached = true
		return fr, nil
	}

	start := time.Now()
	diags, err := r.CheckSource(ctx, path, src)
	if err != nil {
		if errors.Is(err, extractor.ErrSyntax) {
			r.logger.Warn("Skipping file with syntax errors", "path", path)
			r.opts.Recorder.IncFile(fileSkipped)
			fr.Skipped = true
			return fr, nil
		}
		return fr, err
	}
	r.opts.Recorder.ObserveCheckDuration(time.Since(start))
	r.opts.Recorder.IncFile(fileChecked)

	r.save(ctx, storage.CachedResult{Path: path, ContentHash: hash, Fingerprint: r.opts.Fingerprint, Diagnostics: diags})
	fr.Diagnostics = diags
	return fr, nil
}

// CheckSource checks src as the contents of path.
func (r *Runner) CheckSource(ctx context.Context, path string, src []byte) ([]report.Diagnostic, error) {
	sites, err := r.opts.Extractor.ExtractFromSource(ctx, path, src)
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(src, []byte("\n"))
	var diags []report.Diagnostic
	for _, site := range sites {
		res, err := r.opts.Checker.Inspect(site.Expr)
		if err != nil {
			return nil, fmt.Errorf("%s:%d:%d: %w", path, site.Line, site.Column, err)
		}
		r.opts.Recorder.IncCall(res.Outcome.String())

		switch res.Outcome {
		case checker.OutcomeRejected:
			r.logger.Debug("Constructor call not reducible",
				"path", path, "line", site.Line, "callee", site.Callee, "reason", res.Rejection)
			continue
		case checker.OutcomeViolation:
		default:
			continue
		}

		v := res.Violation
		if v.Position.Line-1 < len(lines) && report.Suppressed(string(lines[v.Position.Line-1]), report.Code) {
			r.logger.Debug("Violation suppressed by noqa", "path", path, "line", v.Position.Line, "metric", v.Name)
			continue
		}
		diags = append(diags, report.FromViolation(path, v, r.opts.Checker.Prefixes()))
	}
	return diags, nil
}

func (r *Runner) lookup(ctx context.Context, path, hash string) ([]report.Diagnostic, bool) {
	if r.opts.Store == nil {
		return nil, false
	}
	diags, ok, err := r.opts.Store.Lookup(ctx, path, hash, r.opts.Fingerprint)
	switch {
	case err != nil:
		r.logger.Warn("Result cache lookup failed", "path", path, "error", err)
		r.opts.Recorder.IncCacheLookup("error")
		return nil, false
	case ok:
		r.opts.Recorder.IncCacheLookup("hit")
		return diags, true
	default:
		r.opts.Recorder.IncCacheLookup("miss")
		return nil, false
	}
}

func (r *Runner) save(ctx context.Context, result storage.CachedResult) {
	if r.opts.Store == nil {
		return
	}
	if err := r.opts.Store.Save(ctx, result); err != nil {
		r.logger.Warn("Failed to cache result", "path", result.Path, "error", err)
	}
}
