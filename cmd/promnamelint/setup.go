package main

import (
	"context"
	"fmt"
	"log/slog"

	"promnamelint/internal/checker"
	"promnamelint/internal/config"
	"promnamelint/internal/crawler"
	"promnamelint/internal/extractor"
	"promnamelint/internal/git"
	"promnamelint/internal/instrument"
	"promnamelint/internal/lint"
	"promnamelint/internal/storage"
	"promnamelint/internal/telemetry"

	"github.com/google/uuid"
)

// Overrides shared by check and watch.
var (
	prefixFlags []string
	formatFlag  string
	cacheFlag   string
)

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(prefixFlags) > 0 {
		cfg.Prefixes = prefixFlags
	}
	if formatFlag != "" {
		cfg.Format = formatFlag
	}
	if cacheFlag != "" {
		cfg.Cache.Path = cacheFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newChecker builds the checker with a single inert registry for the process.
func newChecker(cfg *config.Config) (*checker.Checker, error) {
	mapping, err := cfg.ConstructorMapping()
	if err != nil {
		return nil, err
	}
	return checker.New(mapping, cfg.PrefixAllowList(), instrument.NewInertRegistry()), nil
}

type session struct {
	cfg      *config.Config
	runner   *lint.Runner
	crawler  *crawler.Crawler
	recorder *telemetry.Recorder
	store    *storage.SQLiteStore
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

type sessionOptions struct {
	diffRef          string
	changedLinesOnly bool
	pruneCache       bool
}

func newSession(ctx context.Context, cfg *config.Config, opts sessionOptions) (*session, error) {
	chk, err := newChecker(cfg)
	if err != nil {
		return nil, err
	}
	ext, err := extractor.NewExtractor("python")
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}
	cr, err := crawler.NewCrawler(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, crawler: cr, recorder: telemetry.NewRecorder(nil)}
	// Every log line of one invocation carries the same run id.
	logger := slog.Default().With("run", uuid.NewString())
	runOpts := lint.Options{
		Checker:     chk,
		Extractor:   ext,
		Crawler:     cr,
		Fingerprint: cfg.Fingerprint(),
		PruneCache:  opts.pruneCache,
		Recorder:    s.recorder,
		Logger:      logger,
	}

	if cfg.Cache.Path != "" {
		store, err := storage.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		s.store = store
		runOpts.Store = store
	}

	if opts.diffRef != "" {
		changes, err := git.GetChangedFiles(ctx, ".", opts.diffRef)
		if err != nil {
			s.Close()
			return nil, err
		}
		logger.Debug("Restricting check to changed files", "ref", opts.diffRef, "files", len(changes))
		runOpts.Scope = lint.NewScope(changes, opts.changedLinesOnly)
	}

	if s.runner, err = lint.NewRunner(runOpts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func rootsOrDefault(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
