package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"promnamelint/internal/report"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ ResultStore = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS file_results (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			diagnostics JSON NOT NULL,
			checked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_file_results_hash ON file_results(content_hash);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, path, contentHash, fingerprint string) ([]report.Diagnostic, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT diagnostics FROM file_results WHERE path = ? AND content_hash = ? AND fingerprint = ?",
		path, contentHash, fingerprint)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query result for %s: %w", path, err)
	}

	var diags []report.Diagnostic
	if err := json.Unmarshal(raw, &diags); err != nil {
		// A corrupt entry is a miss; the next Save overwrites it.
		return nil, false, nil
	}
	return diags, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, result CachedResult) error {
	diags := result.Diagnostics
	if diags == nil {
		diags = []report.Diagnostic{}
	}
	raw, err := json.Marshal(diags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO file_results (path, content_hash, fingerprint, diagnostics, checked_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash,
			fingerprint=excluded.fingerprint,
			diagnostics=excluded.diagnostics,
			checked_at=excluded.checked_at
	`, result.Path, result.ContentHash, result.Fingerprint, raw)
	if err != nil {
		return fmt.Errorf("failed to save result for %s: %w", result.Path, err)
	}
	return nil
}

func (s *SQLiteStore) Prune(ctx context.Context, keep []string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS keep_paths (path TEXT PRIMARY KEY)`); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM keep_paths`); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO keep_paths (path) VALUES (?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, p := range keep {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return 0, err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM file_results WHERE path NOT IN (SELECT path FROM keep_paths)`)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return removed, tx.Commit()
}
