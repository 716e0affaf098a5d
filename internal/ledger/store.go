// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of batch runs and their per-file
// outcomes. The history is informational: it is never consulted to skip
// files on a later run.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tagprint/pkg/types"
)

// ErrRunNotFound is returned by Run for an unknown run ID.
var ErrRunNotFound = errors.New("ledger: run not found")

// timeLayout is fixed-width so started_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded batch run.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	InputDir  string    `json:"input_dir" yaml:"input_dir"`
	OutputDir string    `json:"output_dir" yaml:"output_dir"`
	WidthMM   float64   `json:"width_mm" yaml:"width_mm"`
	HeightMM  float64   `json:"height_mm" yaml:"height_mm"`
	DPI       int       `json:"dpi" yaml:"dpi"`
	DotSize   int       `json:"dot_size" yaml:"dot_size"`
	Converted int       `json:"converted" yaml:"converted"`
	Failed    int       `json:"failed" yaml:"failed"`

	// Files is only filled by Run and the exports, not by Runs.
	Files []types.FileResult `json:"files,omitempty" yaml:"files,omitempty"`
}

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating its parent
// directory and the schema if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			width_mm REAL NOT NULL,
			height_mm REAL NOT NULL,
			dpi INTEGER NOT NULL,
			dot_size INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			kind TEXT,
			error TEXT,
			format TEXT,
			width_px INTEGER,
			height_px INTEGER,
			duration_ns INTEGER,
			PRIMARY KEY (run_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores a finished batch and returns its new run ID.
func (s *Store) RecordRun(ctx context.Context, cfg types.PrintConfig, started time.Time, result types.BatchResult) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_dir, output_dir, width_mm, height_mm, dpi, dot_size, converted, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, started.UTC().Format(timeLayout), cfg.InputDir, cfg.OutputDir,
		cfg.WidthMM, cfg.HeightMM, cfg.DPI, cfg.DotSize, result.Converted, result.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, name, status, kind, error, format, width_px, height_px, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range result.Files {
		_, err := stmt.ExecContext(ctx,
			id, f.Name, string(f.Status), f.Kind, f.Error, f.Format,
			f.WidthPx, f.HeightPx, int64(f.Duration),
		)
		if err != nil {
			return "", fmt.Errorf("inserting file %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

const runColumns = `id, started_at, input_dir, output_dir, width_mm, height_mm, dpi, dot_size, converted, failed`

// Runs returns recorded runs, newest first. limit <= 0 returns all of them.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns one run with its file outcomes, ordered by name.
func (s *Store) Run(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	files, err := s.files(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Files = files
	return &r, nil
}

func (s *Store) files(ctx context.Context, runID string) ([]types.FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, kind, error, format, width_px, height_px, duration_ns
		 FROM files WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []types.FileResult
	for rows.Next() {
		var (
			f                   types.FileResult
			status              string
			kind, msg, format   sql.NullString
			width, height, nano sql.NullInt64
		)
		if err := rows.Scan(&f.Name, &status, &kind, &msg, &format, &width, &height, &nano); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		f.Status = types.FileStatus(status)
		f.Kind, f.Error, f.Format = kind.String, msg.String, format.String
		f.WidthPx, f.HeightPx = int(width.Int64), int(height.Int64)
		f.Duration = time.Duration(nano.Int64)
		files = append(files, f)
	}
	return files, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		started string
	)
	err := sc.Scan(&r.ID, &started, &r.InputDir, &r.OutputDir,
		&r.WidthMM, &r.HeightMM, &r.DPI, &r.DotSize, &r.Converted, &r.Failed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning run row: %w", err)
	}
	r.StartedAt, err = time.Parse(timeLayout, started)
	if err != nil {
		return r, fmt.Errorf("parsing started_at %q: %w", started, err)
	}
	return r, nil
}
