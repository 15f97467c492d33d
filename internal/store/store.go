package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	input_path     TEXT NOT NULL,
	output_path    TEXT,
	word_count     INTEGER NOT NULL DEFAULT 0,
	segment_count  INTEGER NOT NULL DEFAULT 0,
	diagram_count  INTEGER NOT NULL DEFAULT 0,
	status         TEXT NOT NULL,
	error          TEXT NOT NULL DEFAULT '',
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
`

// Job statuses.
const (
	StatusComplete = "complete"
	StatusError    = "error"
)

// Job is one processed narration job's history record.
type Job struct {
	ID           string
	Name         string
	InputPath    string
	OutputPath   string
	WordCount    int
	SegmentCount int
	DiagramCount int
	Status       string
	Error        string
	DurationMS   int64
	CreatedAt    time.Time
}

// Store persists job history in a local SQLite database.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and bootstraps the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// RecordJob inserts one job record. A missing ID gets a fresh UUID.
func (s *Store) RecordJob(ctx context.Context, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO jobs (id, name, input_path, output_path, word_count, segment_count, diagram_count, status, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Name, job.InputPath, job.OutputPath,
		job.WordCount, job.SegmentCount, job.DiagramCount,
		job.Status, job.Error, job.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("record job %s: %w", job.Name, err)
	}
	return nil
}

// RecentJobs returns up to limit jobs, newest first.
func (s *Store) RecentJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, name, input_path, output_path, word_count, segment_count, diagram_count, status, error, duration_ms, created_at
		FROM jobs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(
			&j.ID, &j.Name, &j.InputPath, &j.OutputPath,
			&j.WordCount, &j.SegmentCount, &j.DiagramCount,
			&j.Status, &j.Error, &j.DurationMS, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
