package store

import (
	"fmt"
	"time"
)

// Run statuses. Per-document outcomes are reported independently: a
// failed document never aborts its batch.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Run is one per-document processing record.
type Run struct {
	ID       int64
	Command  string // "outline" | "rank"
	Document string
	Status   string
	Detail   string // failure reason or degradation note
	Headings int
	Sections int
	Duration time.Duration
	Created  time.Time
}

// RunStore records per-document run outcomes.
type RunStore struct {
	db *DB
}

// NewRunStore creates a run store over an open database.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Record inserts one run record.
func (r *RunStore) Record(run Run) error {
	query := `
		INSERT INTO runs (command, document, status, detail, headings, sections, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.sqlDB.Exec(query,
		run.Command,
		run.Document,
		run.Status,
		run.Detail,
		run.Headings,
		run.Sections,
		run.Duration.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// Recent returns the most recent runs, newest first.
func (r *RunStore) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, command, document, status, detail, headings, sections, duration_ms, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.sqlDB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		var created string

		if err := rows.Scan(&run.ID, &run.Command, &run.Document, &run.Status,
			&run.Detail, &run.Headings, &run.Sections, &durationMS, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Created, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// CountByStatus returns run counts grouped by status.
func (r *RunStore) CountByStatus() (map[string]int64, error) {
	rows, err := r.db.sqlDB.Query("SELECT status, COUNT(*) FROM runs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}
