package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one successful build.
type Run struct {
	Seq         int64         `json:"seq"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ImagePath   string        `json:"image_path"`
	MetaPath    string        `json:"meta_path,omitempty"` // empty when the descriptor was disabled
	FrameCount  int           `json:"frame_count"`
	FrameWidth  int           `json:"frame_width"`
	FrameHeight int           `json:"frame_height"`
	FrameTime   uint16        `json:"frame_time"`
	Fingerprint string        `json:"fingerprint"`
	CreatedAt   time.Time     `json:"created_at"`
	Inputs      []InputDigest `json:"inputs,omitempty"`
}

// NewRunID returns a time-ordered UUIDv7 run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun inserts a run and its inputs in one transaction. An empty ID is
// replaced with NewRunID and a zero CreatedAt with the store's clock; the
// stored values are returned.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, image_path, meta_path, frame_count, frame_width, frame_height, frame_time, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Name,
		run.ImagePath,
		run.MetaPath,
		run.FrameCount,
		run.FrameWidth,
		run.FrameHeight,
		run.FrameTime,
		run.Fingerprint,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	if run.Seq, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	for i, in := range run.Inputs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_inputs (run_id, position, path, sha256)
			VALUES (?, ?, ?, ?)
		`, run.ID, i, in.Path, in.SHA256)
		if err != nil {
			return Run{}, fmt.Errorf("record run input %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

const runColumns = `seq, id, name, image_path, meta_path, frame_count, frame_width, frame_height, frame_time, fingerprint, created_at`

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
// Inputs are not loaded; use ReadRun for a single run's inputs.
//
// Returns an empty slice (not nil) when the history is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given ID, inputs included.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		return Run{}, err
	}
	run.Inputs, err = s.readInputs(ctx, run.ID)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// LatestRunForOutput returns the most recent run that wrote imagePath.
// Returns sql.ErrNoRows if the image was never built.
func (s *Store) LatestRunForOutput(ctx context.Context, imagePath string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE image_path = ?
		ORDER BY seq DESC
		LIMIT 1
	`, imagePath)
	return scanRun(row)
}

func (s *Store) readInputs(ctx context.Context, runID string) ([]InputDigest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, sha256
		FROM run_inputs
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run inputs: %w", err)
	}
	defer rows.Close()

	inputs := []InputDigest{}
	for rows.Next() {
		var in InputDigest
		if err := rows.Scan(&in.Path, &in.SHA256); err != nil {
			return nil, fmt.Errorf("scan run input: %w", err)
		}
		inputs = append(inputs, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run inputs: %w", err)
	}
	return inputs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		createdAt string
	)
	err := row.Scan(
		&run.Seq,
		&run.ID,
		&run.Name,
		&run.ImagePath,
		&run.MetaPath,
		&run.FrameCount,
		&run.FrameWidth,
		&run.FrameHeight,
		&run.FrameTime,
		&run.Fingerprint,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("scan run %s: created_at: %w", run.ID, err)
	}
	return run, nil
}
