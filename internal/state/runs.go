package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/knowbite/pkg/models"
)

// RunStore handles run history persistence.
type RunStore interface {
	CreateRun(r *models.Run) error
	FinishRun(id string, outcome models.RunOutcome, lastPercent int, location, errMsg string) error
	GetRun(id string) (*models.Run, error)
	ListRuns(limit int) ([]models.Run, error)
}

var _ RunStore = (*DB)(nil)

const runColumns = `id, mode, file_type, source, started_at, finished_at, last_percent, outcome, location, error`

// CreateRun inserts a pending run. An empty ID is filled with a new UUID and
// a zero StartedAt with the current time.
func (db *DB) CreateRun(r *models.Run) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	if r.Outcome == "" {
		r.Outcome = models.RunOutcomePending
	}

	_, err := db.Exec(`
		INSERT INTO runs (id, mode, file_type, source, started_at, last_percent, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Mode, string(r.FileType), r.Source, formatTime(r.StartedAt), r.LastPercent, string(r.Outcome))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun records the end of a pending run. A run finishes at most once.
func (db *DB) FinishRun(id string, outcome models.RunOutcome, lastPercent int, location, errMsg string) error {
	if !outcome.Terminal() {
		return fmt.Errorf("finish run %s: outcome %q is not terminal", id, outcome)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRow("SELECT outcome FROM runs WHERE id = ?", id).Scan(&current)
		if err == sql.ErrNoRows {
			return fmt.Errorf("finish run: no run with id %s", id)
		}
		if err != nil {
			return fmt.Errorf("finish run: %w", err)
		}
		if models.RunOutcome(current).Terminal() {
			return fmt.Errorf("finish run %s: already %s", id, current)
		}

		_, err = tx.Exec(`
			UPDATE runs SET finished_at = ?, outcome = ?, last_percent = ?, location = ?, error = ?
			WHERE id = ?
		`, formatTime(time.Now()), string(outcome), lastPercent, nullString(location), nullString(errMsg), id)
		if err != nil {
			return fmt.Errorf("finish run: %w", err)
		}
		return nil
	})
}

// GetRun retrieves a run by ID. Returns nil, nil if it does not exist.
func (db *DB) GetRun(id string) (*models.Run, error) {
	row := db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns lists the most recent runs first. limit <= 0 returns all runs.
func (db *DB) ListRuns(limit int) ([]models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var r models.Run
	var fileType, outcome, startedAt string
	var finishedAt, location, errMsg sql.NullString

	if err := s.Scan(&r.ID, &r.Mode, &fileType, &r.Source, &startedAt, &finishedAt,
		&r.LastPercent, &outcome, &location, &errMsg); err != nil {
		return nil, err
	}

	r.FileType = models.FileType(fileType)
	r.Outcome = models.RunOutcome(outcome)
	r.StartedAt, _ = parseTime(startedAt)
	r.FinishedAt = parseNullableTime(finishedAt)
	r.Location = location.String
	r.Error = errMsg.String
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
