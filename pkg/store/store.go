// Package store handles SQLite persistence of workout session history.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/formsense/formsense/pkg/plan"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Record is one completed (or abandoned) workout session.
type Record struct {
	ID                 int64
	StartedAt          time.Time
	EndedAt            time.Time
	Goal               string
	Plan               plan.WorkoutPlan
	ExercisesCompleted int
}

// Completed reports whether every exercise in the plan was finished.
func (r Record) Completed() bool {
	return r.ExercisesCompleted >= len(r.Plan.Exercises)
}

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS workout_sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			goal TEXT NOT NULL,
			plan_json TEXT NOT NULL,
			exercises_total INTEGER NOT NULL,
			exercises_completed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_workout_sessions_ended_at ON workout_sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished session and returns its id.
func (s *Store) InsertSession(ctx context.Context, r Record) (int64, error) {
	planJSON, err := json.Marshal(r.Plan)
	if err != nil {
		return 0, fmt.Errorf("encode plan: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workout_sessions (started_at, ended_at, goal, plan_json, exercises_total, exercises_completed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.StartedAt.Format(time.RFC3339Nano),
		r.EndedAt.Format(time.RFC3339Nano),
		r.Goal,
		string(planJSON),
		len(r.Plan.Exercises),
		r.ExercisesCompleted,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRecent returns the most recently ended sessions, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, goal, plan_json, exercises_completed
		 FROM workout_sessions ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                  Record
			startedAt, endedAt string
			planJSON           string
		)
		if err := rows.Scan(&r.ID, &startedAt, &endedAt, &r.Goal, &planJSON, &r.ExercisesCompleted); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("session %d: bad started_at: %w", r.ID, err)
		}
		if r.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, fmt.Errorf("session %d: bad ended_at: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(planJSON), &r.Plan); err != nil {
			return nil, fmt.Errorf("session %d: bad plan payload: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
