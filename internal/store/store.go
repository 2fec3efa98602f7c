// Package store handles SQLite persistence of game history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/termrain/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Timestamps are stored in UTC with fixed-width fractions so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for history records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reaction_results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			delay_ms INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			reaction_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS typing_rounds (
			id TEXT PRIMARY KEY,
			ended_at TEXT NOT NULL,
			target TEXT NOT NULL,
			typed TEXT NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL,
			distance INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reaction_results_ended_at ON reaction_results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_rounds_ended_at ON typing_rounds(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertReaction stores a finished reaction session.
func (s *Store) InsertReaction(ctx context.Context, rec model.ReactionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reaction_results (id, started_at, ended_at, delay_ms, outcome, reaction_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.DelayMs,
		rec.Outcome,
		rec.ReactionMs,
	)
	return err
}

// InsertTyping stores one submitted typing round.
func (s *Store) InsertTyping(ctx context.Context, rec model.TypingRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO typing_rounds (id, ended_at, target, typed, outcome, score, distance)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		formatTime(rec.EndedAt),
		rec.Target,
		rec.Typed,
		rec.Outcome,
		rec.Score,
		rec.Distance,
	)
	return err
}

// ListReactions returns reaction records filtered by stats config, oldest first.
func (s *Store) ListReactions(ctx context.Context, cfg model.StatsConfig) ([]model.ReactionRecord, error) {
	where, args := filterClause(cfg)
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, delay_ms, outcome, reaction_ms
		FROM reaction_results
		WHERE %s
		ORDER BY ended_at ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ReactionRecord
	for rows.Next() {
		var rec model.ReactionRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.DelayMs, &rec.Outcome, &rec.ReactionMs); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lastN(result, cfg.Last), nil
}

// ListTyping returns typing records filtered by stats config, oldest first.
func (s *Store) ListTyping(ctx context.Context, cfg model.StatsConfig) ([]model.TypingRecord, error) {
	where, args := filterClause(cfg)
	query := fmt.Sprintf(`SELECT id, ended_at, target, typed, outcome, score, distance
		FROM typing_rounds
		WHERE %s
		ORDER BY ended_at ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TypingRecord
	for rows.Next() {
		var rec model.TypingRecord
		var endedAt string
		if err := rows.Scan(&rec.ID, &endedAt, &rec.Target, &rec.Typed, &rec.Outcome, &rec.Score, &rec.Distance); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		rec.EndedAt = parsed
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lastN(result, cfg.Last), nil
}

func filterClause(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	return strings.Join(clauses, " AND "), args
}

func lastN[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[len(items)-n:]
	}
	return items
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
