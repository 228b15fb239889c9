// Package sqlite persists the scheduler's data in a SQLite database using the
// pure-Go modernc.org/sqlite driver. Availability records are stored as one
// JSON value per user; events, notifications, and the team directory use
// regular tables.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database handle shared by every repository.
type Store struct {
	db *sql.DB

	subMu       sync.Mutex
	subscribers map[int]func(userID string)
	nextSubID   int
}

// Open connects to the database identified by dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	// SQLite handles a single writer; more connections only add lock errors.
	db.SetMaxOpenConns(1)

	return &Store{
		db:          db,
		subscribers: make(map[int]func(userID string)),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS availabilities (
		user_id    TEXT PRIMARY KEY,
		record     TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		event_type  TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_by  TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		priority    TEXT NOT NULL DEFAULT '',
		is_required INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_start ON events (start_time)`,
	`CREATE TABLE IF NOT EXISTS event_attendees (
		event_id TEXT NOT NULL,
		user_id  TEXT NOT NULL,
		assigned INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (event_id, user_id),
		FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_event_attendees_user ON event_attendees (user_id)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		event_id   TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL DEFAULT '',
		read       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id)`,
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		email        TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		role         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
}

// Migrate applies the schema. Statements are idempotent, so repeated startup
// runs are safe.
func (s *Store) Migrate(ctx context.Context) error {
	for _, statement := range migrations {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

// withTransaction executes fn inside a transaction, rolling back on error.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Subscribe registers a change listener for availability saves.
func (s *Store) Subscribe(fn func(userID string)) func() {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) broadcast(userID string) {
	s.subMu.Lock()
	listeners := make([]func(string), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(userID)
	}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
