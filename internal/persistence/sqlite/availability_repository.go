package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
)

// LoadAvailability returns the stored availability record for a user,
// deserialized from its JSON value.
func (s *Store) LoadAvailability(ctx context.Context, userID string) (availability.Record, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM availabilities WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return availability.Record{}, persistence.ErrNotFound
	}
	if err != nil {
		return availability.Record{}, fmt.Errorf("sqlite: load availability: %w", err)
	}

	var record availability.Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return availability.Record{}, fmt.Errorf("sqlite: decode availability record for %s: %w", userID, err)
	}
	return record, nil
}

// SaveAvailability replaces the stored record for the record's user in a
// single write and notifies subscribers on success.
func (s *Store) SaveAvailability(ctx context.Context, record availability.Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("sqlite: encode availability record for %s: %w", record.UserID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO availabilities (user_id, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		record.UserID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save availability: %w", err)
	}

	s.broadcast(record.UserID)
	return nil
}
