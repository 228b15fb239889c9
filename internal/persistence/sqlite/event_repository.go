package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

// CreateEvent inserts a new event with its attendee rows in one transaction.
func (s *Store) CreateEvent(ctx context.Context, event persistence.Event) error {
	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, title, description, start_time, end_time, location,
				event_type, status, created_by, color, priority, is_required, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID,
			event.Title,
			event.Description,
			event.Start.UTC().Format(time.RFC3339),
			event.End.UTC().Format(time.RFC3339),
			event.Location,
			event.Type,
			event.Status,
			event.CreatedBy,
			event.Color,
			event.Priority,
			boolToInt(event.IsRequired),
			event.CreatedAt.UTC().Format(time.RFC3339),
			event.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}

		return insertAttendees(ctx, tx, event)
	})
	if isUniqueViolation(err) {
		return persistence.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("sqlite: create event: %w", err)
	}
	return nil
}

func insertAttendees(ctx context.Context, tx *sql.Tx, event persistence.Event) error {
	assigned := make(map[string]bool, len(event.AssignedTo))
	for _, userID := range event.AssignedTo {
		assigned[userID] = true
	}

	seen := make(map[string]struct{}, len(event.Attendees))
	for _, userID := range event.Attendees {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_attendees (event_id, user_id, assigned) VALUES (?, ?, ?)`,
			event.ID, userID, boolToInt(assigned[userID]),
		); err != nil {
			return err
		}
	}
	return nil
}

// GetEvent retrieves an event and its attendees by id.
func (s *Store) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, location,
			event_type, status, created_by, color, priority, is_required, created_at, updated_at
		FROM events WHERE id = ?`, id)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Event{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Event{}, fmt.Errorf("sqlite: get event: %w", err)
	}

	if err := s.loadAttendees(ctx, &event); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// ListEvents returns events matching the filter ordered by start time.
func (s *Store) ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.title, e.description, e.start_time, e.end_time, e.location,
			e.event_type, e.status, e.created_by, e.color, e.priority, e.is_required, e.created_at, e.updated_at
		FROM events e`
	args := make([]any, 0, 3)
	where := make([]string, 0, 3)

	if filter.AttendeeID != "" {
		query += ` INNER JOIN event_attendees a ON a.event_id = e.id`
		where = append(where, `a.user_id = ?`)
		args = append(args, filter.AttendeeID)
	}
	if filter.StartsAfter != nil {
		where = append(where, `e.end_time >= ?`)
		args = append(args, filter.StartsAfter.UTC().Format(time.RFC3339))
	}
	if filter.EndsBefore != nil {
		where = append(where, `e.start_time <= ?`)
		args = append(args, filter.EndsBefore.UTC().Format(time.RFC3339))
	}
	for i, clause := range where {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY e.start_time ASC, e.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list events: %w", err)
	}
	defer rows.Close()

	events := make([]persistence.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list events: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list events: %w", err)
	}

	for i := range events {
		if err := s.loadAttendees(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// DeleteEvent removes an event together with its attendee rows.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: delete event: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: delete event: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: delete event attendees: %w", err)
		}
		return nil
	})
}

func (s *Store) loadAttendees(ctx context.Context, event *persistence.Event) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, assigned FROM event_attendees WHERE event_id = ? ORDER BY user_id ASC`,
		event.ID)
	if err != nil {
		return fmt.Errorf("sqlite: load attendees: %w", err)
	}
	defer rows.Close()

	event.Attendees = event.Attendees[:0]
	event.AssignedTo = event.AssignedTo[:0]
	for rows.Next() {
		var userID string
		var assigned int
		if err := rows.Scan(&userID, &assigned); err != nil {
			return fmt.Errorf("sqlite: load attendees: %w", err)
		}
		event.Attendees = append(event.Attendees, userID)
		if assigned != 0 {
			event.AssignedTo = append(event.AssignedTo, userID)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var start, end, createdAt, updatedAt string
	var isRequired int

	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &start, &end, &event.Location,
		&event.Type, &event.Status, &event.CreatedBy, &event.Color, &event.Priority,
		&isRequired, &createdAt, &updatedAt,
	)
	if err != nil {
		return persistence.Event{}, err
	}

	if event.Start, err = time.Parse(time.RFC3339, start); err != nil {
		return persistence.Event{}, err
	}
	if event.End, err = time.Parse(time.RFC3339, end); err != nil {
		return persistence.Event{}, err
	}
	if event.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Event{}, err
	}
	if event.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Event{}, err
	}
	event.IsRequired = isRequired != 0
	return event, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
