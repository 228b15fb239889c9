package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

// CreateNotification stores a new notification row.
func (s *Store) CreateNotification(ctx context.Context, notification persistence.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, event_id, title, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.ID,
		notification.UserID,
		notification.EventID,
		notification.Title,
		notification.Message,
		boolToInt(notification.Read),
		notification.CreatedAt.UTC().Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return persistence.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("sqlite: create notification: %w", err)
	}
	return nil
}

// ListNotificationsForUser returns a user's notifications newest first.
func (s *Store) ListNotificationsForUser(ctx context.Context, userID string) ([]persistence.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, title, message, read, created_at
		FROM notifications WHERE user_id = ?
		ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]persistence.Notification, 0)
	for rows.Next() {
		var notification persistence.Notification
		var read int
		var createdAt string
		if err := rows.Scan(
			&notification.ID, &notification.UserID, &notification.EventID,
			&notification.Title, &notification.Message, &read, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: list notifications: %w", err)
		}
		notification.Read = read != 0
		if notification.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: list notifications: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}
