package persistence

import (
	"context"

	"github.com/example/studio-scheduler/internal/availability"
)

// AvailabilityRepository stores one availability record per user as an opaque
// value: reads return the whole record, writes replace it in a single call.
// LoadAvailability returns ErrNotFound when no record exists; callers
// substitute the default record rather than treating absence as a failure.
type AvailabilityRepository interface {
	LoadAvailability(ctx context.Context, userID string) (availability.Record, error)
	SaveAvailability(ctx context.Context, record availability.Record) error
	// Subscribe registers a change listener invoked with the user id after
	// each successful save. Delivery is best-effort and unordered. The
	// returned function removes the listener.
	Subscribe(fn func(userID string)) (unsubscribe func())
}

// EventRepository stores calendar events.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// NotificationRepository stores meeting notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification Notification) error
	ListNotificationsForUser(ctx context.Context, userID string) ([]Notification, error)
}

// UserRepository exposes the team directory.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}
