// Package memory provides an in-memory persistence implementation used by
// tests and by deployments that do not need durable storage.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
)

// Store keeps every repository in process memory behind one lock.
type Store struct {
	mu            sync.RWMutex
	availability  map[string]availability.Record
	events        map[string]persistence.Event
	notifications map[string]persistence.Notification
	users         map[string]persistence.User

	subMu       sync.Mutex
	subscribers map[int]func(userID string)
	nextSubID   int
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		availability:  make(map[string]availability.Record),
		events:        make(map[string]persistence.Event),
		notifications: make(map[string]persistence.Notification),
		users:         make(map[string]persistence.User),
		subscribers:   make(map[int]func(userID string)),
	}
}

// Close releases resources held by the store. No-op for the in-memory
// implementation.
func (s *Store) Close() error {
	return nil
}

// --- AvailabilityRepository implementation ---

// LoadAvailability returns the stored record for a user.
func (s *Store) LoadAvailability(ctx context.Context, userID string) (availability.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.availability[userID]
	if !ok {
		return availability.Record{}, persistence.ErrNotFound
	}
	return record.Clone(), nil
}

// SaveAvailability replaces the stored record for the record's user and
// notifies subscribers.
func (s *Store) SaveAvailability(ctx context.Context, record availability.Record) error {
	s.mu.Lock()
	s.availability[record.UserID] = record.Clone()
	s.mu.Unlock()

	s.broadcast(record.UserID)
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

// --- EventRepository implementation ---

// CreateEvent stores a new event.
func (s *Store) CreateEvent(ctx context.Context, event persistence.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.events[event.ID] = cloneEvent(event)
	return nil
}

// GetEvent retrieves an event by id.
func (s *Store) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return persistence.Event{}, persistence.ErrNotFound
	}
	return cloneEvent(event), nil
}

// ListEvents returns events matching the filter ordered by start time.
func (s *Store) ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]persistence.Event, 0, len(s.events))
	for _, event := range s.events {
		if !matchesFilter(event, filter) {
			continue
		}
		events = append(events, cloneEvent(event))
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})

	return events, nil
}

// DeleteEvent removes an event by id.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func matchesFilter(event persistence.Event, filter persistence.EventFilter) bool {
	if filter.AttendeeID != "" {
		found := false
		for _, attendee := range event.Attendees {
			if attendee == filter.AttendeeID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.StartsAfter != nil && event.End.Before(*filter.StartsAfter) {
		return false
	}
	if filter.EndsBefore != nil && event.Start.After(*filter.EndsBefore) {
		return false
	}
	return true
}

// --- NotificationRepository implementation ---

// CreateNotification stores a new notification.
func (s *Store) CreateNotification(ctx context.Context, notification persistence.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[notification.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.notifications[notification.ID] = notification
	return nil
}

// ListNotificationsForUser returns a user's notifications newest first.
func (s *Store) ListNotificationsForUser(ctx context.Context, userID string) ([]persistence.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]persistence.Notification, 0)
	for _, notification := range s.notifications {
		if notification.UserID == userID {
			notifications = append(notifications, notification)
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].CreatedAt.Equal(notifications[j].CreatedAt) {
			return notifications[i].ID < notifications[j].ID
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

// --- UserRepository implementation ---

// CreateUser stores a new directory entry.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range s.users {
		if user.Email != "" && existing.Email == user.Email {
			return persistence.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

// GetUser retrieves a directory entry by id.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// ListUsers returns all directory entries ordered by display name.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName == users[j].DisplayName {
			return users[i].ID < users[j].ID
		}
		return users[i].DisplayName < users[j].DisplayName
	})

	return users, nil
}

// DeleteUser removes a directory entry.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func cloneEvent(event persistence.Event) persistence.Event {
	out := event
	out.Attendees = append([]string(nil), event.Attendees...)
	out.AssignedTo = append([]string(nil), event.AssignedTo...)
	return out
}
