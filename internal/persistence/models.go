package persistence

import "time"

// User is a team member entry in the directory.
type User struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Event is a persisted calendar event. Attendees and AssignedTo are kept in
// sync on create for compatibility with older consumers that read either
// field.
type Event struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
	Type        string
	Status      string
	CreatedBy   string
	Attendees   []string
	AssignedTo  []string
	Color       string
	Priority    string
	IsRequired  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventFilter narrows event queries.
type EventFilter struct {
	AttendeeID  string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// Notification is a per-user side record emitted when meetings are scheduled.
type Notification struct {
	ID        string
	UserID    string
	EventID   string
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
