// Package application orchestrates validation, persistence and notification
// for availability, meeting and calendar operations.
package application

import (
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

// EventType classifies a calendar event.
type EventType string

// EventStatus tracks the lifecycle of a calendar event.
type EventStatus string

// Priority ranks a calendar event for display.
type Priority string

const (
	EventTypeMeeting EventType = "meeting"
	EventTypeOther   EventType = "other"

	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusPending   EventStatus = "pending"
	EventStatusCancelled EventStatus = "cancelled"

	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// CalendarEvent is the application-level view of a persisted event.
// Attendees and AssignedTo are maintained together on create for backward
// compatibility with older consumers that read either field.
type CalendarEvent struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Location    string      `json:"location,omitempty"`
	Type        EventType   `json:"type"`
	Status      EventStatus `json:"status"`
	CreatedBy   string      `json:"createdBy"`
	Attendees   []string    `json:"attendees"`
	AssignedTo  []string    `json:"assignedTo"`
	Color       string      `json:"color,omitempty"`
	Priority    Priority    `json:"priority"`
	IsRequired  bool        `json:"isRequired"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MeetingInput carries the fields a caller supplies when scheduling a meeting.
type MeetingInput struct {
	OrganizerID string    `json:"organizerId"`
	Invitees    []string  `json:"invitees"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location"`
	Priority    Priority  `json:"priority"`
	IsRequired  bool      `json:"isRequired"`
}

// FeedSourceEvent marks feed items backed by a persisted calendar event, and
// FeedSourceAvailability marks pseudo-events projected from availability data.
const (
	FeedSourceEvent        = "event"
	FeedSourceAvailability = "availability"
)

// CalendarFeedItem is one entry in the merged calendar feed. Projected items
// carry availability-derived pseudo-events that are never persisted.
type CalendarFeedItem struct {
	CalendarEvent
	Projected bool   `json:"projected"`
	Source    string `json:"source"`
}

func toPersistenceEvent(event CalendarEvent) persistence.Event {
	return persistence.Event{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Start:       event.Start,
		End:         event.End,
		Location:    event.Location,
		Type:        string(event.Type),
		Status:      string(event.Status),
		CreatedBy:   event.CreatedBy,
		Attendees:   append([]string(nil), event.Attendees...),
		AssignedTo:  append([]string(nil), event.AssignedTo...),
		Color:       event.Color,
		Priority:    string(event.Priority),
		IsRequired:  event.IsRequired,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func fromPersistenceEvent(event persistence.Event) CalendarEvent {
	return CalendarEvent{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Start:       event.Start,
		End:         event.End,
		Location:    event.Location,
		Type:        EventType(event.Type),
		Status:      EventStatus(event.Status),
		CreatedBy:   event.CreatedBy,
		Attendees:   append([]string(nil), event.Attendees...),
		AssignedTo:  append([]string(nil), event.AssignedTo...),
		Color:       event.Color,
		Priority:    Priority(event.Priority),
		IsRequired:  event.IsRequired,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}
