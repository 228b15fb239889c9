// Package testfixtures provides deterministic clocks, identifier generators
// and record builders shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
)

var (
	userCounter  uint64
	eventCounter uint64
	slotCounter  uint64
)

var referenceTime = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// WithUserID overrides the generated user id.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) { u.ID = id }
}

// WithRole sets the user's role.
func WithRole(role string) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// NewUser returns a deterministic team member with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:          id,
		Email:       fmt.Sprintf("%s@studio.example", id),
		DisplayName: fmt.Sprintf("User %03d", idx),
		Role:        "artist",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// ------------------------- Availability fixtures --------------------------

// RecordOption configures a generated availability record.
type RecordOption func(*availability.Record)

// WithUnavailableDay marks one date unavailable with the default hours.
func WithUnavailableDay(date string) RecordOption {
	return func(r *availability.Record) {
		r.Dates = append(r.Dates, availability.DateAvailability{
			Date:      date,
			Available: false,
			StartTime: r.DefaultStartTime,
			EndTime:   r.DefaultEndTime,
		})
	}
}

// WithSlot appends an unavailable slot with a generated id.
func WithSlot(date, startTime, endTime, title string, rule *availability.RecurrenceRule) RecordOption {
	return func(r *availability.Record) {
		idx := atomic.AddUint64(&slotCounter, 1)
		r.UnavailableSlots = append(r.UnavailableSlots, availability.UnavailableSlot{
			ID:        fmt.Sprintf("slot_%03d", idx),
			Date:      date,
			StartTime: startTime,
			EndTime:   endTime,
			Title:     title,
			Recurring: rule,
		})
	}
}

// NewAvailabilityRecord returns a default record for the user with optional
// overrides applied.
func NewAvailabilityRecord(userID string, opts ...RecordOption) availability.Record {
	record := availability.NewRecord(userID)
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// ---------------------------- Event fixtures ------------------------------

// EventOption configures a generated calendar event.
type EventOption func(*persistence.Event)

// WithAttendees sets attendees and keeps assignedTo in sync.
func WithAttendees(ids ...string) EventOption {
	return func(e *persistence.Event) {
		e.Attendees = append([]string(nil), ids...)
		e.AssignedTo = append([]string(nil), ids...)
	}
}

// WithWindow sets the event's start and end.
func WithWindow(start, end time.Time) EventOption {
	return func(e *persistence.Event) {
		e.Start = start
		e.End = end
	}
}

// NewEvent returns a deterministic confirmed meeting with optional overrides.
func NewEvent(opts ...EventOption) persistence.Event {
	idx := atomic.AddUint64(&eventCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	event := persistence.Event{
		ID:         fmt.Sprintf("event-%03d", idx),
		Title:      fmt.Sprintf("Meeting %03d", idx),
		Start:      created.Add(24 * time.Hour),
		End:        created.Add(25 * time.Hour),
		Type:       "meeting",
		Status:     "confirmed",
		CreatedBy:  "user-001",
		Attendees:  []string{"user-001"},
		AssignedTo: []string{"user-001"},
		Priority:   "medium",
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}
