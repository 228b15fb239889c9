// Package scheduler detects conflicts between a proposed meeting window and
// the invitees' availability calendars and existing events. Detection is pure:
// callers supply every record and event involved.
package scheduler

import (
	"time"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/recurrence"
)

// Event is the slice of a calendar event that conflict detection needs.
type Event struct {
	ID        string
	Title     string
	Attendees []string
	Start     time.Time
	End       time.Time
}

// ConflictType describes why a proposed window clashes for an invitee.
type ConflictType string

const (
	// ConflictUnavailableDay marks a date the invitee is not available at all.
	ConflictUnavailableDay ConflictType = "unavailable_day"
	// ConflictUnavailableSlot marks an overlapping blocked time slot,
	// including recurring instances landing on the date.
	ConflictUnavailableSlot ConflictType = "unavailable_slot"
	// ConflictEvent marks an overlapping existing calendar event.
	ConflictEvent ConflictType = "event"
)

// Conflict identifies one clash for one invitee.
type Conflict struct {
	UserID  string
	Type    ConflictType
	Date    string
	SlotID  string
	EventID string
	Title   string
}

// DetectConflicts evaluates the [start, end) window against each invitee's
// availability record and the supplied events. Invitees without a record are
// treated as holding the default record. The scheduler itself never rejects on
// conflicts; callers opt into this check.
func DetectConflicts(records map[string]availability.Record, events []Event, inviteeIDs []string, start, end time.Time) ([]Conflict, error) {
	if !end.After(start) || len(inviteeIDs) == 0 {
		return nil, nil
	}

	conflicts := make([]Conflict, 0)

	for _, userID := range inviteeIDs {
		record, ok := records[userID]
		if !ok {
			record = availability.NewRecord(userID)
		}

		dayConflicts, err := detectDayConflicts(record, userID, start, end)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, dayConflicts...)

		for _, event := range events {
			if !attends(event, userID) {
				continue
			}
			if event.Start.Before(end) && start.Before(event.End) {
				conflicts = append(conflicts, Conflict{
					UserID:  userID,
					Type:    ConflictEvent,
					Date:    availability.FormatDate(event.Start.UTC()),
					EventID: event.ID,
					Title:   event.Title,
				})
			}
		}
	}

	if len(conflicts) == 0 {
		return nil, nil
	}
	return conflicts, nil
}

func detectDayConflicts(record availability.Record, userID string, start, end time.Time) ([]Conflict, error) {
	var conflicts []Conflict

	startDay := start.UTC().Truncate(24 * time.Hour)
	endDay := end.UTC().Truncate(24 * time.Hour)

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		date := availability.FormatDate(day)
		windowStart, windowEnd, ok := clampToDate(start.UTC(), end.UTC(), day)
		if !ok {
			continue
		}

		available, err := availability.IsDayAvailable(record, date)
		if err != nil {
			return nil, err
		}
		if !available {
			conflicts = append(conflicts, Conflict{UserID: userID, Type: ConflictUnavailableDay, Date: date})
			continue
		}

		for _, slot := range record.UnavailableSlots {
			occurs, err := recurrence.OccursOn(slot.Recurring, slot.Date, date)
			if err != nil {
				return nil, err
			}
			if !occurs {
				continue
			}
			if availability.WindowsOverlap(slot.StartTime, slot.EndTime, windowStart, windowEnd) {
				conflicts = append(conflicts, Conflict{
					UserID: userID,
					Type:   ConflictUnavailableSlot,
					Date:   date,
					SlotID: slot.ID,
					Title:  slot.Title,
				})
			}
		}
	}

	return conflicts, nil
}

// clampToDate projects the meeting window onto one calendar day as HH:MM
// bounds. The third result is false when the window does not actually cover
// any time on that day (a meeting ending exactly at midnight).
func clampToDate(start, end time.Time, day time.Time) (string, string, bool) {
	windowStart := "00:00"
	windowEnd := "24:00"

	if start.Truncate(24 * time.Hour).Equal(day) {
		windowStart = start.Format(availability.ClockLayout)
	}
	if end.Truncate(24 * time.Hour).Equal(day) {
		windowEnd = end.Format(availability.ClockLayout)
	}
	if windowEnd == "00:00" {
		return "", "", false
	}
	return windowStart, windowEnd, true
}

func attends(event Event, userID string) bool {
	for _, attendee := range event.Attendees {
		if attendee == userID {
			return true
		}
	}
	return false
}
