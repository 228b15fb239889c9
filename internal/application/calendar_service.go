package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/recurrence"
)

// CalendarService produces the merged calendar feed: persisted events plus
// pseudo-events projected from availability data. Projected items are
// recomputed on every read and never persisted.
type CalendarService struct {
	events         persistence.EventRepository
	availabilities persistence.AvailabilityRepository
	logger         *slog.Logger
}

// NewCalendarService wires dependencies for feed operations.
func NewCalendarService(events persistence.EventRepository, availabilities persistence.AvailabilityRepository, logger *slog.Logger) *CalendarService {
	return &CalendarService{
		events:         events,
		availabilities: availabilities,
		logger:         defaultLogger(logger),
	}
}

// Feed merges the user's persisted events with availability projections for
// the inclusive date range, ordered by start time.
func (s *CalendarService) Feed(ctx context.Context, userID, rangeStart, rangeEnd string) ([]CalendarFeedItem, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := validateFeedRange(rangeStart, rangeEnd); err != nil {
		return nil, err
	}

	record, err := s.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	projected, err := ProjectAvailabilityEvents(record, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	stored, err := s.storedFeedItems(ctx, userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	feed := append(stored, projected...)
	sort.SliceStable(feed, func(i, j int) bool {
		if feed[i].Start.Equal(feed[j].Start) {
			return feed[i].ID < feed[j].ID
		}
		return feed[i].Start.Before(feed[j].Start)
	})
	return feed, nil
}

// ProjectAvailabilityEvents derives pseudo-events from unavailable day
// entries and unavailable slots, expanding recurring slots across the range.
// The result is shaped like calendar events and tagged as projected.
func ProjectAvailabilityEvents(record availability.Record, rangeStart, rangeEnd string) ([]CalendarFeedItem, error) {
	if err := validateFeedRange(rangeStart, rangeEnd); err != nil {
		return nil, err
	}

	items := make([]CalendarFeedItem, 0)

	for _, entry := range record.Dates {
		if entry.Available {
			continue
		}
		if entry.Date < rangeStart || entry.Date > rangeEnd {
			continue
		}
		item, err := projectedItem(record.UserID, "busy_"+entry.Date, "Unavailable", entry.Date, entry.StartTime, entry.EndTime, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	for _, slot := range record.UnavailableSlots {
		dates, err := recurrence.Expand(slot.Recurring, slot.Date, rangeStart, rangeEnd)
		if err != nil {
			return nil, mapAvailabilityError(err)
		}
		title := slot.Title
		if title == "" {
			title = "Unavailable"
		}
		for _, date := range dates {
			item, err := projectedItem(record.UserID, slot.ID+"_"+date, title, date, slot.StartTime, slot.EndTime, slot.Recurring)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	return items, nil
}

func projectedItem(userID, id, title, date, startTime, endTime string, rule *availability.RecurrenceRule) (CalendarFeedItem, error) {
	start, err := combineDateTime(date, startTime)
	if err != nil {
		return CalendarFeedItem{}, err
	}
	end, err := combineDateTime(date, endTime)
	if err != nil {
		return CalendarFeedItem{}, err
	}

	description := ""
	if rule != nil && rule.Repeats() {
		description = fmt.Sprintf("Repeats %s", rule.Type)
	}

	return CalendarFeedItem{
		CalendarEvent: CalendarEvent{
			ID:          "projected_" + id,
			Title:       title,
			Description: description,
			Start:       start,
			End:         end,
			Type:        EventTypeOther,
			Status:      EventStatusConfirmed,
			CreatedBy:   userID,
			Attendees:   []string{userID},
			AssignedTo:  []string{userID},
			Color:       "#94a3b8",
			Priority:    PriorityMedium,
		},
		Projected: true,
		Source:    FeedSourceAvailability,
	}, nil
}

func (s *CalendarService) storedFeedItems(ctx context.Context, userID, rangeStart, rangeEnd string) ([]CalendarFeedItem, error) {
	if s.events == nil {
		return nil, nil
	}

	start, err := combineDateTime(rangeStart, "00:00")
	if err != nil {
		return nil, err
	}
	end, err := combineDateTime(rangeEnd, "00:00")
	if err != nil {
		return nil, err
	}
	end = end.AddDate(0, 0, 1)

	stored, err := s.events.ListEvents(ctx, persistence.EventFilter{
		AttendeeID:  userID,
		StartsAfter: &start,
		EndsBefore:  &end,
	})
	if err != nil {
		return nil, err
	}

	items := make([]CalendarFeedItem, 0, len(stored))
	for _, event := range stored {
		items = append(items, CalendarFeedItem{
			CalendarEvent: fromPersistenceEvent(event),
			Projected:     false,
			Source:        FeedSourceEvent,
		})
	}
	return items, nil
}

func (s *CalendarService) loadRecord(ctx context.Context, userID string) (availability.Record, error) {
	if s.availabilities == nil {
		return availability.NewRecord(userID), nil
	}
	record, err := s.availabilities.LoadAvailability(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return availability.NewRecord(userID), nil
		}
		return availability.Record{}, err
	}
	return record, nil
}

func validateFeedRange(rangeStart, rangeEnd string) error {
	vErr := &ValidationError{}
	startParsed, startErr := availability.ParseDate(rangeStart)
	endParsed, endErr := availability.ParseDate(rangeEnd)
	if startErr != nil || endErr != nil {
		vErr.add("date", "dates must use the YYYY-MM-DD format")
		return vErr
	}
	if endParsed.Before(startParsed) {
		vErr.add("date", "range start must not be after range end")
		return vErr
	}
	return nil
}

// combineDateTime joins a YYYY-MM-DD date and an HH:MM clock into a UTC
// instant, matching the serialized availability formats.
func combineDateTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.UTC)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("time", "times must use the HH:MM format")
		return time.Time{}, vErr
	}
	return t, nil
}
