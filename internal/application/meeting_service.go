package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/notify"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/scheduler"
)

// UserDirectory exposes user lookup operations.
type UserDirectory interface {
	MissingUserIDs(ctx context.Context, ids []string) ([]string, error)
}

// MeetingService schedules meetings and answers explicit conflict queries.
// Scheduling never rejects on conflicts: the check is a separate opt-in call,
// preserving the accepted behavior that a confirmed meeting may overlap an
// invitee's unavailable time.
type MeetingService struct {
	events         persistence.EventRepository
	availabilities persistence.AvailabilityRepository
	notifications  persistence.NotificationRepository
	users          UserDirectory
	notifier       notify.Notifier
	conflicts      *conflictCache
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// MeetingServiceOptions bundles the optional knobs of NewMeetingService.
type MeetingServiceOptions struct {
	ConflictCacheTTL time.Duration
	IDGenerator      func() string
	Now              func() time.Time
	Logger           *slog.Logger
}

// NewMeetingService wires dependencies for meeting operations. When the
// availability repository supports subscriptions, any availability write
// invalidates the conflict cache.
func NewMeetingService(
	events persistence.EventRepository,
	availabilities persistence.AvailabilityRepository,
	notifications persistence.NotificationRepository,
	users UserDirectory,
	notifier notify.Notifier,
	opts MeetingServiceOptions,
) *MeetingService {
	idGenerator := opts.IDGenerator
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	now := opts.Now
	if now == nil {
		now = nowUTC
	}

	service := &MeetingService{
		events:         events,
		availabilities: availabilities,
		notifications:  notifications,
		users:          users,
		notifier:       notifier,
		conflicts:      newConflictCache(opts.ConflictCacheTTL, 0, now),
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(opts.Logger),
	}

	if availabilities != nil {
		availabilities.Subscribe(func(string) {
			service.conflicts.Invalidate()
		})
	}

	return service
}

// ScheduleMeeting validates the input, persists a confirmed event and then
// notifies each invitee. Notification failures are logged and never roll
// back the created event.
func (s *MeetingService) ScheduleMeeting(ctx context.Context, input MeetingInput) (CalendarEvent, error) {
	if s == nil {
		return CalendarEvent{}, fmt.Errorf("MeetingService is nil")
	}

	vErr := &ValidationError{}
	validateMeetingCore(input, vErr)
	if vErr.HasErrors() {
		return CalendarEvent{}, vErr
	}

	if err := s.ensureInviteesExist(ctx, append(uniqueStrings(input.Invitees), input.OrganizerID)); err != nil {
		return CalendarEvent{}, err
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	attendees := sortStrings(uniqueStrings(append([]string{input.OrganizerID}, input.Invitees...)))
	createdAt := s.now()
	event := CalendarEvent{
		ID:          s.idGenerator(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Location:    input.Location,
		Type:        EventTypeMeeting,
		Status:      EventStatusConfirmed,
		CreatedBy:   input.OrganizerID,
		Attendees:   attendees,
		AssignedTo:  append([]string(nil), attendees...),
		Color:       colorForPriority(priority),
		Priority:    priority,
		IsRequired:  input.IsRequired,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if s.events == nil {
		return CalendarEvent{}, fmt.Errorf("event repository not configured")
	}
	if err := s.events.CreateEvent(ctx, toPersistenceEvent(event)); err != nil {
		return CalendarEvent{}, err
	}

	s.conflicts.Invalidate()
	s.deliverInviteeNotifications(ctx, event, uniqueStrings(input.Invitees))

	logger := serviceLogger(ctx, s.logger, "meetings", "schedule", "event_id", event.ID)
	logger.InfoContext(ctx, "meeting scheduled",
		"organizer_id", input.OrganizerID,
		"invitees", len(input.Invitees),
		"start", event.Start.Format(time.RFC3339),
	)
	return event, nil
}

// CheckConflicts reports availability and event conflicts for the given
// invitees inside the window. Results are cached briefly; any availability
// or meeting write invalidates the cache.
func (s *MeetingService) CheckConflicts(ctx context.Context, inviteeIDs []string, start, end time.Time) ([]scheduler.Conflict, error) {
	if s == nil {
		return nil, fmt.Errorf("MeetingService is nil")
	}

	vErr := &ValidationError{}
	if len(uniqueStrings(inviteeIDs)) == 0 {
		vErr.add("invitees", "at least one invitee is required")
	}
	if start.IsZero() || end.IsZero() {
		vErr.add("time", "start and end are required")
	} else if !end.After(start) {
		vErr.add("time", "start must be before end")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	invitees := sortStrings(uniqueStrings(inviteeIDs))
	key := buildConflictCacheKey(invitees, start, end)
	if cached, ok := s.conflicts.Get(key); ok {
		return cached, nil
	}

	records, err := s.loadRecords(ctx, invitees)
	if err != nil {
		return nil, err
	}

	events, err := s.eventsInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	found, err := scheduler.DetectConflicts(records, events, invitees, start, end)
	if err != nil {
		return nil, mapAvailabilityError(err)
	}

	s.conflicts.Store(key, found)
	return found, nil
}

// NotificationsForUser lists the stored notifications for one user, newest
// first.
func (s *MeetingService) NotificationsForUser(ctx context.Context, userID string) ([]persistence.Notification, error) {
	if s == nil {
		return nil, fmt.Errorf("MeetingService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if s.notifications == nil {
		return nil, nil
	}
	return s.notifications.ListNotificationsForUser(ctx, userID)
}

func (s *MeetingService) ensureInviteesExist(ctx context.Context, ids []string) error {
	if s.users == nil {
		return nil
	}
	missing, err := s.users.MissingUserIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("invitees", fmt.Sprintf("unknown user ids: %s", strings.Join(sortStrings(missing), ", ")))
	return vErr
}

// deliverInviteeNotifications records and delivers one notification per
// invitee. Fire-and-forget: every failure is logged and swallowed.
func (s *MeetingService) deliverInviteeNotifications(ctx context.Context, event CalendarEvent, invitees []string) {
	logger := serviceLogger(ctx, s.logger, "meetings", "notify", "event_id", event.ID)
	subject := fmt.Sprintf("Meeting invitation: %s", event.Title)
	body := fmt.Sprintf("You have been invited to %q on %s.", event.Title, event.Start.Format("2006-01-02 15:04"))

	for _, inviteeID := range invitees {
		if inviteeID == event.CreatedBy {
			continue
		}

		if s.notifications != nil {
			notification := persistence.Notification{
				ID:        s.idGenerator(),
				UserID:    inviteeID,
				EventID:   event.ID,
				Title:     subject,
				Message:   body,
				CreatedAt: s.now(),
			}
			if err := s.notifications.CreateNotification(ctx, notification); err != nil {
				logger.WarnContext(ctx, "notification record not stored", "user_id", inviteeID, "error", err)
			}
		}

		if s.notifier != nil {
			message := notify.Message{
				UserID:  inviteeID,
				EventID: event.ID,
				Subject: subject,
				Body:    body,
			}
			if err := s.notifier.Notify(ctx, message); err != nil {
				logger.WarnContext(ctx, "notification delivery failed", "user_id", inviteeID, "error", err)
			}
		}
	}
}

func (s *MeetingService) loadRecords(ctx context.Context, userIDs []string) (map[string]availability.Record, error) {
	records := make(map[string]availability.Record, len(userIDs))
	if s.availabilities == nil {
		return records, nil
	}
	for _, userID := range userIDs {
		record, err := s.availabilities.LoadAvailability(ctx, userID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				continue
			}
			return nil, err
		}
		records[userID] = record
	}
	return records, nil
}

func (s *MeetingService) eventsInWindow(ctx context.Context, start, end time.Time) ([]scheduler.Event, error) {
	if s.events == nil {
		return nil, nil
	}
	stored, err := s.events.ListEvents(ctx, persistence.EventFilter{StartsAfter: &start, EndsBefore: &end})
	if err != nil {
		return nil, err
	}

	events := make([]scheduler.Event, 0, len(stored))
	for _, event := range stored {
		if EventStatus(event.Status) == EventStatusCancelled {
			continue
		}
		events = append(events, scheduler.Event{
			ID:        event.ID,
			Title:     event.Title,
			Attendees: append([]string(nil), event.Attendees...),
			Start:     event.Start,
			End:       event.End,
		})
	}
	return events, nil
}

func validateMeetingCore(input MeetingInput, vErr *ValidationError) {
	if strings.TrimSpace(input.OrganizerID) == "" {
		vErr.add("organizerId", "organizer is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if len(uniqueStrings(input.Invitees)) == 0 {
		vErr.add("invitees", "at least one invitee is required")
	}

	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.End.After(input.Start) {
		vErr.add("time", "start must be before end")
	}

	switch input.Priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
	default:
		vErr.add("priority", "priority must be low, medium or high")
	}
}

func colorForPriority(priority Priority) string {
	switch priority {
	case PriorityHigh:
		return "#ef4444"
	case PriorityLow:
		return "#22c55e"
	default:
		return "#3b82f6"
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func sortStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
