package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/scheduler"
)

type meetingService interface {
	ScheduleMeeting(ctx context.Context, input application.MeetingInput) (application.CalendarEvent, error)
	CheckConflicts(ctx context.Context, inviteeIDs []string, start, end time.Time) ([]scheduler.Conflict, error)
	NotificationsForUser(ctx context.Context, userID string) ([]persistence.Notification, error)
}

type MeetingHandler struct {
	service   meetingService
	responder responder
}

func NewMeetingHandler(service meetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{service: service, responder: newResponder(logger)}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.ScheduleMeeting(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, meetingResponse{Event: event})
}

func (h *MeetingHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req conflictCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	conflicts, err := h.service.CheckConflicts(r.Context(), req.Invitees, parseTime(req.Start), parseTime(req.End))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictCheckResponse{
		Conflicts: toConflictDTOs(conflicts),
	})
}

func (h *MeetingHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	notifications, err := h.service.NotificationsForUser(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationsResponse{
		Notifications: toNotificationDTOs(notifications),
	})
}

type meetingRequest struct {
	OrganizerID string   `json:"organizerId"`
	Invitees    []string `json:"invitees"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location"`
	Priority    string   `json:"priority"`
	IsRequired  bool     `json:"isRequired"`
}

func (r meetingRequest) toInput() application.MeetingInput {
	return application.MeetingInput{
		OrganizerID: strings.TrimSpace(r.OrganizerID),
		Invitees:    append([]string(nil), r.Invitees...),
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Start:       parseTime(r.Start),
		End:         parseTime(r.End),
		Location:    strings.TrimSpace(r.Location),
		Priority:    application.Priority(strings.TrimSpace(r.Priority)),
		IsRequired:  r.IsRequired,
	}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

type meetingResponse struct {
	Event application.CalendarEvent `json:"event"`
}

type conflictCheckRequest struct {
	Invitees []string `json:"invitees"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
}

type conflictCheckResponse struct {
	Conflicts []conflictDTO `json:"conflicts"`
}

type conflictDTO struct {
	UserID  string `json:"userId"`
	Type    string `json:"type"`
	Date    string `json:"date,omitempty"`
	SlotID  string `json:"slotId,omitempty"`
	EventID string `json:"eventId,omitempty"`
	Title   string `json:"title,omitempty"`
}

func toConflictDTOs(conflicts []scheduler.Conflict) []conflictDTO {
	out := make([]conflictDTO, 0, len(conflicts))
	for _, conflict := range conflicts {
		out = append(out, conflictDTO{
			UserID:  conflict.UserID,
			Type:    string(conflict.Type),
			Date:    conflict.Date,
			SlotID:  conflict.SlotID,
			EventID: conflict.EventID,
			Title:   conflict.Title,
		})
	}
	return out
}

type notificationsResponse struct {
	Notifications []notificationDTO `json:"notifications"`
}

type notificationDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	EventID   string `json:"eventId,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

func toNotificationDTOs(notifications []persistence.Notification) []notificationDTO {
	out := make([]notificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, notificationDTO{
			ID:        notification.ID,
			UserID:    notification.UserID,
			EventID:   notification.EventID,
			Title:     notification.Title,
			Message:   notification.Message,
			Read:      notification.Read,
			CreatedAt: notification.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
