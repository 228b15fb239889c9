package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-scheduler/internal/application"
)

type calendarService interface {
	Feed(ctx context.Context, userID, rangeStart, rangeEnd string) ([]application.CalendarFeedItem, error)
}

type CalendarHandler struct {
	service   calendarService
	responder responder
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger)}
}

func (h *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	query := r.URL.Query()
	start := strings.TrimSpace(query.Get("start"))
	end := strings.TrimSpace(query.Get("end"))
	if start == "" || end == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("start and end query parameters are required"))
		return
	}

	feed, err := h.service.Feed(r.Context(), userID, start, end)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, feedResponse{Items: feed})
}

type feedResponse struct {
	Items []application.CalendarFeedItem `json:"items"`
}
