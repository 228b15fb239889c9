package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/studio-scheduler/internal/availability"
)

type availabilityService interface {
	GetAvailability(ctx context.Context, userID string) (availability.Record, error)
	DayDetails(ctx context.Context, userID, date string) (availability.DayDetails, error)
	UpdateRange(ctx context.Context, userID string, update availability.RangeUpdate) (availability.Record, error)
	CreateSlot(ctx context.Context, userID string, slot availability.UnavailableSlot) (availability.Record, availability.UnavailableSlot, error)
	DeleteSlot(ctx context.Context, userID, slotID string, deleteRecurring bool) (availability.Record, error)
	Reset(ctx context.Context, userID string) (availability.Record, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, responder: newResponder(logger)}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	record, err := h.service.GetAvailability(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, record)
}

func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}
	date := strings.TrimSpace(mux.Vars(r)["date"])
	if date == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	details, err := h.service.DayDetails(r.Context(), userID, date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, details)
}

func (h *AvailabilityHandler) UpdateRange(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	var req rangeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	record, err := h.service.UpdateRange(r.Context(), userID, req.toUpdate())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, record)
}

func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	record, created, err := h.service.CreateSlot(r.Context(), userID, req.toSlot())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, slotResponse{
		Slot:         created,
		Availability: record,
	})
}

func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}
	slotID := strings.TrimSpace(mux.Vars(r)["slotId"])
	if slotID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSlotID)
		return
	}
	deleteRecurring := r.URL.Query().Get("recurring") == "true"

	record, err := h.service.DeleteSlot(r.Context(), userID, slotID, deleteRecurring)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, record)
}

func (h *AvailabilityHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := pathUserID(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	record, err := h.service.Reset(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := handlerLogger(r.Context(), h.responder.logger, "availability", "reset", "user_id", userID)
	logger.InfoContext(r.Context(), "availability reset")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, record)
}

func pathUserID(r *http.Request) (string, bool) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	return id, id != ""
}

type rangeUpdateRequest struct {
	StartDate string                       `json:"startDate"`
	EndDate   string                       `json:"endDate"`
	Available bool                         `json:"available"`
	StartTime string                       `json:"startTime"`
	EndTime   string                       `json:"endTime"`
	Note      string                       `json:"note"`
	Recurring *availability.RecurrenceRule `json:"recurring"`
}

func (r rangeUpdateRequest) toUpdate() availability.RangeUpdate {
	return availability.RangeUpdate{
		StartDate: strings.TrimSpace(r.StartDate),
		EndDate:   strings.TrimSpace(r.EndDate),
		Available: r.Available,
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		Note:      strings.TrimSpace(r.Note),
		Recurring: r.Recurring,
	}
}

type slotRequest struct {
	Date      string                       `json:"date"`
	StartTime string                       `json:"startTime"`
	EndTime   string                       `json:"endTime"`
	Title     string                       `json:"title"`
	Recurring *availability.RecurrenceRule `json:"recurring"`
}

func (r slotRequest) toSlot() availability.UnavailableSlot {
	return availability.UnavailableSlot{
		Date:      strings.TrimSpace(r.Date),
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		Title:     strings.TrimSpace(r.Title),
		Recurring: r.Recurring,
	}
}

type slotResponse struct {
	Slot         availability.UnavailableSlot `json:"slot"`
	Availability availability.Record          `json:"availability"`
}
