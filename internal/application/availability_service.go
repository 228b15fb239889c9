package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
)

// AvailabilityService applies availability transforms as total-record
// operations: load the whole record, compute a new value, save it back in a
// single call. There is no interleaving protection between concurrent
// writers; callers converge by re-reading after change notifications.
type AvailabilityService struct {
	store  persistence.AvailabilityRepository
	slotID func() string
	logger *slog.Logger
}

// NewAvailabilityService wires dependencies for availability operations.
func NewAvailabilityService(store persistence.AvailabilityRepository, slotID func() string, logger *slog.Logger) *AvailabilityService {
	if slotID == nil {
		slotID = func() string { return "slot_" + xid.New().String() }
	}
	return &AvailabilityService{
		store:  store,
		slotID: slotID,
		logger: defaultLogger(logger),
	}
}

// GetAvailability returns the stored record, or the default record when the
// user has never saved one.
func (s *AvailabilityService) GetAvailability(ctx context.Context, userID string) (availability.Record, error) {
	if s == nil {
		return availability.Record{}, fmt.Errorf("AvailabilityService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return availability.Record{}, err
	}
	return s.loadOrDefault(ctx, userID)
}

// DayDetails resolves effective availability for one date, including the
// note and recurrence of the first unavailable slot on that date.
func (s *AvailabilityService) DayDetails(ctx context.Context, userID, date string) (availability.DayDetails, error) {
	if s == nil {
		return availability.DayDetails{}, fmt.Errorf("AvailabilityService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return availability.DayDetails{}, err
	}

	record, err := s.loadOrDefault(ctx, userID)
	if err != nil {
		return availability.DayDetails{}, err
	}

	details, err := availability.DetailsForDate(record, date)
	if err != nil {
		return availability.DayDetails{}, mapAvailabilityError(err)
	}
	return details, nil
}

// UpdateRange applies an inclusive range update and persists the result. On
// validation failure nothing is written.
func (s *AvailabilityService) UpdateRange(ctx context.Context, userID string, update availability.RangeUpdate) (availability.Record, error) {
	if s == nil {
		return availability.Record{}, fmt.Errorf("AvailabilityService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return availability.Record{}, err
	}

	record, err := s.loadOrDefault(ctx, userID)
	if err != nil {
		return availability.Record{}, err
	}

	updated, err := availability.ApplyRangeUpdate(record, update, s.slotID)
	if err != nil {
		return availability.Record{}, mapAvailabilityError(err)
	}

	if err := s.store.SaveAvailability(ctx, updated); err != nil {
		return availability.Record{}, err
	}

	logger := serviceLogger(ctx, s.logger, "availability", "update_range", "user_id", userID)
	logger.InfoContext(ctx, "availability range updated",
		"start_date", update.StartDate,
		"end_date", update.EndDate,
		"available", update.Available,
	)
	return updated, nil
}

// CreateSlot validates and appends one unavailable slot, returning the new
// record and the created slot with its assigned id.
func (s *AvailabilityService) CreateSlot(ctx context.Context, userID string, slot availability.UnavailableSlot) (availability.Record, availability.UnavailableSlot, error) {
	if s == nil {
		return availability.Record{}, availability.UnavailableSlot{}, fmt.Errorf("AvailabilityService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return availability.Record{}, availability.UnavailableSlot{}, err
	}

	record, err := s.loadOrDefault(ctx, userID)
	if err != nil {
		return availability.Record{}, availability.UnavailableSlot{}, err
	}

	updated, created, err := availability.AddSlot(record, slot, s.slotID)
	if err != nil {
		return availability.Record{}, availability.UnavailableSlot{}, mapAvailabilityError(err)
	}

	if err := s.store.SaveAvailability(ctx, updated); err != nil {
		return availability.Record{}, availability.UnavailableSlot{}, err
	}

	logger := serviceLogger(ctx, s.logger, "availability", "create_slot", "user_id", userID)
	logger.InfoContext(ctx, "unavailable slot created", "slot_id", created.ID, "date", created.Date)
	return updated, created, nil
}

// DeleteSlot removes a slot by id, or the whole recurring series when
// deleteRecurring is set. A missing id is a no-op, not an error.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, userID, slotID string, deleteRecurring bool) (availability.Record, error) {
	if s == nil {
		return availability.Record{}, fmt.Errorf("AvailabilityService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return availability.Record{}, err
	}

	record, err := s.loadOrDefault(ctx, userID)
	if err != nil {
		return availability.Record{}, err
	}

	updated := availability.RemoveSlot(record, slotID, deleteRecurring)
	if len(updated.UnavailableSlots) == len(record.UnavailableSlots) {
		// Nothing removed, skip the save.
		return updated, nil
	}

	if err := s.store.SaveAvailability(ctx, updated); err != nil {
		return availability.Record{}, err
	}

	logger := serviceLogger(ctx, s.logger, "availability", "delete_slot", "user_id", userID)
	logger.InfoContext(ctx, "unavailable slot deleted",
		"slot_id", slotID,
		"delete_recurring", deleteRecurring,
		"removed", len(record.UnavailableSlots)-len(updated.UnavailableSlots),
	)
	return updated, nil
}

// Reset replaces the stored record with the default record.
func (s *AvailabilityService) Reset(ctx context.Context, userID string) (availability.Record, error) {
	if s == nil {
		return availability.Record{}, fmt.Errorf("AvailabilityService is nil")
	}
	if err := validateUserID(userID); err != nil {
		return availability.Record{}, err
	}

	record := availability.NewRecord(userID)
	if err := s.store.SaveAvailability(ctx, record); err != nil {
		return availability.Record{}, err
	}

	logger := serviceLogger(ctx, s.logger, "availability", "reset", "user_id", userID)
	logger.InfoContext(ctx, "availability reset to defaults")
	return record, nil
}

func (s *AvailabilityService) loadOrDefault(ctx context.Context, userID string) (availability.Record, error) {
	record, err := s.store.LoadAvailability(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return availability.NewRecord(userID), nil
		}
		return availability.Record{}, err
	}
	return record, nil
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		vErr := &ValidationError{}
		vErr.add("userId", "user id is required")
		return vErr
	}
	return nil
}

// mapAvailabilityError translates engine sentinels into field level
// validation errors callers can surface.
func mapAvailabilityError(err error) error {
	if err == nil {
		return nil
	}
	vErr := &ValidationError{}
	switch {
	case errors.Is(err, availability.ErrInvalidTimeRange):
		vErr.add("time", "start time must be before end time")
	case errors.Is(err, availability.ErrInvalidDateRange):
		vErr.add("date", "dates must use the YYYY-MM-DD format")
	default:
		return err
	}
	return vErr
}

// nowUTC is the shared clock default for services that stamp records.
func nowUTC() time.Time {
	return time.Now().UTC()
}
