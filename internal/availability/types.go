// Package availability models a team member's working-hours calendar: per-date
// overrides, fallback daily hours, and discrete unavailable time slots. All
// operations are total-record transforms: they take a Record value and return
// a new Record, leaving the input untouched, so callers can persist the result
// in a single write.
package availability

import "time"

// Default daily working window applied when a user has no explicit entry.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

// RecurrenceType enumerates the supported repetition patterns for an
// unavailable slot.
type RecurrenceType string

const (
	// RecurrenceNone marks a slot that occurs only on its anchor date.
	RecurrenceNone RecurrenceType = "none"
	// RecurrenceDaily repeats the slot every day from its anchor date.
	RecurrenceDaily RecurrenceType = "daily"
	// RecurrenceWeekly repeats the slot on the anchor date's weekday.
	RecurrenceWeekly RecurrenceType = "weekly"
	// RecurrenceMonthly repeats the slot on the anchor date's day of month.
	// Months without that day number produce no occurrence.
	RecurrenceMonthly RecurrenceType = "monthly"
)

// RecurrenceRule describes how an unavailable slot repeats. The anchor of the
// rule is implicit: it is the date of the slot that carries it.
type RecurrenceRule struct {
	Type RecurrenceType `json:"type"`
	// EndDate optionally bounds the repetition, inclusive, as YYYY-MM-DD.
	EndDate string `json:"endDate,omitempty"`
}

// Equal reports whether two rules describe the same repetition pattern.
func (r *RecurrenceRule) Equal(other *RecurrenceRule) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Type == other.Type && r.EndDate == other.EndDate
}

// Repeats reports whether the rule produces occurrences beyond its anchor.
func (r *RecurrenceRule) Repeats() bool {
	return r != nil && r.Type != "" && r.Type != RecurrenceNone
}

// DateAvailability is an explicit available/unavailable override for one
// calendar date. Dates are YYYY-MM-DD strings and times are HH:MM 24h strings.
type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UnavailableSlot is a discrete blocked time window on a single date,
// optionally recurring from that date.
type UnavailableSlot struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Title     string          `json:"title,omitempty"`
	Recurring *RecurrenceRule `json:"recurring,omitempty"`
}

// Record is a user's full availability calendar. It is the unit of mutation:
// every engine operation reads the whole record and writes back a whole new
// record.
type Record struct {
	UserID           string             `json:"userId"`
	Dates            []DateAvailability `json:"dates"`
	DefaultStartTime string             `json:"defaultStartTime"`
	DefaultEndTime   string             `json:"defaultEndTime"`
	UnavailableSlots []UnavailableSlot  `json:"unavailableSlots"`
}

// NewRecord returns the default availability record for a user: no per-date
// overrides, 09:00-17:00 fallback hours, and no unavailable slots. Reads of a
// missing record yield this value.
func NewRecord(userID string) Record {
	return Record{
		UserID:           userID,
		Dates:            []DateAvailability{},
		DefaultStartTime: DefaultStartTime,
		DefaultEndTime:   DefaultEndTime,
		UnavailableSlots: []UnavailableSlot{},
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Dates = make([]DateAvailability, len(r.Dates))
	copy(out.Dates, r.Dates)
	out.UnavailableSlots = make([]UnavailableSlot, len(r.UnavailableSlots))
	for i, slot := range r.UnavailableSlots {
		out.UnavailableSlots[i] = slot
		if slot.Recurring != nil {
			rule := *slot.Recurring
			out.UnavailableSlots[i].Recurring = &rule
		}
	}
	return out
}

// EntryFor returns the explicit override for the given date, if any.
func (r Record) EntryFor(date string) (DateAvailability, bool) {
	for _, entry := range r.Dates {
		if entry.Date == date {
			return entry, true
		}
	}
	return DateAvailability{}, false
}

// SlotByID returns the unavailable slot with the given id, if any.
func (r Record) SlotByID(id string) (UnavailableSlot, bool) {
	for _, slot := range r.UnavailableSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	return UnavailableSlot{}, false
}

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}
