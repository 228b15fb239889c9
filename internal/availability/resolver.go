package availability

// DayDetails is the effective availability for one calendar date after
// applying explicit overrides and weekday defaults.
type DayDetails struct {
	Date      string          `json:"date"`
	Available bool            `json:"available"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Note      string          `json:"note,omitempty"`
	Recurring *RecurrenceRule `json:"recurring,omitempty"`
}

// IsDayAvailable resolves whether the user is available on the given date.
// An explicit override wins; otherwise weekdays (Monday-Friday) default to
// available and weekends to unavailable.
func IsDayAvailable(record Record, date string) (bool, error) {
	if entry, ok := record.EntryFor(date); ok {
		return entry.Available, nil
	}
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	return IsWeekday(day), nil
}

// DetailsForDate resolves the effective availability window for a date. When
// no explicit entry exists, the record's default hours apply and availability
// follows the weekday rule. When an entry exists, the note and recurrence of
// the first unavailable slot anchored on that date are joined in for display.
func DetailsForDate(record Record, date string) (DayDetails, error) {
	entry, ok := record.EntryFor(date)
	if !ok {
		day, err := ParseDate(date)
		if err != nil {
			return DayDetails{}, err
		}
		return DayDetails{
			Date:      date,
			Available: IsWeekday(day),
			StartTime: record.DefaultStartTime,
			EndTime:   record.DefaultEndTime,
		}, nil
	}

	details := DayDetails{
		Date:      date,
		Available: entry.Available,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
	}
	if slot, ok := firstSlotOnDate(record.UnavailableSlots, date); ok {
		details.Note = slot.Title
		if slot.Recurring != nil {
			rule := *slot.Recurring
			details.Recurring = &rule
		}
	}
	return details, nil
}

// firstSlotOnDate selects the slot whose note and recurrence annotate a date's
// details. The policy is first match wins in storage order; it is deliberately
// isolated here so a future "most specific slot wins" policy is a local swap.
func firstSlotOnDate(slots []UnavailableSlot, date string) (UnavailableSlot, bool) {
	for _, slot := range slots {
		if slot.Date == date {
			return slot, true
		}
	}
	return UnavailableSlot{}, false
}
