package availability

// RangeUpdate describes a single availability decision applied across an
// inclusive date range.
type RangeUpdate struct {
	StartDate string
	EndDate   string
	Available bool
	StartTime string
	EndTime   string
	// Note, when non-empty, causes one unavailable slot to be created per
	// date in the range, carrying the note and optional recurrence.
	Note      string
	Recurring *RecurrenceRule
}

// ApplyRangeUpdate upserts a DateAvailability entry for every date in the
// update's inclusive range and replaces any unavailable slots anchored on
// those dates. Reversed ranges are normalized, not rejected. Validation runs
// before any date is enumerated, so a failed update leaves the caller's record
// describable as unchanged. newSlotID supplies identifiers for slots created
// from a non-empty note.
func ApplyRangeUpdate(record Record, update RangeUpdate, newSlotID func() string) (Record, error) {
	start, err := ParseDate(update.StartDate)
	if err != nil {
		return Record{}, err
	}
	end, err := ParseDate(update.EndDate)
	if err != nil {
		return Record{}, err
	}
	if err := ValidateWindow(update.StartTime, update.EndTime); err != nil {
		return Record{}, err
	}
	if newSlotID == nil {
		newSlotID = func() string { return "" }
	}

	if end.Before(start) {
		start, end = end, start
	}
	inRange := make(map[string]struct{})
	dates := EnumerateDates(start, end)
	for _, date := range dates {
		inRange[date] = struct{}{}
	}

	out := record.Clone()

	for _, date := range dates {
		entry := DateAvailability{
			Date:      date,
			Available: update.Available,
			StartTime: update.StartTime,
			EndTime:   update.EndTime,
		}
		replaced := false
		for i := range out.Dates {
			if out.Dates[i].Date == date {
				out.Dates[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			out.Dates = append(out.Dates, entry)
		}
	}

	kept := out.UnavailableSlots[:0]
	for _, slot := range out.UnavailableSlots {
		if _, ok := inRange[slot.Date]; !ok {
			kept = append(kept, slot)
		}
	}
	out.UnavailableSlots = kept

	if update.Note != "" {
		for _, date := range dates {
			slot := UnavailableSlot{
				ID:        newSlotID(),
				Date:      date,
				StartTime: update.StartTime,
				EndTime:   update.EndTime,
				Title:     update.Note,
			}
			if update.Recurring != nil {
				rule := *update.Recurring
				slot.Recurring = &rule
			}
			out.UnavailableSlots = append(out.UnavailableSlots, slot)
		}
	}

	return out, nil
}
