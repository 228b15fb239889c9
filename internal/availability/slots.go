package availability

// AddSlot validates and appends a new unavailable slot, assigning it a fresh
// identifier from newID. The input record is not mutated; on validation
// failure the returned record is the zero value and the caller's record
// stands.
func AddSlot(record Record, slot UnavailableSlot, newID func() string) (Record, UnavailableSlot, error) {
	if _, err := ParseDate(slot.Date); err != nil {
		return Record{}, UnavailableSlot{}, err
	}
	if err := ValidateWindow(slot.StartTime, slot.EndTime); err != nil {
		return Record{}, UnavailableSlot{}, err
	}
	if slot.Recurring != nil && slot.Recurring.EndDate != "" {
		if _, err := ParseDate(slot.Recurring.EndDate); err != nil {
			return Record{}, UnavailableSlot{}, err
		}
	}

	if newID != nil {
		slot.ID = newID()
	}
	if slot.Recurring != nil {
		rule := *slot.Recurring
		slot.Recurring = &rule
	}

	out := record.Clone()
	out.UnavailableSlots = append(out.UnavailableSlots, slot)
	return out, slot, nil
}

// RemoveSlot deletes the slot with the given id. When deleteRecurring is set
// and the target slot carries a repeating rule, every slot belonging to the
// same recurring series is removed as well. A missing id is a no-op, not an
// error: the record is returned unchanged.
func RemoveSlot(record Record, slotID string, deleteRecurring bool) Record {
	target, ok := record.SlotByID(slotID)
	if !ok {
		return record
	}

	out := record.Clone()
	kept := out.UnavailableSlots[:0]
	for _, slot := range out.UnavailableSlots {
		if slot.ID == slotID {
			continue
		}
		if deleteRecurring && target.Recurring.Repeats() && sameSeries(target, slot) {
			continue
		}
		kept = append(kept, slot)
	}
	out.UnavailableSlots = kept
	return out
}

// sameSeries reports whether two slots are instances of the same recurring
// series: identical rule values plus matching anchor semantics for the rule
// type (weekday for weekly, day of month for monthly).
func sameSeries(a, b UnavailableSlot) bool {
	if !a.Recurring.Equal(b.Recurring) || !a.Recurring.Repeats() {
		return false
	}

	anchorA, errA := ParseDate(a.Date)
	anchorB, errB := ParseDate(b.Date)
	if errA != nil || errB != nil {
		return false
	}

	switch a.Recurring.Type {
	case RecurrenceWeekly:
		return anchorA.Weekday() == anchorB.Weekday()
	case RecurrenceMonthly:
		return anchorA.Day() == anchorB.Day()
	case RecurrenceDaily:
		return true
	default:
		return false
	}
}
