// Package recurrence expands unavailable-slot recurrence rules into concrete
// occurrence dates. Expansion is a pure function of the rule, its anchor date,
// and the requested range; there is no hidden state, so results are
// deterministic and restartable.
package recurrence

import (
	"errors"

	"github.com/teambition/rrule-go"

	"github.com/example/studio-scheduler/internal/availability"
)

// ErrInvalidFrequency indicates a recurrence type outside the supported set.
var ErrInvalidFrequency = errors.New("recurrence: invalid frequency")

// OccursOn reports whether the rule anchored on anchorDate produces an
// occurrence on targetDate. A nil rule behaves as "none": the only occurrence
// is the anchor itself.
func OccursOn(rule *availability.RecurrenceRule, anchorDate, targetDate string) (bool, error) {
	dates, err := Expand(rule, anchorDate, targetDate, targetDate)
	if err != nil {
		return false, err
	}
	return len(dates) > 0, nil
}

// Expand lists every occurrence of the rule within [rangeStart, rangeEnd]
// inclusive, intersected with the rule's own end bound. Dates are returned in
// ascending order as YYYY-MM-DD strings.
func Expand(rule *availability.RecurrenceRule, anchorDate, rangeStart, rangeEnd string) ([]string, error) {
	anchor, err := availability.ParseDate(anchorDate)
	if err != nil {
		return nil, err
	}
	start, err := availability.ParseDate(rangeStart)
	if err != nil {
		return nil, err
	}
	end, err := availability.ParseDate(rangeEnd)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, nil
	}

	if rule == nil || rule.Type == "" || rule.Type == availability.RecurrenceNone {
		if !anchor.Before(start) && !anchor.After(end) {
			return []string{availability.FormatDate(anchor)}, nil
		}
		return nil, nil
	}

	freq, err := frequencyOf(rule.Type)
	if err != nil {
		return nil, err
	}

	opts := rrule.ROption{Freq: freq, Dtstart: anchor}
	if rule.EndDate != "" {
		until, err := availability.ParseDate(rule.EndDate)
		if err != nil {
			return nil, err
		}
		opts.Until = until
	}

	// A monthly rule inherits BYMONTHDAY from its anchor, so months lacking
	// that day number are skipped rather than clamped.
	r, err := rrule.NewRRule(opts)
	if err != nil {
		return nil, err
	}

	occurrences := r.Between(start, end, true)
	dates := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		dates = append(dates, availability.FormatDate(occurrence))
	}
	return dates, nil
}

// NextOccurrence returns the first occurrence of the rule on or after
// fromDate, looking ahead at most horizon days (366 when horizon is zero or
// negative). The boolean result reports whether one was found.
func NextOccurrence(rule *availability.RecurrenceRule, anchorDate, fromDate string, horizon int) (string, bool, error) {
	if horizon <= 0 {
		horizon = 366
	}
	from, err := availability.ParseDate(fromDate)
	if err != nil {
		return "", false, err
	}
	until := from.AddDate(0, 0, horizon)
	dates, err := Expand(rule, anchorDate, fromDate, availability.FormatDate(until))
	if err != nil {
		return "", false, err
	}
	if len(dates) == 0 {
		return "", false, nil
	}
	return dates[0], true, nil
}

func frequencyOf(t availability.RecurrenceType) (rrule.Frequency, error) {
	switch t {
	case availability.RecurrenceDaily:
		return rrule.DAILY, nil
	case availability.RecurrenceWeekly:
		return rrule.WEEKLY, nil
	case availability.RecurrenceMonthly:
		return rrule.MONTHLY, nil
	default:
		return 0, ErrInvalidFrequency
	}
}
