package availability

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddSlot_AssignsFreshID(t *testing.T) {
	t.Parallel()

	record := NewRecord("user-1")
	updated, created, err := AddSlot(record, UnavailableSlot{
		Date:      "2024-06-10",
		StartTime: "09:00",
		EndTime:   "10:30",
		Title:     "Kickoff call",
	}, func() string { return "slot-1" })
	if err != nil {
		t.Fatalf("AddSlot returned error: %v", err)
	}

	if created.ID != "slot-1" {
		t.Fatalf("expected assigned id slot-1, got %q", created.ID)
	}
	if len(updated.UnavailableSlots) != 1 {
		t.Fatalf("expected one slot, got %d", len(updated.UnavailableSlots))
	}
	if len(record.UnavailableSlots) != 0 {
		t.Fatal("input record must not be mutated")
	}
}

func TestAddSlot_RejectsInvalidWindow(t *testing.T) {
	t.Parallel()

	record := NewRecord("user-1")
	record.UnavailableSlots = []UnavailableSlot{
		{ID: "existing", Date: "2024-06-10", StartTime: "09:00", EndTime: "10:00"},
	}
	before := record.Clone()

	cases := []struct {
		name string
		slot UnavailableSlot
		want error
	}{
		{
			name: "start after end",
			slot: UnavailableSlot{Date: "2024-06-10", StartTime: "10:00", EndTime: "09:00"},
			want: ErrInvalidTimeRange,
		},
		{
			name: "start equals end",
			slot: UnavailableSlot{Date: "2024-06-10", StartTime: "10:00", EndTime: "10:00"},
			want: ErrInvalidTimeRange,
		},
		{
			name: "malformed time",
			slot: UnavailableSlot{Date: "2024-06-10", StartTime: "9am", EndTime: "10:00"},
			want: ErrInvalidTimeRange,
		},
		{
			name: "malformed date",
			slot: UnavailableSlot{Date: "2024/06/10", StartTime: "09:00", EndTime: "10:00"},
			want: ErrInvalidDateRange,
		},
		{
			name: "malformed recurrence end",
			slot: UnavailableSlot{
				Date: "2024-06-10", StartTime: "09:00", EndTime: "10:00",
				Recurring: &RecurrenceRule{Type: RecurrenceWeekly, EndDate: "soon"},
			},
			want: ErrInvalidDateRange,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := AddSlot(record, tc.slot, func() string { return "new" })
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !reflect.DeepEqual(record, before) {
				t.Fatalf("record changed after failed create:\nbefore: %+v\nafter:  %+v", before, record)
			}
		})
	}
}

func weeklySeriesRecord() Record {
	rule := RecurrenceRule{Type: RecurrenceWeekly}
	record := NewRecord("user-1")
	record.UnavailableSlots = []UnavailableSlot{
		{ID: "a", Date: "2024-06-03", StartTime: "09:00", EndTime: "10:00", Title: "Standup", Recurring: &rule},
		{ID: "b", Date: "2024-06-10", StartTime: "09:00", EndTime: "10:00", Title: "Standup", Recurring: &rule},
		{ID: "c", Date: "2024-06-17", StartTime: "09:00", EndTime: "10:00", Title: "Standup", Recurring: &rule},
		// Same rule shape, different weekday: a different series.
		{ID: "d", Date: "2024-06-11", StartTime: "09:00", EndTime: "10:00", Title: "Review", Recurring: &rule},
		{ID: "e", Date: "2024-06-12", StartTime: "13:00", EndTime: "14:00", Title: "One-off"},
	}
	return record
}

func TestRemoveSlot_SingleInstance(t *testing.T) {
	t.Parallel()

	updated := RemoveSlot(weeklySeriesRecord(), "b", false)
	if len(updated.UnavailableSlots) != 4 {
		t.Fatalf("expected 4 slots after single delete, got %d", len(updated.UnavailableSlots))
	}
	if _, ok := updated.SlotByID("b"); ok {
		t.Fatal("slot b should be gone")
	}
	for _, id := range []string{"a", "c", "d", "e"} {
		if _, ok := updated.SlotByID(id); !ok {
			t.Fatalf("slot %s should remain", id)
		}
	}
}

func TestRemoveSlot_RecurringSeries(t *testing.T) {
	t.Parallel()

	updated := RemoveSlot(weeklySeriesRecord(), "b", true)
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := updated.SlotByID(id); ok {
			t.Fatalf("series member %s should be removed", id)
		}
	}
	if _, ok := updated.SlotByID("d"); !ok {
		t.Fatal("slot on a different weekday belongs to another series and must remain")
	}
	if _, ok := updated.SlotByID("e"); !ok {
		t.Fatal("non-recurring slot must remain")
	}
}

func TestRemoveSlot_RecurringFlagOnNonRecurringSlot(t *testing.T) {
	t.Parallel()

	updated := RemoveSlot(weeklySeriesRecord(), "e", true)
	if len(updated.UnavailableSlots) != 4 {
		t.Fatalf("expected only the targeted slot removed, got %d remaining", len(updated.UnavailableSlots))
	}
	if _, ok := updated.SlotByID("e"); ok {
		t.Fatal("slot e should be gone")
	}
}

func TestRemoveSlot_MissingIDIsNoOp(t *testing.T) {
	t.Parallel()

	record := weeklySeriesRecord()
	updated := RemoveSlot(record, "nope", true)
	if !reflect.DeepEqual(record, updated) {
		t.Fatal("deleting a nonexistent id must not change the record")
	}
}

func TestSameSeries_MonthlyMatchesDayOfMonth(t *testing.T) {
	t.Parallel()

	rule := RecurrenceRule{Type: RecurrenceMonthly}
	jan := UnavailableSlot{ID: "1", Date: "2024-01-15", Recurring: &rule}
	feb := UnavailableSlot{ID: "2", Date: "2024-02-15", Recurring: &rule}
	mar := UnavailableSlot{ID: "3", Date: "2024-03-20", Recurring: &rule}

	if !sameSeries(jan, feb) {
		t.Fatal("monthly slots on the same day of month belong to one series")
	}
	if sameSeries(jan, mar) {
		t.Fatal("monthly slots on different days of month are separate series")
	}
}
