package recurrence

import (
	"errors"
	"reflect"
	"testing"

	"github.com/example/studio-scheduler/internal/availability"
)

func rule(t availability.RecurrenceType, end string) *availability.RecurrenceRule {
	return &availability.RecurrenceRule{Type: t, EndDate: end}
}

func TestOccursOn(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		rule   *availability.RecurrenceRule
		anchor string
		target string
		want   bool
	}{
		{name: "nil rule on anchor", rule: nil, anchor: "2024-06-10", target: "2024-06-10", want: true},
		{name: "nil rule off anchor", rule: nil, anchor: "2024-06-10", target: "2024-06-11", want: false},
		{name: "none on anchor", rule: rule(availability.RecurrenceNone, ""), anchor: "2024-06-10", target: "2024-06-10", want: true},
		{name: "none off anchor", rule: rule(availability.RecurrenceNone, ""), anchor: "2024-06-10", target: "2024-06-17", want: false},

		{name: "daily after anchor", rule: rule(availability.RecurrenceDaily, ""), anchor: "2024-06-10", target: "2024-09-01", want: true},
		{name: "daily before anchor", rule: rule(availability.RecurrenceDaily, ""), anchor: "2024-06-10", target: "2024-06-09", want: false},
		{name: "daily on end bound", rule: rule(availability.RecurrenceDaily, "2024-06-15"), anchor: "2024-06-10", target: "2024-06-15", want: true},
		{name: "daily past end bound", rule: rule(availability.RecurrenceDaily, "2024-06-15"), anchor: "2024-06-10", target: "2024-06-16", want: false},

		{name: "weekly same weekday", rule: rule(availability.RecurrenceWeekly, ""), anchor: "2024-06-10", target: "2024-07-01", want: true},
		{name: "weekly other weekday", rule: rule(availability.RecurrenceWeekly, ""), anchor: "2024-06-10", target: "2024-07-02", want: false},
		{name: "weekly before anchor", rule: rule(availability.RecurrenceWeekly, ""), anchor: "2024-06-10", target: "2024-06-03", want: false},

		{name: "monthly same day", rule: rule(availability.RecurrenceMonthly, ""), anchor: "2024-01-15", target: "2024-04-15", want: true},
		{name: "monthly other day", rule: rule(availability.RecurrenceMonthly, ""), anchor: "2024-01-15", target: "2024-04-16", want: false},
		{name: "monthly 31st skips april", rule: rule(availability.RecurrenceMonthly, ""), anchor: "2024-01-31", target: "2024-04-30", want: false},
		{name: "monthly 31st hits may", rule: rule(availability.RecurrenceMonthly, ""), anchor: "2024-01-31", target: "2024-05-31", want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := OccursOn(tc.rule, tc.anchor, tc.target)
			if err != nil {
				t.Fatalf("OccursOn returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("OccursOn(%v, %s, %s) = %v, want %v", tc.rule, tc.anchor, tc.target, got, tc.want)
			}
		})
	}
}

func TestExpand_Weekly(t *testing.T) {
	t.Parallel()

	got, err := Expand(rule(availability.RecurrenceWeekly, ""), "2024-06-10", "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	want := []string{"2024-06-10", "2024-06-17", "2024-06-24"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand weekly = %v, want %v", got, want)
	}
}

func TestExpand_MonthlySkipsShortMonths(t *testing.T) {
	t.Parallel()

	got, err := Expand(rule(availability.RecurrenceMonthly, ""), "2024-01-31", "2024-01-01", "2024-06-30")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	// February, April, and June 2024 have no 31st.
	want := []string{"2024-01-31", "2024-03-31", "2024-05-31"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand monthly = %v, want %v", got, want)
	}
}

func TestExpand_IntersectsRuleBound(t *testing.T) {
	t.Parallel()

	got, err := Expand(rule(availability.RecurrenceDaily, "2024-06-12"), "2024-06-10", "2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	want := []string{"2024-06-10", "2024-06-11", "2024-06-12"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand bounded daily = %v, want %v", got, want)
	}
}

func TestExpand_IsRestartable(t *testing.T) {
	t.Parallel()

	first, err := Expand(rule(availability.RecurrenceWeekly, ""), "2024-06-10", "2024-06-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	second, err := Expand(rule(availability.RecurrenceWeekly, ""), "2024-06-10", "2024-06-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated expansion must be deterministic")
	}
}

func TestExpand_EmptyWhenRangePrecedesAnchor(t *testing.T) {
	t.Parallel()

	got, err := Expand(rule(availability.RecurrenceDaily, ""), "2024-06-10", "2024-05-01", "2024-05-31")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no occurrences before the anchor, got %v", got)
	}
}

func TestExpand_RejectsUnknownFrequency(t *testing.T) {
	t.Parallel()

	_, err := Expand(&availability.RecurrenceRule{Type: "yearly"}, "2024-06-10", "2024-06-01", "2024-06-30")
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestExpand_RejectsMalformedDates(t *testing.T) {
	t.Parallel()

	_, err := Expand(rule(availability.RecurrenceDaily, ""), "June 10", "2024-06-01", "2024-06-30")
	if !errors.Is(err, availability.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestNextOccurrence(t *testing.T) {
	t.Parallel()

	next, ok, err := NextOccurrence(rule(availability.RecurrenceWeekly, ""), "2024-06-10", "2024-06-12", 0)
	if err != nil {
		t.Fatalf("NextOccurrence returned error: %v", err)
	}
	if !ok || next != "2024-06-17" {
		t.Fatalf("NextOccurrence = %q (%v), want 2024-06-17", next, ok)
	}

	_, ok, err = NextOccurrence(rule(availability.RecurrenceDaily, "2024-06-05"), "2024-06-01", "2024-06-10", 30)
	if err != nil {
		t.Fatalf("NextOccurrence returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no occurrence after the rule's end bound")
	}
}

func BenchmarkExpandWeeklyYear(b *testing.B) {
	weekly := rule(availability.RecurrenceWeekly, "")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Expand(weekly, "2024-01-01", "2024-01-01", "2024-12-31"); err != nil {
			b.Fatal(err)
		}
	}
}
