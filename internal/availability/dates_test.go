package availability

import (
	"reflect"
	"testing"
	"time"
)

func TestEnumerateDates(t *testing.T) {
	t.Parallel()

	start, _ := ParseDate("2024-02-27")
	end, _ := ParseDate("2024-03-02")

	got := EnumerateDates(start, end)
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("EnumerateDates = %v, want %v", got, want)
	}

	if got := EnumerateDates(end, start); got != nil {
		t.Fatalf("reversed bounds must yield nil, got %v", got)
	}
}

func TestValidateWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "valid", start: "09:00", end: "17:00"},
		{name: "adjacent minutes", start: "09:00", end: "09:01"},
		{name: "reversed", start: "17:00", end: "09:00", wantErr: true},
		{name: "equal", start: "09:00", end: "09:00", wantErr: true},
		{name: "garbage start", start: "nine", end: "17:00", wantErr: true},
		{name: "garbage end", start: "09:00", end: "5pm", wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateWindow(tc.start, tc.end)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateWindow(%q, %q) error = %v, wantErr %v", tc.start, tc.end, err, tc.wantErr)
			}
		})
	}
}

func TestWindowsOverlap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a    [2]string
		b    [2]string
		want bool
	}{
		{name: "disjoint", a: [2]string{"09:00", "10:00"}, b: [2]string{"11:00", "12:00"}, want: false},
		{name: "touching is not overlap", a: [2]string{"09:00", "10:00"}, b: [2]string{"10:00", "11:00"}, want: false},
		{name: "partial", a: [2]string{"09:00", "10:30"}, b: [2]string{"10:00", "11:00"}, want: true},
		{name: "contained", a: [2]string{"09:00", "17:00"}, b: [2]string{"10:00", "11:00"}, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := WindowsOverlap(tc.a[0], tc.a[1], tc.b[0], tc.b[1]); got != tc.want {
				t.Fatalf("WindowsOverlap(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := WindowsOverlap(tc.b[0], tc.b[1], tc.a[0], tc.a[1]); got != tc.want {
				t.Fatalf("overlap must be symmetric for %v / %v", tc.a, tc.b)
			}
		})
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	t.Parallel()

	day, err := ParseDate("2024-06-10")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if day.Location() != time.UTC {
		t.Fatalf("dates must parse in UTC, got %v", day.Location())
	}
	if FormatDate(day) != "2024-06-10" {
		t.Fatalf("round trip mismatch: %s", FormatDate(day))
	}
}
