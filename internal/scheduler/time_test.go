package scheduler

import (
	"reflect"
	"testing"
)

func TestGenerateSlots(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		step     int
		duration int
		want     []string
	}{
		{"half hour step fits three times", "09:00", "10:30", 30, 30, []string{"09:00", "09:30", "10:00"}},
		{"longer duration shrinks the tail", "09:00", "12:00", 30, 90, []string{"09:00", "09:30", "10:00", "10:30"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GenerateSlots(tc.start, tc.end, tc.step, tc.duration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("GenerateSlots(%q,%q,%d,%d) = %v, want %v", tc.start, tc.end, tc.step, tc.duration, got, tc.want)
			}
		})
	}
}

func TestEndOf(t *testing.T) {
	if got := EndOf("09:00", 90); got != "10:30" {
		t.Fatalf("EndOf(09:00, 90) = %q, want 10:30", got)
	}
}

func TestEndOfRoundTrip(t *testing.T) {
	start := "09:00"
	duration := 45
	end := EndOf(start, duration)
	if got := EndOf(end, -duration); got != start {
		t.Fatalf("end_of is not invertible: EndOf(%q,-%d) = %q, want %q", end, duration, got, start)
	}
}

func TestOverlapsTouchingIntervalsAreNotConflicts(t *testing.T) {
	if Overlaps("09:00", "10:00", "10:00", "11:00") {
		t.Fatal("touching intervals must not be reported as overlapping")
	}
}

func TestOverlapsDetectsIntersection(t *testing.T) {
	if !Overlaps("09:00", "10:00", "09:30", "10:30") {
		t.Fatal("expected overlap between 09:00-10:00 and 09:30-10:30")
	}
}
