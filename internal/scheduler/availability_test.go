package scheduler

import "testing"

func TestWithinAvailabilityNilEntityIsUnconstrained(t *testing.T) {
	if !WithinAvailability(nil, Monday, "09:00", "10:00") {
		t.Fatal("nil entity must be treated as unconstrained")
	}
}

func TestWithinAvailabilityAbsentDayIsUnavailable(t *testing.T) {
	teacher := &Teacher{
		ID: "t1",
		Availability: Availability{
			Monday: []Interval{{Start: "09:00", End: "17:00"}},
		},
	}
	if WithinAvailability(teacher, Tuesday, "09:00", "10:00") {
		t.Fatal("a day absent from a declared availability map must be unavailable")
	}
}

func TestWithinAvailabilityBlackoutOverridesAvailability(t *testing.T) {
	room := &Classroom{
		ID: "cl1",
		Availability: Availability{
			Monday: []Interval{{Start: "09:00", End: "17:00"}},
		},
		BlackoutPeriods: Availability{
			Monday: []Interval{{Start: "12:00", End: "13:00"}},
		},
	}
	if WithinAvailability(room, Monday, "12:00", "13:00") {
		t.Fatal("blackout window must take priority over a matching availability window")
	}
	if !WithinAvailability(room, Monday, "09:00", "10:00") {
		t.Fatal("slot outside the blackout window should remain available")
	}
}

func TestWithinAvailabilityNoRecordsAtAllIsUnconstrained(t *testing.T) {
	group := &StudentGroup{ID: "g1"}
	if !WithinAvailability(group, Wednesday, "09:00", "10:00") {
		t.Fatal("entity with neither availability nor blackout data must be unconstrained")
	}
}
