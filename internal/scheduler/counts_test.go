package scheduler

import "testing"

func TestCheckCountsExceedsCap(t *testing.T) {
	entries := []Entry{
		{TeacherID: "t1"}, {TeacherID: "t1"}, {TeacherID: "t1"}, {TeacherID: "t1"}, {TeacherID: "t1"},
	}
	conflicts := checkCounts(entries, DailyCaps{Teacher: 4}, EntityNames{})
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one CapExceeded conflict, got %v", conflicts)
	}
	if conflicts[0].Kind != CapExceeded {
		t.Fatalf("expected CapExceeded, got %v", conflicts[0].Kind)
	}
}

func TestCheckCountsWithinCapProducesNoConflict(t *testing.T) {
	entries := []Entry{{TeacherID: "t1"}, {TeacherID: "t1"}}
	conflicts := checkCounts(entries, DailyCaps{Teacher: 4}, EntityNames{})
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts within cap, got %v", conflicts)
	}
}

func TestDailyCapsWithDefaultsFillsZeroes(t *testing.T) {
	caps := DailyCaps{}.withDefaults()
	if caps != DefaultDailyCaps {
		t.Fatalf("expected zero caps to fall back to defaults, got %v", caps)
	}
}
