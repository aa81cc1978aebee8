package scheduler

import (
	"context"
	"testing"
)

func TestGenerateGreedyProducesConflictFreeOutput(t *testing.T) {
	repo := &stubRepository{}
	input := GreedyInput{
		Courses: []Course{
			{ID: "c1", Duration: 60, Frequency: 2, TeacherID: "t1", StudentGroupIDs: []string{"sg1"}},
			{ID: "c2", Duration: 60, Frequency: 1, TeacherID: "t2", StudentGroupIDs: []string{"sg1"}},
		},
		StudentGroups: map[string]StudentGroup{
			"sg1": {ID: "sg1", Name: "sg1", Size: 20},
		},
		Classrooms: []Classroom{
			{ID: "cl1", Name: "cl1", Capacity: 30},
		},
		Teachers: map[string]Teacher{
			"t1": {ID: "t1", Name: "t1"},
			"t2": {ID: "t2", Name: "t2"},
		},
	}

	result, err := GenerateGreedy(context.Background(), repo, input, SlotConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Unscheduled) != 0 {
		t.Fatalf("expected every session to be placed, got unscheduled: %v", result.Unscheduled)
	}
	if len(result.Schedule) != 3 {
		t.Fatalf("expected 3 scheduled entries, got %d", len(result.Schedule))
	}

	var accepted []Entry
	for _, entry := range result.Schedule {
		candidate := Candidate{
			CourseID: entry.CourseID, StudentGroupID: entry.StudentGroupID,
			TeacherID: entry.TeacherID, ClassroomID: entry.ClassroomID,
			Day: entry.Day, StartTime: entry.StartTime, EndTime: entry.EndTime,
		}
		conflicts, err := CheckConflicts(context.Background(), repo, candidate, "", accepted, Entities{}, DefaultDailyCaps)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(conflicts) != 0 {
			t.Fatalf("replaying greedy output against the kernel produced conflicts: %v", Messages(conflicts))
		}
		accepted = append(accepted, entry)
	}
}

func TestGenerateGreedySkipsUndersizedClassrooms(t *testing.T) {
	repo := &stubRepository{}
	input := GreedyInput{
		Courses: []Course{
			{ID: "c1", Duration: 60, Frequency: 1, TeacherID: "t1", StudentGroupIDs: []string{"sg1"}},
		},
		StudentGroups: map[string]StudentGroup{
			"sg1": {ID: "sg1", Name: "sg1", Size: 40},
		},
		Classrooms: []Classroom{
			{ID: "small", Name: "small", Capacity: 10},
		},
		Teachers: map[string]Teacher{"t1": {ID: "t1", Name: "t1"}},
	}

	result, err := GenerateGreedy(context.Background(), repo, input, SlotConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Schedule) != 0 || len(result.Unscheduled) != 1 {
		t.Fatalf("expected the session to go unscheduled for lack of capacity, got schedule=%v unscheduled=%v", result.Schedule, result.Unscheduled)
	}
}
