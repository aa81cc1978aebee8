package scheduler

import (
	"context"
	"testing"
)

func buildGraphColorInput() GreedyInput {
	return GreedyInput{
		Courses: []Course{
			{ID: "c1", Duration: 60, Frequency: 1, TeacherID: "t1", StudentGroupIDs: []string{"sg1"}},
			{ID: "c2", Duration: 60, Frequency: 1, TeacherID: "t1", StudentGroupIDs: []string{"sg2"}},
			{ID: "c3", Duration: 60, Frequency: 1, TeacherID: "t2", StudentGroupIDs: []string{"sg1"}},
		},
		StudentGroups: map[string]StudentGroup{
			"sg1": {ID: "sg1", Name: "sg1", Size: 20},
			"sg2": {ID: "sg2", Name: "sg2", Size: 20},
		},
		Classrooms: []Classroom{
			{ID: "cl1", Name: "cl1", Capacity: 30},
			{ID: "cl2", Name: "cl2", Capacity: 30},
		},
		Teachers: map[string]Teacher{
			"t1": {ID: "t1", Name: "t1"},
			"t2": {ID: "t2", Name: "t2"},
		},
	}
}

func TestGenerateGraphColoringDSATURProducesConflictFreeOutput(t *testing.T) {
	repo := &stubRepository{}
	result, err := GenerateGraphColoring(context.Background(), repo, buildGraphColorInput(), SlotConfig{}, DSATUR)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEntriesConflictFree(t, repo, result.Schedule)
}

func TestGenerateGraphColoringWelshPowellProducesConflictFreeOutput(t *testing.T) {
	repo := &stubRepository{}
	result, err := GenerateGraphColoring(context.Background(), repo, buildGraphColorInput(), SlotConfig{}, WelshPowell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEntriesConflictFree(t, repo, result.Schedule)
}

func assertEntriesConflictFree(t *testing.T, repo Repository, schedule []Entry) {
	t.Helper()
	var accepted []Entry
	for _, entry := range schedule {
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
			t.Fatalf("colored output produced conflicts when replayed: %v", Messages(conflicts))
		}
		accepted = append(accepted, entry)
	}
}

func TestBuildConflictGraphJoinsSharedTeacherAndGroup(t *testing.T) {
	input := buildGraphColorInput()
	sessions, courseByIndex, _ := expandSessions(input)
	adjacency := buildConflictGraph(sessions, courseByIndex)

	// c1/sg1/t1 and c2/sg2/t1 share a teacher.
	if !adjacency[0][1] {
		t.Fatal("sessions sharing a teacher must be adjacent")
	}
	// c1/sg1/t1 and c3/sg1/t2 share a student group.
	if !adjacency[0][2] {
		t.Fatal("sessions sharing a student group must be adjacent")
	}
	// c2/sg2/t1 and c3/sg1/t2 share neither.
	if adjacency[1][2] {
		t.Fatal("sessions sharing neither teacher nor group must not be adjacent")
	}
}
