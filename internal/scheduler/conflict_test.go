package scheduler

import (
	"context"
	"strings"
	"testing"
)

type stubRepository struct {
	timetable []Entry
}

func (s *stubRepository) FindTimetable(ctx context.Context, day Weekday, filter EntryFilter, excludeID string) ([]Entry, error) {
	var out []Entry
	for _, e := range s.timetable {
		if e.Day != day || e.ID == excludeID {
			continue
		}
		if e.CourseID == filter.CourseID || e.StudentGroupID == filter.StudentGroupID ||
			e.TeacherID == filter.TeacherID || e.ClassroomID == filter.ClassroomID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubRepository) FindCourses(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]Course, error) {
	return nil, nil
}
func (s *stubRepository) FindClassrooms(ctx context.Context, activeOnly bool) ([]Classroom, error) {
	return nil, nil
}
func (s *stubRepository) FindStudentGroups(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]StudentGroup, error) {
	return nil, nil
}
func (s *stubRepository) FindFaculty(ctx context.Context, department string, activeOnly bool) ([]Teacher, error) {
	return nil, nil
}
func (s *stubRepository) InsertMany(ctx context.Context, entries []Entry) error { return nil }

func containsSubstring(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestCheckConflictsTeacherPendingConflict(t *testing.T) {
	repo := &stubRepository{}
	pending := []Entry{{TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}}
	candidate := Candidate{CourseID: "c2", StudentGroupID: "sg2", ClassroomID: "cl2", TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}

	conflicts, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsSubstring(Messages(conflicts), "Teacher") {
		t.Fatalf("expected a conflict message mentioning Teacher, got %v", Messages(conflicts))
	}
}

func TestCheckConflictsGroupPendingConflict(t *testing.T) {
	repo := &stubRepository{}
	pending := []Entry{{StudentGroupID: "sg2", Day: Monday, StartTime: "09:00", EndTime: "10:00"}}
	candidate := Candidate{CourseID: "c2", StudentGroupID: "sg2", ClassroomID: "cl2", TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}

	conflicts, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsSubstring(Messages(conflicts), "Student group") {
		t.Fatalf("expected a conflict message mentioning Student group, got %v", Messages(conflicts))
	}
}

func TestCheckConflictsClassroomPendingConflict(t *testing.T) {
	repo := &stubRepository{}
	pending := []Entry{{ClassroomID: "cl2", Day: Monday, StartTime: "09:00", EndTime: "10:00"}}
	candidate := Candidate{CourseID: "c2", StudentGroupID: "sg2", ClassroomID: "cl2", TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}

	conflicts, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsSubstring(Messages(conflicts), "Classroom") {
		t.Fatalf("expected a conflict message mentioning Classroom, got %v", Messages(conflicts))
	}
}

func TestCheckConflictsTeacherDailyCap(t *testing.T) {
	repo := &stubRepository{}
	var pending []Entry
	for i := 0; i < 4; i++ {
		pending = append(pending, Entry{TeacherID: "t1", Day: Monday, StartTime: "08:00", EndTime: "08:30"})
	}
	candidate := Candidate{CourseID: "c5", StudentGroupID: "sg5", ClassroomID: "cl5", TeacherID: "t1", Day: Monday, StartTime: "14:00", EndTime: "15:00"}

	conflicts, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsSubstring(Messages(conflicts), "maximum daily lectures") {
		t.Fatalf("expected a conflict message mentioning maximum daily lectures, got %v", Messages(conflicts))
	}
}

func TestCheckConflictsTouchingIntervalsAreNotConflicts(t *testing.T) {
	repo := &stubRepository{}
	pending := []Entry{{TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}}
	candidate := Candidate{CourseID: "c2", StudentGroupID: "sg2", ClassroomID: "cl2", TeacherID: "t1", Day: Monday, StartTime: "10:00", EndTime: "11:00"}

	conflicts, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("touching intervals must not conflict, got %v", Messages(conflicts))
	}
}

func TestCheckConflictsIsIdempotent(t *testing.T) {
	repo := &stubRepository{}
	pending := []Entry{{TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}}
	candidate := Candidate{CourseID: "c2", StudentGroupID: "sg2", ClassroomID: "cl2", TeacherID: "t1", Day: Monday, StartTime: "09:00", EndTime: "10:00"}

	first, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := CheckConflicts(context.Background(), repo, candidate, "", pending, Entities{}, DefaultDailyCaps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(Messages(first), "|") != strings.Join(Messages(second), "|") {
		t.Fatalf("repeated checks on the same state must yield the same conflicts: %v vs %v", Messages(first), Messages(second))
	}
}
