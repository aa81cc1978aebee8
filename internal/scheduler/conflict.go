package scheduler

import (
	"context"
	"fmt"
)

// EntryFilter selects persisted entries sharing at least one of the four
// identifiers, on a given day.
type EntryFilter struct {
	CourseID       string
	StudentGroupID string
	TeacherID      string
	ClassroomID    string
}

// Repository is the read-only view of persisted state the engine needs.
// Implementations live in internal/repository; the engine never mutates
// through this interface except via InsertMany, which is caller-driven
// and runs only after a generator has already produced a schedule.
type Repository interface {
	FindTimetable(ctx context.Context, day Weekday, filter EntryFilter, excludeID string) ([]Entry, error)
	FindCourses(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]Course, error)
	FindClassrooms(ctx context.Context, activeOnly bool) ([]Classroom, error)
	FindStudentGroups(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]StudentGroup, error)
	FindFaculty(ctx context.Context, department string, activeOnly bool) ([]Teacher, error)
	InsertMany(ctx context.Context, entries []Entry) error
}

// Entities bundles the resolved entity references a candidate placement
// concerns. Any field may be nil when that entity is unknown, in which
// case it is simply skipped by availability checks.
type Entities struct {
	Teacher   *Teacher
	Classroom *Classroom
	Group     *StudentGroup
	Names     EntityNames
}

// Candidate is a placement under consideration by the conflict kernel.
type Candidate struct {
	CourseID       string
	StudentGroupID string
	TeacherID      string
	ClassroomID    string
	Day            Weekday
	StartTime      string
	EndTime        string
}

func (c Candidate) toEntry() Entry {
	return Entry{
		CourseID:       c.CourseID,
		StudentGroupID: c.StudentGroupID,
		TeacherID:      c.TeacherID,
		ClassroomID:    c.ClassroomID,
		Day:            c.Day,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
	}
}

// CheckConflicts is the conflict-detection kernel used by every
// generation and mutation path. It is pure with respect to every input
// except the persisted-entry repository lookup; it performs no
// mutation.
func CheckConflicts(
	ctx context.Context,
	repo Repository,
	candidate Candidate,
	excludeEntryID string,
	pending []Entry,
	entities Entities,
	caps DailyCaps,
) ([]Conflict, error) {
	filter := EntryFilter{
		CourseID:       candidate.CourseID,
		StudentGroupID: candidate.StudentGroupID,
		TeacherID:      candidate.TeacherID,
		ClassroomID:    candidate.ClassroomID,
	}

	persisted, err := repo.FindTimetable(ctx, candidate.Day, filter, excludeEntryID)
	if err != nil {
		return nil, fmt.Errorf("lookup persisted timetable entries: %w", err)
	}

	return checkConflictsGiven(persisted, candidate, pending, entities, caps), nil
}

// CheckConflictsInMemory evaluates the kernel against an explicit
// persisted slate (possibly empty) with no repository round-trip. The
// genetic optimizer's fitness function uses this directly, treating the
// rest of the chromosome as the pending set and an empty persisted set.
func CheckConflictsInMemory(candidate Candidate, persisted, pending []Entry, entities Entities, caps DailyCaps) []Conflict {
	return checkConflictsGiven(persisted, candidate, pending, entities, caps)
}

func checkConflictsGiven(persisted []Entry, candidate Candidate, pending []Entry, entities Entities, caps DailyCaps) []Conflict {
	samedayPending := make([]Entry, 0, len(pending))
	for _, e := range pending {
		if e.Day == candidate.Day {
			samedayPending = append(samedayPending, e)
		}
	}

	all := make([]Entry, 0, len(persisted)+len(samedayPending))
	all = append(all, persisted...)
	all = append(all, samedayPending...)

	allWithCandidate := make([]Entry, len(all), len(all)+1)
	copy(allWithCandidate, all)
	allWithCandidate = append(allWithCandidate, candidate.toEntry())

	conflicts := checkCounts(allWithCandidate, caps, entities.Names)

	for _, e := range all {
		if !Overlaps(candidate.StartTime, candidate.EndTime, e.StartTime, e.EndTime) {
			continue
		}
		if e.CourseID == candidate.CourseID {
			conflicts = append(conflicts, Conflict{
				Kind:    DuplicateCourse,
				Message: fmt.Sprintf("Course %s already scheduled at this time", entities.Names.course(candidate.CourseID)),
			})
		}
		if e.StudentGroupID == candidate.StudentGroupID {
			conflicts = append(conflicts, Conflict{
				Kind:    DuplicateGroup,
				Message: fmt.Sprintf("Student group %s already has a class at this time", entities.Names.group(candidate.StudentGroupID)),
			})
		}
		if e.ClassroomID == candidate.ClassroomID {
			conflicts = append(conflicts, Conflict{
				Kind:    DuplicateClassroom,
				Message: fmt.Sprintf("Classroom %s is already booked at this time", entities.Names.classroom(candidate.ClassroomID)),
			})
		}
		if e.TeacherID == candidate.TeacherID {
			conflicts = append(conflicts, Conflict{
				Kind:    DuplicateTeacher,
				Message: fmt.Sprintf("Teacher %s already has a class at this time", entities.Names.teacher(candidate.TeacherID)),
			})
		}
	}

	if entities.Teacher != nil {
		if !WithinAvailability(entities.Teacher, candidate.Day, candidate.StartTime, candidate.EndTime) {
			conflicts = append(conflicts, Conflict{
				Kind:    NotAvailable,
				Message: fmt.Sprintf("Teacher %s is not available at this time", entities.Names.teacher(candidate.TeacherID)),
			})
		}
	}
	if entities.Classroom != nil {
		if !WithinAvailability(entities.Classroom, candidate.Day, candidate.StartTime, candidate.EndTime) {
			conflicts = append(conflicts, Conflict{
				Kind:    NotAvailable,
				Message: fmt.Sprintf("Classroom %s is not available at this time", entities.Names.classroom(candidate.ClassroomID)),
			})
		}
	}
	if entities.Group != nil {
		if !WithinAvailability(entities.Group, candidate.Day, candidate.StartTime, candidate.EndTime) {
			conflicts = append(conflicts, Conflict{
				Kind:    NotAvailable,
				Message: fmt.Sprintf("Student group %s is not available at this time", entities.Names.group(candidate.StudentGroupID)),
			})
		}
	}

	return conflicts
}

// Messages renders conflicts to their human-readable strings, for
// boundaries (HTTP responses, logs) that still expect plain text.
func Messages(conflicts []Conflict) []string {
	messages := make([]string, len(conflicts))
	for i, c := range conflicts {
		messages[i] = c.Message
	}
	return messages
}
