package scheduler

import "fmt"

// DailyCaps configures the maximum lectures-per-day each entity kind may
// be booked for. Zero values fall back to the package defaults.
type DailyCaps struct {
	Teacher   int
	Group     int
	Classroom int
}

// DefaultDailyCaps mirrors the configured defaults: teacher 4, group 5,
// classroom 6.
var DefaultDailyCaps = DailyCaps{Teacher: 4, Group: 5, Classroom: 6}

func (c DailyCaps) withDefaults() DailyCaps {
	if c.Teacher <= 0 {
		c.Teacher = DefaultDailyCaps.Teacher
	}
	if c.Group <= 0 {
		c.Group = DefaultDailyCaps.Group
	}
	if c.Classroom <= 0 {
		c.Classroom = DefaultDailyCaps.Classroom
	}
	return c
}

// checkCounts counts, within sameDayEntries (which must already be
// filtered to one day and include the candidate), occurrences per
// teacher/group/classroom and emits a CapExceeded conflict for any
// entity whose count exceeds its configured cap.
func checkCounts(sameDayEntries []Entry, caps DailyCaps, names EntityNames) []Conflict {
	caps = caps.withDefaults()

	teacherCounts := map[string]int{}
	groupCounts := map[string]int{}
	classroomCounts := map[string]int{}

	for _, e := range sameDayEntries {
		if e.TeacherID != "" {
			teacherCounts[e.TeacherID]++
		}
		if e.StudentGroupID != "" {
			groupCounts[e.StudentGroupID]++
		}
		if e.ClassroomID != "" {
			classroomCounts[e.ClassroomID]++
		}
	}

	var conflicts []Conflict
	for id, count := range teacherCounts {
		if count > caps.Teacher {
			conflicts = append(conflicts, Conflict{
				Kind:    CapExceeded,
				Message: fmt.Sprintf("Teacher %s exceeds maximum daily lectures (%d > %d)", names.teacher(id), count, caps.Teacher),
			})
		}
	}
	for id, count := range groupCounts {
		if count > caps.Group {
			conflicts = append(conflicts, Conflict{
				Kind:    CapExceeded,
				Message: fmt.Sprintf("Student group %s exceeds maximum daily lectures (%d > %d)", names.group(id), count, caps.Group),
			})
		}
	}
	for id, count := range classroomCounts {
		if count > caps.Classroom {
			conflicts = append(conflicts, Conflict{
				Kind:    CapExceeded,
				Message: fmt.Sprintf("Classroom %s exceeds maximum daily lectures (%d > %d)", names.classroom(id), count, caps.Classroom),
			})
		}
	}
	return conflicts
}
