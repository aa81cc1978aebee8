package scheduler

import (
	"context"
	"fmt"
)

// SlotConfig governs the working window every generator draws start
// times from.
type SlotConfig struct {
	Start string
	End   string
	Step  int
	Caps  DailyCaps
}

func (c SlotConfig) withDefaults() SlotConfig {
	if c.Start == "" {
		c.Start = DefaultSlotStart
	}
	if c.End == "" {
		c.End = DefaultSlotEnd
	}
	if c.Step <= 0 {
		c.Step = DefaultSlotStep
	}
	c.Caps = c.Caps.withDefaults()
	return c
}

// GreedyInput bundles the entity snapshot a generation request loads
// once, up front.
type GreedyInput struct {
	Courses       []Course
	StudentGroups map[string]StudentGroup
	Classrooms    []Classroom
	Teachers      map[string]Teacher
	Names         EntityNames
}

// UnscheduledSession records a session the greedy sweep could not place,
// along with the conflicts of its last attempted slot, for debug output.
type UnscheduledSession struct {
	CourseID       string
	StudentGroupID string
	SessionIndex   int
	LastConflicts  []Conflict
}

// GreedyResult is the output of the greedy first-fit generator.
type GreedyResult struct {
	Schedule    []Entry
	Unscheduled []UnscheduledSession
}

// GenerateGreedy performs a deterministic first-fit sweep over
// (course x frequency) x day x start-time x classroom. Persisted state
// is consulted through repo; nothing is written back — the caller must
// explicitly commit the returned schedule.
func GenerateGreedy(ctx context.Context, repo Repository, input GreedyInput, cfg SlotConfig) (*GreedyResult, error) {
	cfg = cfg.withDefaults()

	var pending []Entry
	var unscheduled []UnscheduledSession

	for _, course := range input.Courses {
		slots, err := GenerateSlots(cfg.Start, cfg.End, cfg.Step, course.Duration)
		if err != nil {
			return nil, fmt.Errorf("generate slots for course %s: %w", course.ID, err)
		}

		for _, groupID := range course.StudentGroupIDs {
			group, ok := input.StudentGroups[groupID]
			if !ok {
				continue
			}

			for session := 0; session < course.Frequency; session++ {
				placed, lastConflicts := placeSession(ctx, repo, course, group, input, slots, cfg, &pending)
				if !placed {
					unscheduled = append(unscheduled, UnscheduledSession{
						CourseID:       course.ID,
						StudentGroupID: groupID,
						SessionIndex:   session,
						LastConflicts:  lastConflicts,
					})
				}
			}
		}
	}

	return &GreedyResult{Schedule: pending, Unscheduled: unscheduled}, nil
}

func placeSession(
	ctx context.Context,
	repo Repository,
	course Course,
	group StudentGroup,
	input GreedyInput,
	slots []string,
	cfg SlotConfig,
	pending *[]Entry,
) (bool, []Conflict) {
	teacher, hasTeacher := input.Teachers[course.TeacherID]

	var lastConflicts []Conflict
	for _, day := range Weekdays {
		for _, start := range slots {
			end := EndOf(start, course.Duration)
			for _, classroom := range input.Classrooms {
				if classroom.Capacity < group.Size {
					continue
				}

				candidate := Candidate{
					CourseID:       course.ID,
					StudentGroupID: group.ID,
					TeacherID:      course.TeacherID,
					ClassroomID:    classroom.ID,
					Day:            day,
					StartTime:      start,
					EndTime:        end,
				}

				entities := Entities{Group: &group, Classroom: &classroom, Names: input.Names}
				if hasTeacher {
					entities.Teacher = &teacher
				}

				conflicts, err := CheckConflicts(ctx, repo, candidate, "", *pending, entities, cfg.Caps)
				if err != nil {
					lastConflicts = []Conflict{{Kind: NotAvailable, Message: err.Error()}}
					continue
				}
				if len(conflicts) == 0 {
					*pending = append(*pending, Entry{
						CourseID:       course.ID,
						StudentGroupID: group.ID,
						TeacherID:      course.TeacherID,
						ClassroomID:    classroom.ID,
						Day:            day,
						StartTime:      start,
						EndTime:        end,
						Duration:       course.Duration,
						Semester:       course.Semester,
						AcademicYear:   course.AcademicYear,
					})
					return true, nil
				}
				lastConflicts = conflicts
			}
		}
	}
	return false, lastConflicts
}
