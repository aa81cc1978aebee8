package repository

import (
	"context"
	"fmt"

	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/scheduler"
)

// SchedulerRepository adapts the model-layer repositories to the
// scheduler engine's read-only Repository interface, translating
// between the richer persisted models and the engine's scheduling
// types.
type SchedulerRepository struct {
	courses       *CourseRepository
	studentGroups *StudentGroupRepository
	classrooms    *ClassroomRepository
	teachers      *TeacherRepository
	timetable     *TimetableEntryRepository
}

// NewSchedulerRepository composes the model-layer repositories behind
// the scheduler.Repository interface.
func NewSchedulerRepository(
	courses *CourseRepository,
	studentGroups *StudentGroupRepository,
	classrooms *ClassroomRepository,
	teachers *TeacherRepository,
	timetable *TimetableEntryRepository,
) *SchedulerRepository {
	return &SchedulerRepository{
		courses:       courses,
		studentGroups: studentGroups,
		classrooms:    classrooms,
		teachers:      teachers,
		timetable:     timetable,
	}
}

// FindTimetable implements scheduler.Repository.
func (r *SchedulerRepository) FindTimetable(ctx context.Context, day scheduler.Weekday, filter scheduler.EntryFilter, excludeID string) ([]scheduler.Entry, error) {
	rows, err := r.timetable.FindByDayAndAnyOf(ctx, string(day), filter.CourseID, filter.StudentGroupID, filter.TeacherID, filter.ClassroomID, excludeID)
	if err != nil {
		return nil, err
	}
	entries := make([]scheduler.Entry, len(rows))
	for i, e := range rows {
		entries[i] = entryToEngine(e)
	}
	return entries, nil
}

// FindCourses implements scheduler.Repository.
func (r *SchedulerRepository) FindCourses(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]scheduler.Course, error) {
	rows, err := r.courses.FindForScheduling(ctx, semester, academicYear, department, activeOnly)
	if err != nil {
		return nil, err
	}
	courses := make([]scheduler.Course, len(rows))
	for i, c := range rows {
		courses[i] = courseToEngine(c)
	}
	return courses, nil
}

// FindClassrooms implements scheduler.Repository.
func (r *SchedulerRepository) FindClassrooms(ctx context.Context, activeOnly bool) ([]scheduler.Classroom, error) {
	rows, err := r.classrooms.FindForScheduling(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	classrooms := make([]scheduler.Classroom, len(rows))
	for i, c := range rows {
		classrooms[i] = classroomToEngine(c)
	}
	return classrooms, nil
}

// FindStudentGroups implements scheduler.Repository.
func (r *SchedulerRepository) FindStudentGroups(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]scheduler.StudentGroup, error) {
	rows, err := r.studentGroups.FindForScheduling(ctx, semester, academicYear, department, activeOnly)
	if err != nil {
		return nil, err
	}
	groups := make([]scheduler.StudentGroup, len(rows))
	for i, g := range rows {
		groups[i] = studentGroupToEngine(g)
	}
	return groups, nil
}

// FindFaculty implements scheduler.Repository.
func (r *SchedulerRepository) FindFaculty(ctx context.Context, department string, activeOnly bool) ([]scheduler.Teacher, error) {
	rows, err := r.teachers.FindForScheduling(ctx, department, activeOnly)
	if err != nil {
		return nil, err
	}
	teachers := make([]scheduler.Teacher, len(rows))
	for i, t := range rows {
		teachers[i] = teacherToEngine(t)
	}
	return teachers, nil
}

// InsertMany implements scheduler.Repository.
func (r *SchedulerRepository) InsertMany(ctx context.Context, entries []scheduler.Entry) error {
	rows := make([]models.TimetableEntry, len(entries))
	for i, e := range entries {
		rows[i] = entryFromEngine(e)
	}
	if err := r.timetable.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("persist generated timetable entries: %w", err)
	}
	return nil
}

func courseToEngine(c models.Course) scheduler.Course {
	return scheduler.Course{
		ID:              c.ID,
		Name:            c.Name,
		Code:            c.Code,
		Duration:        c.Duration,
		Frequency:       c.Frequency,
		TeacherID:       c.TeacherID,
		StudentGroupIDs: []string(c.StudentGroupIDs),
		Semester:        c.Semester,
		AcademicYear:    c.AcademicYear,
		Department:      c.Department,
		Active:          c.Active,
	}
}

func studentGroupToEngine(g models.StudentGroup) scheduler.StudentGroup {
	return scheduler.StudentGroup{
		ID:              g.ID,
		Name:            g.Name,
		Size:            g.Size,
		Semester:        g.Semester,
		AcademicYear:    g.AcademicYear,
		Department:      g.Department,
		Availability:    g.Availability.ToEngine(),
		BlackoutPeriods: g.BlackoutPeriods.ToEngine(),
		Active:          g.Active,
	}
}

func classroomToEngine(c models.Classroom) scheduler.Classroom {
	return scheduler.Classroom{
		ID:              c.ID,
		Name:            c.Name,
		Capacity:        c.Capacity,
		Availability:    c.Availability.ToEngine(),
		BlackoutPeriods: c.BlackoutPeriods.ToEngine(),
		Active:          c.Active,
	}
}

func teacherToEngine(t models.Teacher) scheduler.Teacher {
	return scheduler.Teacher{
		ID:              t.ID,
		Name:            t.FullName,
		Department:      t.Department,
		Availability:    t.Availability.ToEngine(),
		BlackoutPeriods: t.BlackoutPeriods.ToEngine(),
		Active:          t.Active,
	}
}

func entryToEngine(e models.TimetableEntry) scheduler.Entry {
	return scheduler.Entry{
		ID:             e.ID,
		CourseID:       e.CourseID,
		StudentGroupID: e.StudentGroupID,
		TeacherID:      e.TeacherID,
		ClassroomID:    e.ClassroomID,
		Day:            scheduler.Weekday(e.Day),
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Duration:       e.Duration,
		WeekNumber:     e.WeekNumber,
		Semester:       e.Semester,
		AcademicYear:   e.AcademicYear,
		Notes:          e.Notes,
		Status:         e.Status,
	}
}

func entryFromEngine(e scheduler.Entry) models.TimetableEntry {
	status := e.Status
	if status == "" {
		status = models.TimetableEntryStatusActive
	}
	return models.TimetableEntry{
		ID:             e.ID,
		CourseID:       e.CourseID,
		StudentGroupID: e.StudentGroupID,
		TeacherID:      e.TeacherID,
		ClassroomID:    e.ClassroomID,
		Day:            string(e.Day),
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		Duration:       e.Duration,
		WeekNumber:     e.WeekNumber,
		Semester:       e.Semester,
		AcademicYear:   e.AcademicYear,
		Notes:          e.Notes,
		Status:         status,
	}
}
