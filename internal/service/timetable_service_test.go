package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arviyanto/classweave/internal/dto"
	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/scheduler"
)

type mockSchedulerRepo struct {
	courses       []scheduler.Course
	gotSemester   string
	gotYear       string
	insertedCount int
}

func (m *mockSchedulerRepo) FindTimetable(ctx context.Context, day scheduler.Weekday, filter scheduler.EntryFilter, excludeID string) ([]scheduler.Entry, error) {
	return nil, nil
}

func (m *mockSchedulerRepo) FindCourses(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]scheduler.Course, error) {
	m.gotSemester = semester
	m.gotYear = academicYear
	return m.courses, nil
}

func (m *mockSchedulerRepo) FindClassrooms(ctx context.Context, activeOnly bool) ([]scheduler.Classroom, error) {
	return nil, nil
}

func (m *mockSchedulerRepo) FindStudentGroups(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]scheduler.StudentGroup, error) {
	return nil, nil
}

func (m *mockSchedulerRepo) FindFaculty(ctx context.Context, department string, activeOnly bool) ([]scheduler.Teacher, error) {
	return nil, nil
}

func (m *mockSchedulerRepo) InsertMany(ctx context.Context, entries []scheduler.Entry) error {
	m.insertedCount += len(entries)
	return nil
}

type mockTermLookup struct {
	active *models.Term
	err    error
}

func (m *mockTermLookup) GetActive(ctx context.Context) (*models.Term, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.active, nil
}

func newTimetableServiceForTest(engine scheduler.Repository, terms termLookup) *TimetableService {
	return NewTimetableService(nil, engine, nil, nil, terms, nil, validator.New(), zap.NewNop(), TimetableConfig{})
}

func TestTimetableServiceGenerateGreedyUsesActiveTermWhenOmitted(t *testing.T) {
	engine := &mockSchedulerRepo{}
	terms := &mockTermLookup{active: &models.Term{
		Type:         models.TermTypeSemester,
		AcademicYear: "2026",
	}}
	svc := newTimetableServiceForTest(engine, terms)

	_, err := svc.GenerateGreedy(context.Background(), dto.GenerateTimetableQuery{})
	require.NoError(t, err)
	assert.Equal(t, string(models.TermTypeSemester), engine.gotSemester)
	assert.Equal(t, "2026", engine.gotYear)
}

func TestTimetableServiceGenerateGreedyKeepsExplicitValues(t *testing.T) {
	engine := &mockSchedulerRepo{}
	terms := &mockTermLookup{active: &models.Term{Type: models.TermTypeSemester, AcademicYear: "2026"}}
	svc := newTimetableServiceForTest(engine, terms)

	_, err := svc.GenerateGreedy(context.Background(), dto.GenerateTimetableQuery{Semester: "2", AcademicYear: "2025"})
	require.NoError(t, err)
	assert.Equal(t, "2", engine.gotSemester)
	assert.Equal(t, "2025", engine.gotYear)
}

func TestTimetableServiceGenerateGreedyNoActiveTermFails(t *testing.T) {
	engine := &mockSchedulerRepo{}
	svc := newTimetableServiceForTest(engine, nil)

	_, err := svc.GenerateGreedy(context.Background(), dto.GenerateTimetableQuery{})
	require.Error(t, err)
}

func TestTimetableServiceTermDefaultsPropagatesLookupError(t *testing.T) {
	engine := &mockSchedulerRepo{}
	terms := &mockTermLookup{err: assertError{}}
	svc := newTimetableServiceForTest(engine, terms)

	_, err := svc.GenerateGreedy(context.Background(), dto.GenerateTimetableQuery{})
	require.Error(t, err)
}

type assertError struct{}

func (assertError) Error() string { return "active term lookup failed" }
