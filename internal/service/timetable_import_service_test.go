package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arviyanto/classweave/internal/models"
)

type importMockCourseRepo struct {
	created []models.Course
}

func (m *importMockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return nil, 0, nil
}
func (m *importMockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return nil, sql.ErrNoRows
}
func (m *importMockCourseRepo) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return false, nil
}
func (m *importMockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "course-generated"
	m.created = append(m.created, *course)
	return nil
}
func (m *importMockCourseRepo) Update(ctx context.Context, course *models.Course) error { return nil }
func (m *importMockCourseRepo) Delete(ctx context.Context, id string) error             { return nil }

type importMockClassroomRepo struct {
	created []models.Classroom
	failOn  string
}

func (m *importMockClassroomRepo) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error) {
	return nil, 0, nil
}
func (m *importMockClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	return nil, sql.ErrNoRows
}
func (m *importMockClassroomRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return name == m.failOn, nil
}
func (m *importMockClassroomRepo) Create(ctx context.Context, classroom *models.Classroom) error {
	classroom.ID = "classroom-generated"
	m.created = append(m.created, *classroom)
	return nil
}
func (m *importMockClassroomRepo) Update(ctx context.Context, classroom *models.Classroom) error {
	return nil
}
func (m *importMockClassroomRepo) Delete(ctx context.Context, id string) error { return nil }

type importMockGroupRepo struct {
	created []models.StudentGroup
}

func (m *importMockGroupRepo) List(ctx context.Context, filter models.StudentGroupFilter) ([]models.StudentGroup, int, error) {
	return nil, 0, nil
}
func (m *importMockGroupRepo) FindByID(ctx context.Context, id string) (*models.StudentGroup, error) {
	return nil, sql.ErrNoRows
}
func (m *importMockGroupRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return false, nil
}
func (m *importMockGroupRepo) Create(ctx context.Context, group *models.StudentGroup) error {
	group.ID = "group-generated"
	m.created = append(m.created, *group)
	return nil
}
func (m *importMockGroupRepo) Update(ctx context.Context, group *models.StudentGroup) error { return nil }
func (m *importMockGroupRepo) Delete(ctx context.Context, id string) error                  { return nil }
func (m *importMockGroupRepo) CountCourses(ctx context.Context, groupID string) (int, error) {
	return 0, nil
}
func (m *importMockGroupRepo) MembershipsForUser(ctx context.Context, userID string) ([]string, error) {
	return nil, nil
}

func newTestImportService() (*TimetableImportService, *importMockCourseRepo, *importMockClassroomRepo, *importMockGroupRepo) {
	courseRepo := &importMockCourseRepo{}
	classroomRepo := &importMockClassroomRepo{}
	groupRepo := &importMockGroupRepo{}
	svc := NewTimetableImportService(
		NewCourseService(courseRepo, validator.New(), zap.NewNop()),
		NewClassroomService(classroomRepo, validator.New(), zap.NewNop()),
		NewStudentGroupService(groupRepo, validator.New(), zap.NewNop()),
		zap.NewNop(),
	)
	return svc, courseRepo, classroomRepo, groupRepo
}

func TestTimetableImportServiceCourses(t *testing.T) {
	svc, courseRepo, _, _ := newTestImportService()

	csv := "code,name,duration,frequency,teacher_id,student_group_ids,semester,academic_year,department\n" +
		"CS101,Intro to CS,90,2,t1,g1;g2,1,2026,Computer Science\n"

	resp, err := svc.Import(context.Background(), ImportKindCourses, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 0, resp.Failed)
	require.Len(t, courseRepo.created, 1)
	assert.Equal(t, models.StringSlice{"g1", "g2"}, courseRepo.created[0].StudentGroupIDs)
}

func TestTimetableImportServiceClassroomsPartialFailure(t *testing.T) {
	svc, _, classroomRepo, _ := newTestImportService()
	classroomRepo.failOn = "Room B"

	csv := "name,capacity\nRoom A,30\nRoom B,40\n"

	resp, err := svc.Import(context.Background(), ImportKindClassrooms, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Rows, 2)
	assert.True(t, resp.Rows[0].Success)
	assert.False(t, resp.Rows[1].Success)
	assert.NotEmpty(t, resp.Rows[1].Error)
}

func TestTimetableImportServiceStudentGroups(t *testing.T) {
	svc, _, _, groupRepo := newTestImportService()

	csv := "name,size,semester,academic_year,department\nGroup A,35,1,2026,Computer Science\n"

	resp, err := svc.Import(context.Background(), ImportKindStudentGroups, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	require.Len(t, groupRepo.created, 1)
	assert.Equal(t, "Group A", groupRepo.created[0].Name)
}

func TestTimetableImportServiceUnsupportedKind(t *testing.T) {
	svc, _, _, _ := newTestImportService()
	_, err := svc.Import(context.Background(), "rooms", []byte("name\n"))
	require.Error(t, err)
}

func TestSplitAndTrimList(t *testing.T) {
	assert.Equal(t, []string{"g1", "g2"}, splitAndTrimList(" g1 ; g2 "))
	assert.Empty(t, splitAndTrimList(""))
}
