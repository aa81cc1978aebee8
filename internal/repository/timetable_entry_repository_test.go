package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arviyanto/classweave/internal/models"
)

func newTimetableEntryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableEntryRepositoryList(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "student_group_id", "teacher_id", "classroom_id", "day", "start_time", "end_time", "duration", "week_number", "semester", "academic_year", "notes", "status", "created_at", "updated_at"}).
		AddRow("e1", "c1", "g1", "t1", "r1", "MONDAY", "08:00", "09:30", 90, 0, "1", "2025/2026", "", "ACTIVE", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, student_group_id, teacher_id, classroom_id, day, start_time, end_time, duration, week_number, semester, academic_year, notes, status, created_at, updated_at FROM timetable_entries WHERE status = 'ACTIVE' ORDER BY day ASC, start_time ASC LIMIT 50 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE status = 'ACTIVE'")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TimetableEntryFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	mock.ExpectExec("INSERT INTO timetable_entries").
		WithArgs(sqlmock.AnyArg(), "c1", "g1", "t1", "r1", "MONDAY", "08:00", "09:30", 90, 0, "1", "2025/2026", "", "ACTIVE", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.TimetableEntry{
		CourseID: "c1", StudentGroupID: "g1", TeacherID: "t1", ClassroomID: "r1",
		Day: "MONDAY", StartTime: "08:00", EndTime: "09:30", Duration: 90,
		Semester: "1", AcademicYear: "2025/2026",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryInsertMany(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO timetable_entries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO timetable_entries").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entries := []models.TimetableEntry{
		{CourseID: "c1", StudentGroupID: "g1", TeacherID: "t1", ClassroomID: "r1", Day: "MONDAY", StartTime: "08:00", EndTime: "09:30", Duration: 90},
		{CourseID: "c2", StudentGroupID: "g1", TeacherID: "t2", ClassroomID: "r2", Day: "TUESDAY", StartTime: "08:00", EndTime: "09:30", Duration: 90},
	}
	err := repo.InsertMany(context.Background(), entries)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
