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

func newStudentGroupRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentGroupRepositoryList(t *testing.T) {
	db, mock, cleanup := newStudentGroupRepoMock(t)
	defer cleanup()
	repo := NewStudentGroupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "size", "semester", "academic_year", "department", "availability", "blackout_periods", "active", "created_at", "updated_at"}).
		AddRow("g1", "CS-A", 30, "1", "2025/2026", "CS", nil, nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, size, semester, academic_year, department, availability, blackout_periods, active, created_at, updated_at FROM student_groups WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM student_groups WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.StudentGroupFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentGroupRepositoryMembershipsForUser(t *testing.T) {
	db, mock, cleanup := newStudentGroupRepoMock(t)
	defer cleanup()
	repo := NewStudentGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_group_id FROM student_group_memberships WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"student_group_id"}).AddRow("g1").AddRow("g2"))

	ids, err := repo.MembershipsForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentGroupRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentGroupRepoMock(t)
	defer cleanup()
	repo := NewStudentGroupRepository(db)

	mock.ExpectExec("INSERT INTO student_groups").
		WithArgs(sqlmock.AnyArg(), "CS-A", 30, "1", "2025/2026", "CS", sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.StudentGroup{
		Name: "CS-A", Size: 30, Semester: "1", AcademicYear: "2025/2026", Department: "CS", Active: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
