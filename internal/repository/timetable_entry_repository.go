package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/arviyanto/classweave/internal/models"
)

// TimetableEntryRepository provides persistence for timetable entries.
type TimetableEntryRepository struct {
	db *sqlx.DB
}

// NewTimetableEntryRepository creates a new repository instance.
func NewTimetableEntryRepository(db *sqlx.DB) *TimetableEntryRepository {
	return &TimetableEntryRepository{db: db}
}

const timetableEntryColumns = "id, course_id, student_group_id, teacher_id, classroom_id, day, start_time, end_time, duration, week_number, semester, academic_year, notes, status, created_at, updated_at"

// List returns timetable entries with optional filtering and pagination.
func (r *TimetableEntryRepository) List(ctx context.Context, filter models.TimetableEntryFilter) ([]models.TimetableEntry, int, error) {
	base := "FROM timetable_entries WHERE status = 'ACTIVE'"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.StudentGroupID != "" {
		conditions = append(conditions, fmt.Sprintf("student_group_id = $%d", len(args)+1))
		args = append(args, filter.StudentGroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "day"
	}
	allowedSorts := map[string]bool{"day": true, "start_time": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "day"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, start_time ASC LIMIT %d OFFSET %d", timetableEntryColumns, base, sortBy, order, size, offset)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timetable entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timetable entries: %w", err)
	}

	return entries, total, nil
}

// FindByID loads a timetable entry by id.
func (r *TimetableEntryRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_entries WHERE id = $1`, timetableEntryColumns)
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindForScheduling returns active entries scoped to a semester/academic
// year, feeding the conflict kernel's view of the existing timetable.
func (r *TimetableEntryRepository) FindForScheduling(ctx context.Context, semester, academicYear string) ([]models.TimetableEntry, error) {
	base := "FROM timetable_entries WHERE status = 'ACTIVE'"
	var conditions []string
	var args []interface{}
	if semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, semester)
	}
	if academicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, academicYear)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY day ASC, start_time ASC", timetableEntryColumns, base)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("find timetable entries for scheduling: %w", err)
	}
	return entries, nil
}

// FindByDayAndAnyOf returns active entries on a day that share at least
// one of the given non-empty identifiers, excluding excludeID. This
// backs the conflict kernel's persisted-timetable lookup.
func (r *TimetableEntryRepository) FindByDayAndAnyOf(ctx context.Context, day, courseID, studentGroupID, teacherID, classroomID, excludeID string) ([]models.TimetableEntry, error) {
	var ors []string
	var args []interface{}
	args = append(args, day)
	if courseID != "" {
		args = append(args, courseID)
		ors = append(ors, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if studentGroupID != "" {
		args = append(args, studentGroupID)
		ors = append(ors, fmt.Sprintf("student_group_id = $%d", len(args)))
	}
	if teacherID != "" {
		args = append(args, teacherID)
		ors = append(ors, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if classroomID != "" {
		args = append(args, classroomID)
		ors = append(ors, fmt.Sprintf("classroom_id = $%d", len(args)))
	}
	if len(ors) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM timetable_entries WHERE status = 'ACTIVE' AND day = $1 AND (%s)`, timetableEntryColumns, strings.Join(ors, " OR "))
	if excludeID != "" {
		args = append(args, excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}

	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("find timetable entries by day: %w", err)
	}
	return entries, nil
}

// ListByStudentGroup returns entries for a student group ordered by day/time.
func (r *TimetableEntryRepository) ListByStudentGroup(ctx context.Context, groupID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_entries WHERE student_group_id = $1 AND status = 'ACTIVE' ORDER BY day ASC, start_time ASC`, timetableEntryColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, groupID); err != nil {
		return nil, fmt.Errorf("list timetable entries by student group: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns entries taught by a teacher.
func (r *TimetableEntryRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_entries WHERE teacher_id = $1 AND status = 'ACTIVE' ORDER BY day ASC, start_time ASC`, timetableEntryColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list timetable entries by teacher: %w", err)
	}
	return entries, nil
}

// Create stores a new timetable entry.
func (r *TimetableEntryRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	if entry.Status == "" {
		entry.Status = models.TimetableEntryStatusActive
	}

	const query = `INSERT INTO timetable_entries (id, course_id, student_group_id, teacher_id, classroom_id, day, start_time, end_time, duration, week_number, semester, academic_year, notes, status, created_at, updated_at)
		VALUES (:id, :course_id, :student_group_id, :teacher_id, :classroom_id, :day, :start_time, :end_time, :duration, :week_number, :semester, :academic_year, :notes, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// InsertMany inserts many timetable entries within a transaction, used
// to persist a generated schedule without re-running the conflict
// kernel per row.
func (r *TimetableEntryRepository) InsertMany(ctx context.Context, entries []models.TimetableEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert timetable entries: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.bulkInsertEntries(ctx, tx, entries); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit insert timetable entries: %w", err)
	}
	return nil
}

// InsertManyWithTx inserts entries using an existing transaction.
func (r *TimetableEntryRepository) InsertManyWithTx(ctx context.Context, tx *sqlx.Tx, entries []models.TimetableEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	return r.bulkInsertEntries(ctx, tx, entries)
}

func (r *TimetableEntryRepository) bulkInsertEntries(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error {
	now := time.Now().UTC()
	for i := range entries {
		payload := entries[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now
		if payload.Status == "" {
			payload.Status = models.TimetableEntryStatusActive
		}

		const query = `INSERT INTO timetable_entries (id, course_id, student_group_id, teacher_id, classroom_id, day, start_time, end_time, duration, week_number, semester, academic_year, notes, status, created_at, updated_at)
			VALUES (:id, :course_id, :student_group_id, :teacher_id, :classroom_id, :day, :start_time, :end_time, :duration, :week_number, :semester, :academic_year, :notes, :status, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("bulk insert timetable entry: %w", err)
		}
		entries[i] = payload
	}
	return nil
}

// Update modifies a timetable entry.
func (r *TimetableEntryRepository) Update(ctx context.Context, entry *models.TimetableEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_entries SET course_id = :course_id, student_group_id = :student_group_id, teacher_id = :teacher_id,
		classroom_id = :classroom_id, day = :day, start_time = :start_time, end_time = :end_time, duration = :duration,
		week_number = :week_number, semester = :semester, academic_year = :academic_year, notes = :notes, status = :status,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	return nil
}

// Delete removes a timetable entry by id.
func (r *TimetableEntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	return nil
}
