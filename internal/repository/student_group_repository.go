package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/arviyanto/classweave/internal/models"
)

// StudentGroupRepository manages persistence for student groups.
type StudentGroupRepository struct {
	db *sqlx.DB
}

// NewStudentGroupRepository constructs a new repository instance.
func NewStudentGroupRepository(db *sqlx.DB) *StudentGroupRepository {
	return &StudentGroupRepository{db: db}
}

const studentGroupColumns = "id, name, size, semester, academic_year, department, availability, blackout_periods, active, created_at, updated_at"

// List returns student groups matching filter criteria.
func (r *StudentGroupRepository) List(ctx context.Context, filter models.StudentGroupFilter) ([]models.StudentGroup, int, error) {
	base := "FROM student_groups WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "active = true")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "size": true, "created_at": true, "updated_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentGroupColumns, base, sortBy, order, size, offset)
	var groups []models.StudentGroup
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list student groups: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count student groups: %w", err)
	}
	return groups, total, nil
}

// FindForScheduling returns active student groups scoped for the engine.
func (r *StudentGroupRepository) FindForScheduling(ctx context.Context, semester, academicYear, department string, activeOnly bool) ([]models.StudentGroup, error) {
	base := "FROM student_groups WHERE 1=1"
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
	if department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, department)
	}
	if activeOnly {
		conditions = append(conditions, "active = true")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC", studentGroupColumns, base)
	var groups []models.StudentGroup
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("find student groups for scheduling: %w", err)
	}
	return groups, nil
}

// FindByID returns a student group by id.
func (r *StudentGroupRepository) FindByID(ctx context.Context, id string) (*models.StudentGroup, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_groups WHERE id = $1`, studentGroupColumns)
	var group models.StudentGroup
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ExistsByName checks uniqueness of a group name.
func (r *StudentGroupRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM student_groups WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student group name: %w", err)
	}
	return true, nil
}

// Create persists a new student group.
func (r *StudentGroupRepository) Create(ctx context.Context, group *models.StudentGroup) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	const query = `INSERT INTO student_groups (id, name, size, semester, academic_year, department, availability, blackout_periods, active, created_at, updated_at)
		VALUES (:id, :name, :size, :semester, :academic_year, :department, :availability, :blackout_periods, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create student group: %w", err)
	}
	return nil
}

// Update modifies a student group.
func (r *StudentGroupRepository) Update(ctx context.Context, group *models.StudentGroup) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_groups SET name = :name, size = :size, semester = :semester, academic_year = :academic_year,
		department = :department, availability = :availability, blackout_periods = :blackout_periods, active = :active, updated_at = :updated_at
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update student group: %w", err)
	}
	return nil
}

// Delete removes a student group record.
func (r *StudentGroupRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student group: %w", err)
	}
	return nil
}

// CountCourses returns how many courses reference the group.
func (r *StudentGroupRepository) CountCourses(ctx context.Context, groupID string) (int, error) {
	const query = `SELECT COUNT(*) FROM courses WHERE student_group_ids::jsonb @> to_jsonb($1::text)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("count courses for student group: %w", err)
	}
	return count, nil
}

// MembershipsForUser returns the student group IDs a user belongs to,
// used to scope timetable visibility for student accounts.
func (r *StudentGroupRepository) MembershipsForUser(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT student_group_id FROM student_group_memberships WHERE user_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("find student group memberships: %w", err)
	}
	return ids, nil
}

// AddMembership enrolls a user in a student group.
func (r *StudentGroupRepository) AddMembership(ctx context.Context, m models.StudentGroupMembership) error {
	const query = `INSERT INTO student_group_memberships (user_id, student_group_id) VALUES (:user_id, :student_group_id) ON CONFLICT DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("add student group membership: %w", err)
	}
	return nil
}

// RemoveMembership removes a user from a student group.
func (r *StudentGroupRepository) RemoveMembership(ctx context.Context, userID, groupID string) error {
	const query = `DELETE FROM student_group_memberships WHERE user_id = $1 AND student_group_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, groupID); err != nil {
		return fmt.Errorf("remove student group membership: %w", err)
	}
	return nil
}
