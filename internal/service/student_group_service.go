package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/scheduler"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
)

type studentGroupRepository interface {
	List(ctx context.Context, filter models.StudentGroupFilter) ([]models.StudentGroup, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentGroup, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, group *models.StudentGroup) error
	Update(ctx context.Context, group *models.StudentGroup) error
	Delete(ctx context.Context, id string) error
	CountCourses(ctx context.Context, groupID string) (int, error)
	MembershipsForUser(ctx context.Context, userID string) ([]string, error)
}

// CreateStudentGroupRequest captures fields for creating a student group.
type CreateStudentGroupRequest struct {
	Name         string                 `json:"name" validate:"required"`
	Size         int                    `json:"size" validate:"required,min=1"`
	Semester     string                 `json:"semester" validate:"required"`
	AcademicYear string                 `json:"academic_year" validate:"required"`
	Department   string                 `json:"department" validate:"required"`
	Availability scheduler.Availability `json:"availability"`
}

// UpdateStudentGroupRequest modifies student group fields.
type UpdateStudentGroupRequest struct {
	Name         string                 `json:"name" validate:"required"`
	Size         int                    `json:"size" validate:"required,min=1"`
	Semester     string                 `json:"semester" validate:"required"`
	AcademicYear string                 `json:"academic_year" validate:"required"`
	Department   string                 `json:"department" validate:"required"`
	Availability scheduler.Availability `json:"availability"`
	Active       *bool                  `json:"active"`
}

// StudentGroupService handles student group domain workflows.
type StudentGroupService struct {
	repo      studentGroupRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentGroupService creates a new student group service.
func NewStudentGroupService(repo studentGroupRepository, validate *validator.Validate, logger *zap.Logger) *StudentGroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentGroupService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated student groups.
func (s *StudentGroupService) List(ctx context.Context, filter models.StudentGroupFilter) ([]models.StudentGroup, *models.Pagination, error) {
	groups, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student groups")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return groups, pagination, nil
}

// Get returns a student group by identifier.
func (s *StudentGroupService) Get(ctx context.Context, id string) (*models.StudentGroup, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group")
	}
	return group, nil
}

// MembershipsForUser returns the student group ids a user belongs to.
func (s *StudentGroupService) MembershipsForUser(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.MembershipsForUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group memberships")
	}
	return ids, nil
}

// Create adds a new student group ensuring name uniqueness.
func (s *StudentGroupService) Create(ctx context.Context, req CreateStudentGroupRequest) (*models.StudentGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student group payload")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student group name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student group name already exists")
	}

	group := &models.StudentGroup{
		Name:         name,
		Size:         req.Size,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		Department:   req.Department,
		Availability: models.AvailabilityJSON(req.Availability),
		Active:       true,
	}

	if err := s.repo.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student group")
	}
	return group, nil
}

// Update modifies an existing student group.
func (s *StudentGroupService) Update(ctx context.Context, id string, req UpdateStudentGroupRequest) (*models.StudentGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student group payload")
	}

	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student group name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student group name already exists")
	}

	group.Name = name
	group.Size = req.Size
	group.Semester = req.Semester
	group.AcademicYear = req.AcademicYear
	group.Department = req.Department
	if req.Availability != nil {
		group.Availability = models.AvailabilityJSON(req.Availability)
	}
	if req.Active != nil {
		group.Active = *req.Active
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student group")
	}
	return group, nil
}

// Delete removes a student group when no course references it.
func (s *StudentGroupService) Delete(ctx context.Context, id string) error {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group")
	}

	count, err := s.repo.CountCourses(ctx, group.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student group dependencies")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "student group referenced by courses")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student group")
	}
	return nil
}
