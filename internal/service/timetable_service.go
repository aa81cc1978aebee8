package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arviyanto/classweave/internal/dto"
	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/scheduler"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
)

type timetableEntryRepository interface {
	List(ctx context.Context, filter models.TimetableEntryFilter) ([]models.TimetableEntry, int, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	ListByStudentGroup(ctx context.Context, groupID string) ([]models.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

type teacherLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
}

type membershipLookup interface {
	MembershipsForUser(ctx context.Context, userID string) ([]string, error)
}

// termLookup resolves the academic term generation requests default to
// when the caller omits semester/academicYear.
type termLookup interface {
	GetActive(ctx context.Context) (*models.Term, error)
}

// cachedProposal is what a generation route stores in the proposal
// cache for a subsequent save-by-id commit.
type cachedProposal struct {
	Algorithm string            `json:"algorithm"`
	Entries   []scheduler.Entry `json:"entries"`
}

// TimetableConfig carries the slot grid, daily caps and genetic seed
// used by every generation route.
type TimetableConfig struct {
	Slots       scheduler.SlotConfig
	GeneticSeed int64
	ProposalTTL time.Duration
}

// TimetableService orchestrates manual placements and schedule
// generation against the conflict-free scheduling engine.
type TimetableService struct {
	repo        timetableEntryRepository
	engine      scheduler.Repository
	teachers    teacherLookup
	memberships membershipLookup
	terms       termLookup
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         TimetableConfig
}

// NewTimetableService constructs a timetable service. terms may be nil,
// in which case generation requests that omit semester/academicYear are
// rejected instead of falling back to an active term.
func NewTimetableService(
	repo timetableEntryRepository,
	engine scheduler.Repository,
	teachers teacherLookup,
	memberships membershipLookup,
	terms termLookup,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	return &TimetableService{
		repo:        repo,
		engine:      engine,
		teachers:    teachers,
		memberships: memberships,
		terms:       terms,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// termDefaults fills in semester/academicYear from the active term when
// the caller left either blank, so a generation request can be pointed
// at "whatever is current" without the caller tracking term state.
func (s *TimetableService) termDefaults(ctx context.Context, semester, academicYear string) (string, string, error) {
	if semester != "" && academicYear != "" {
		return semester, academicYear, nil
	}
	if s.terms == nil {
		return semester, academicYear, appErrors.Clone(appErrors.ErrValidation, "semester and academicYear are required when no active term is configured")
	}
	term, err := s.terms.GetActive(ctx)
	if err != nil {
		return semester, academicYear, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "semester/academicYear omitted and no active term is set")
	}
	if semester == "" {
		semester = string(term.Type)
	}
	if academicYear == "" {
		academicYear = term.AcademicYear
	}
	return semester, academicYear, nil
}

// List returns timetable entries scoped to the caller's role: admins see
// everything matching the filter, faculty are restricted to their own
// teacherID, students to the groups they belong to. A query outside the
// caller's own scope returns an empty list rather than a forbidden error.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableEntryFilter, claims *models.JWTClaims) ([]models.TimetableEntry, *models.Pagination, error) {
	if claims == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "missing caller identity")
	}

	switch claims.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		entries, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
		}
		return entries, paginationOf(filter.Page, filter.PageSize, total), nil

	case models.RoleTeacher:
		teacher, err := s.teachers.FindByEmail(ctx, claims.Email)
		if err != nil {
			if err == sql.ErrNoRows {
				return []models.TimetableEntry{}, paginationOf(filter.Page, filter.PageSize, 0), nil
			}
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher identity")
		}
		if filter.TeacherID != "" && filter.TeacherID != teacher.ID {
			return []models.TimetableEntry{}, paginationOf(filter.Page, filter.PageSize, 0), nil
		}
		entries, err := s.repo.ListByTeacher(ctx, teacher.ID)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
		}
		return entries, paginationOf(filter.Page, filter.PageSize, len(entries)), nil

	case models.RoleStudent:
		groupIDs, err := s.memberships.MembershipsForUser(ctx, claims.UserID)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student group memberships")
		}
		if filter.StudentGroupID != "" {
			if !containsString(groupIDs, filter.StudentGroupID) {
				return []models.TimetableEntry{}, paginationOf(filter.Page, filter.PageSize, 0), nil
			}
			entries, err := s.repo.ListByStudentGroup(ctx, filter.StudentGroupID)
			if err != nil {
				return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
			}
			return entries, paginationOf(filter.Page, filter.PageSize, len(entries)), nil
		}

		var entries []models.TimetableEntry
		for _, groupID := range groupIDs {
			rows, err := s.repo.ListByStudentGroup(ctx, groupID)
			if err != nil {
				return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
			}
			entries = append(entries, rows...)
		}
		return entries, paginationOf(filter.Page, filter.PageSize, len(entries)), nil

	default:
		return []models.TimetableEntry{}, paginationOf(filter.Page, filter.PageSize, 0), nil
	}
}

// Get returns a single timetable entry by id.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	return entry, nil
}

// Create validates a manual placement against the conflict kernel and,
// when clean, persists it.
func (s *TimetableService) Create(ctx context.Context, req dto.CreateTimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable entry payload")
	}

	end := scheduler.EndOf(req.StartTime, req.Duration)
	candidate := scheduler.Candidate{
		CourseID:       req.CourseID,
		StudentGroupID: req.StudentGroupID,
		TeacherID:      req.TeacherID,
		ClassroomID:    req.ClassroomID,
		Day:            scheduler.Weekday(req.Day),
		StartTime:      req.StartTime,
		EndTime:        end,
	}

	entities, err := s.resolveEntities(ctx, req.TeacherID, req.ClassroomID, req.StudentGroupID)
	if err != nil {
		return nil, err
	}

	conflicts, err := scheduler.CheckConflicts(ctx, s.engine, candidate, "", nil, entities, scheduler.DailyCaps{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate conflicts")
	}
	if len(conflicts) > 0 {
		return nil, conflictError(conflicts)
	}

	entry := &models.TimetableEntry{
		CourseID:       req.CourseID,
		StudentGroupID: req.StudentGroupID,
		TeacherID:      req.TeacherID,
		ClassroomID:    req.ClassroomID,
		Day:            req.Day,
		StartTime:      req.StartTime,
		EndTime:        end,
		Duration:       req.Duration,
		Semester:       req.Semester,
		AcademicYear:   req.AcademicYear,
		Notes:          req.Notes,
		Status:         models.TimetableEntryStatusActive,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}
	return entry, nil
}

// Update applies a whitelisted field change. When Day, StartTime or
// ClassroomID move, the conflict kernel re-runs excluding the entry
// itself before the change is persisted.
func (s *TimetableService) Update(ctx context.Context, id string, req dto.UpdateTimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable entry payload")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}

	recheck := false
	if req.Day != nil && *req.Day != entry.Day {
		entry.Day = *req.Day
		recheck = true
	}
	if req.StartTime != nil && *req.StartTime != entry.StartTime {
		entry.StartTime = *req.StartTime
		recheck = true
	}
	if req.ClassroomID != nil && *req.ClassroomID != entry.ClassroomID {
		entry.ClassroomID = *req.ClassroomID
		recheck = true
	}
	if req.Duration != nil {
		entry.Duration = *req.Duration
		recheck = true
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.Status != nil {
		entry.Status = *req.Status
	}
	entry.EndTime = scheduler.EndOf(entry.StartTime, entry.Duration)

	if recheck {
		candidate := scheduler.Candidate{
			CourseID:       entry.CourseID,
			StudentGroupID: entry.StudentGroupID,
			TeacherID:      entry.TeacherID,
			ClassroomID:    entry.ClassroomID,
			Day:            scheduler.Weekday(entry.Day),
			StartTime:      entry.StartTime,
			EndTime:        entry.EndTime,
		}
		entities, err := s.resolveEntities(ctx, entry.TeacherID, entry.ClassroomID, entry.StudentGroupID)
		if err != nil {
			return nil, err
		}
		conflicts, err := scheduler.CheckConflicts(ctx, s.engine, candidate, id, nil, entities, scheduler.DailyCaps{})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate conflicts")
		}
		if len(conflicts) > 0 {
			return nil, conflictError(conflicts)
		}
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable entry")
	}
	return entry, nil
}

// Delete removes a timetable entry.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	return nil
}

// GenerateGreedy runs the deterministic first-fit generator and caches
// the result as a proposal.
func (s *TimetableService) GenerateGreedy(ctx context.Context, query dto.GenerateTimetableQuery) (*dto.GenerateTimetableResponse, error) {
	semester, academicYear, err := s.termDefaults(ctx, query.Semester, query.AcademicYear)
	if err != nil {
		return nil, err
	}
	input, names, err := s.loadGenerationInput(ctx, semester, academicYear, query.Department)
	if err != nil {
		return nil, err
	}
	result, err := scheduler.GenerateGreedy(ctx, s.engine, input, s.cfg.Slots)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate timetable")
	}
	return s.cacheAndRespond(ctx, "greedy", result.Schedule, result.Unscheduled, names, nil, nil)
}

// GenerateGraphColoring runs the requested coloring heuristic.
func (s *TimetableService) GenerateGraphColoring(ctx context.Context, query dto.GenerateTimetableQuery) (*dto.GenerateTimetableResponse, error) {
	algorithm := scheduler.ColoringAlgorithm(query.Algorithm)
	if algorithm != scheduler.DSATUR && algorithm != scheduler.WelshPowell {
		algorithm = scheduler.DSATUR
	}
	semester, academicYear, err := s.termDefaults(ctx, query.Semester, query.AcademicYear)
	if err != nil {
		return nil, err
	}
	input, names, err := s.loadGenerationInput(ctx, semester, academicYear, query.Department)
	if err != nil {
		return nil, err
	}
	result, err := scheduler.GenerateGraphColoring(ctx, s.engine, input, s.cfg.Slots, algorithm)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate timetable")
	}
	response, err := s.cacheAndRespond(ctx, string(algorithm), result.Schedule, result.Unscheduled, names, nil, nil)
	if err != nil {
		return nil, err
	}
	response.Metadata = map[string]interface{}{
		"totalNodes": result.Metadata.TotalNodes,
		"totalEdges": result.Metadata.TotalEdges,
		"colorsUsed": result.Metadata.ColorsUsed,
	}
	return response, nil
}

// GenerateGenetic evolves a population toward a low-conflict schedule.
func (s *TimetableService) GenerateGenetic(ctx context.Context, query dto.GenerateTimetableQuery) (*dto.GenerateTimetableResponse, error) {
	semester, academicYear, err := s.termDefaults(ctx, query.Semester, query.AcademicYear)
	if err != nil {
		return nil, err
	}
	input, names, err := s.loadGenerationInput(ctx, semester, academicYear, query.Department)
	if err != nil {
		return nil, err
	}
	genCfg := scheduler.GeneticConfig{
		PopulationSize: query.PopulationSize,
		MaxGenerations: query.MaxGenerations,
		MutationRate:   query.MutationRate,
		CrossoverRate:  query.CrossoverRate,
		Slots:          s.cfg.Slots,
	}
	if s.cfg.GeneticSeed != 0 {
		genCfg.Rand = seededRand(s.cfg.GeneticSeed)
	}
	result, err := scheduler.GenerateGenetic(ctx, input, genCfg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate timetable")
	}
	generations := result.Generations
	fitness := result.Fitness.Fitness
	return s.cacheAndRespond(ctx, "genetic", result.Schedule, result.Unschedulable, names, &fitness, &generations)
}

// CompareAlgorithms runs every algorithm over the same input and caches
// the genetic result (the richest metadata) for a possible save.
func (s *TimetableService) CompareAlgorithms(ctx context.Context, query dto.GenerateTimetableQuery) (*dto.CompareAlgorithmsResponse, error) {
	semester, academicYear, err := s.termDefaults(ctx, query.Semester, query.AcademicYear)
	if err != nil {
		return nil, err
	}
	input, _, err := s.loadGenerationInput(ctx, semester, academicYear, query.Department)
	if err != nil {
		return nil, err
	}
	records := scheduler.Compare(ctx, s.engine, input, s.cfg.Slots)

	results := make([]dto.AlgorithmComparisonEntry, 0, len(records))
	var proposalID string
	for _, record := range records {
		entry := dto.AlgorithmComparisonEntry{
			Algorithm:   record.Algorithm,
			TotalSlots:  record.TotalSlots,
			Unscheduled: record.Unscheduled,
			SuccessRate: record.SuccessRate,
			Metadata:    record.Metadata,
			Error:       record.Error,
		}
		if record.Fitness != nil {
			entry.Fitness = *record.Fitness
		}
		if record.HardViolations != nil {
			entry.HardViolations = *record.HardViolations
		}
		if record.SoftViolations != nil {
			entry.SoftViolations = *record.SoftViolations
		}
		results = append(results, entry)
	}

	genCfg := scheduler.GeneticConfig{Slots: s.cfg.Slots}
	if s.cfg.GeneticSeed != 0 {
		genCfg.Rand = seededRand(s.cfg.GeneticSeed)
	}
	if result, err := scheduler.GenerateGenetic(ctx, input, genCfg); err == nil {
		proposalID, err = s.storeProposal(ctx, "genetic", result.Schedule)
		if err != nil {
			s.logger.Warn("failed to cache comparison proposal", zap.Error(err))
		}
	}

	return &dto.CompareAlgorithmsResponse{Results: results, ProposalID: proposalID}, nil
}

// SaveProposal commits a previously generated proposal verbatim.
func (s *TimetableService) SaveProposal(ctx context.Context, proposalID string) (int, error) {
	if s.cache == nil || !s.cache.Enabled() {
		return 0, appErrors.Clone(appErrors.ErrPreconditionFailed, "proposal cache unavailable")
	}
	var proposal cachedProposal
	hit, err := s.cache.Get(ctx, proposalCacheKey(proposalID), &proposal)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cached proposal")
	}
	if !hit {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if err := s.engine.InsertMany(ctx, proposal.Entries); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save generated timetable")
	}
	return len(proposal.Entries), nil
}

func (s *TimetableService) resolveEntities(ctx context.Context, teacherID, classroomID, groupID string) (scheduler.Entities, error) {
	teachers, err := s.engine.FindFaculty(ctx, "", false)
	if err != nil {
		return scheduler.Entities{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	classrooms, err := s.engine.FindClassrooms(ctx, false)
	if err != nil {
		return scheduler.Entities{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	groups, err := s.engine.FindStudentGroups(ctx, "", "", "", false)
	if err != nil {
		return scheduler.Entities{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student groups")
	}

	entities := scheduler.Entities{}
	for i := range teachers {
		if teachers[i].ID == teacherID {
			entities.Teacher = &teachers[i]
			break
		}
	}
	for i := range classrooms {
		if classrooms[i].ID == classroomID {
			entities.Classroom = &classrooms[i]
			break
		}
	}
	for i := range groups {
		if groups[i].ID == groupID {
			entities.Group = &groups[i]
			break
		}
	}
	return entities, nil
}

func (s *TimetableService) loadGenerationInput(ctx context.Context, semester, academicYear, department string) (scheduler.GreedyInput, scheduler.EntityNames, error) {
	courses, err := s.engine.FindCourses(ctx, semester, academicYear, department, true)
	if err != nil {
		return scheduler.GreedyInput{}, scheduler.EntityNames{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	groups, err := s.engine.FindStudentGroups(ctx, semester, academicYear, department, true)
	if err != nil {
		return scheduler.GreedyInput{}, scheduler.EntityNames{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student groups")
	}
	classrooms, err := s.engine.FindClassrooms(ctx, true)
	if err != nil {
		return scheduler.GreedyInput{}, scheduler.EntityNames{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	teachers, err := s.engine.FindFaculty(ctx, department, true)
	if err != nil {
		return scheduler.GreedyInput{}, scheduler.EntityNames{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	groupByID := make(map[string]scheduler.StudentGroup, len(groups))
	names := scheduler.EntityNames{
		Courses:    map[string]string{},
		Groups:     map[string]string{},
		Classrooms: map[string]string{},
		Teachers:   map[string]string{},
	}
	for _, g := range groups {
		groupByID[g.ID] = g
		names.Groups[g.ID] = g.Name
	}
	teacherByID := make(map[string]scheduler.Teacher, len(teachers))
	for _, t := range teachers {
		teacherByID[t.ID] = t
		names.Teachers[t.ID] = t.Name
	}
	for _, c := range classrooms {
		names.Classrooms[c.ID] = c.Name
	}
	for _, c := range courses {
		names.Courses[c.ID] = c.Name
	}

	input := scheduler.GreedyInput{
		Courses:       courses,
		StudentGroups: groupByID,
		Classrooms:    classrooms,
		Teachers:      teacherByID,
		Names:         names,
	}
	return input, names, nil
}

func (s *TimetableService) cacheAndRespond(ctx context.Context, algorithm string, schedule []scheduler.Entry, unscheduled []scheduler.UnscheduledSession, names scheduler.EntityNames, fitness *float64, generations *int) (*dto.GenerateTimetableResponse, error) {
	proposalID, err := s.storeProposal(ctx, algorithm, schedule)
	if err != nil {
		s.logger.Warn("failed to cache generated proposal", zap.Error(err))
	}

	entries := make([]dto.GeneratedEntry, 0, len(schedule))
	for _, e := range schedule {
		entries = append(entries, dto.GeneratedEntry{
			CourseID:       e.CourseID,
			CourseName:     names.Courses[e.CourseID],
			StudentGroupID: e.StudentGroupID,
			TeacherID:      e.TeacherID,
			ClassroomID:    e.ClassroomID,
			Day:            string(e.Day),
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
			Duration:       e.Duration,
		})
	}

	response := &dto.GenerateTimetableResponse{
		ProposalID:  proposalID,
		Algorithm:   algorithm,
		Entries:     entries,
		Unscheduled: unscheduledToDTO(unscheduled),
		Fitness:     fitness,
		Generations: generations,
	}
	return response, nil
}

func unscheduledToDTO(raw []scheduler.UnscheduledSession) []dto.UnscheduledSession {
	out := make([]dto.UnscheduledSession, 0, len(raw))
	for _, u := range raw {
		out = append(out, dto.UnscheduledSession{
			CourseID:       u.CourseID,
			StudentGroupID: u.StudentGroupID,
			SessionIndex:   u.SessionIndex,
			Reasons:        scheduler.Messages(u.LastConflicts),
		})
	}
	return out
}

func (s *TimetableService) storeProposal(ctx context.Context, algorithm string, schedule []scheduler.Entry) (string, error) {
	if s.cache == nil || !s.cache.Enabled() {
		return "", nil
	}
	proposalID := uuid.NewString()
	proposal := cachedProposal{Algorithm: algorithm, Entries: schedule}
	if err := s.cache.Set(ctx, proposalCacheKey(proposalID), proposal, s.cfg.ProposalTTL); err != nil {
		return "", err
	}
	return proposalID, nil
}

func proposalCacheKey(id string) string {
	return fmt.Sprintf("timetable:proposal:%s", id)
}

func conflictError(conflicts []scheduler.Conflict) error {
	mapped := make([]models.TimetableConflict, 0, len(conflicts))
	for _, c := range conflicts {
		mapped = append(mapped, models.TimetableConflict{Kind: string(c.Kind), Message: c.Message})
	}
	return appErrors.WithDetails(appErrors.ErrConflict, "placement conflicts with existing timetable entries", mapped)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func paginationOf(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}

func seededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
