package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arviyanto/classweave/internal/dto"
	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/service"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
	"github.com/arviyanto/classweave/pkg/response"
)

// TimetableHandler wires timetable CRUD and generation routes.
type TimetableHandler struct {
	service *service.TimetableService
	imports *service.TimetableImportService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc *service.TimetableService, imports *service.TimetableImportService) *TimetableHandler {
	return &TimetableHandler{service: svc, imports: imports}
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Param courseId query string false "Course ID"
// @Param studentGroupId query string false "Student group ID"
// @Param teacherId query string false "Teacher ID"
// @Param classroomId query string false "Classroom ID"
// @Param day query string false "Day"
// @Param semester query string false "Semester"
// @Param academicYear query string false "Academic year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableEntryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = 20
	}

	filter := models.TimetableEntryFilter{
		CourseID:       query.CourseID,
		StudentGroupID: query.StudentGroupID,
		TeacherID:      query.TeacherID,
		ClassroomID:    query.ClassroomID,
		Day:            query.Day,
		Semester:       query.Semester,
		AcademicYear:   query.AcademicYear,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}

	entries, pagination, err := h.service.List(c.Request.Context(), filter, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Get godoc
// @Summary Get timetable entry by id
// @Tags Timetable
// @Produce json
// @Param id path string true "Timetable entry ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Create godoc
// @Summary Create a manual timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableEntryRequest true "Timetable entry payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Timetable entry ID"
// @Param payload body dto.UpdateTimetableEntryRequest true "Timetable entry payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req dto.UpdateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a timetable entry
// @Tags Timetable
// @Param id path string true "Timetable entry ID"
// @Success 204
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *TimetableHandler) bindGenerateQuery(c *gin.Context) (dto.GenerateTimetableQuery, bool) {
	var query dto.GenerateTimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return query, false
	}
	return query, true
}

// GenerateGreedy godoc
// @Summary Generate a timetable with the deterministic first-fit heuristic
// @Tags Timetable Generation
// @Produce json
// @Param semester query string false "Semester (defaults to the active term)"
// @Param academicYear query string false "Academic year (defaults to the active term)"
// @Param department query string false "Department"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [get]
func (h *TimetableHandler) GenerateGreedy(c *gin.Context) {
	query, ok := h.bindGenerateQuery(c)
	if !ok {
		return
	}
	result, err := h.service.GenerateGreedy(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateGraphColoring godoc
// @Summary Generate a timetable with a graph-coloring heuristic
// @Tags Timetable Generation
// @Produce json
// @Param semester query string false "Semester (defaults to the active term)"
// @Param academicYear query string false "Academic year (defaults to the active term)"
// @Param department query string false "Department"
// @Param algorithm query string false "dsatur or welsh-powell"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate/graph-coloring [get]
func (h *TimetableHandler) GenerateGraphColoring(c *gin.Context) {
	query, ok := h.bindGenerateQuery(c)
	if !ok {
		return
	}
	result, err := h.service.GenerateGraphColoring(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateGenetic godoc
// @Summary Generate a timetable with a genetic algorithm
// @Tags Timetable Generation
// @Produce json
// @Param semester query string false "Semester (defaults to the active term)"
// @Param academicYear query string false "Academic year (defaults to the active term)"
// @Param department query string false "Department"
// @Param populationSize query int false "Population size"
// @Param maxGenerations query int false "Max generations"
// @Param mutationRate query number false "Mutation rate"
// @Param crossoverRate query number false "Crossover rate"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate/genetic [get]
func (h *TimetableHandler) GenerateGenetic(c *gin.Context) {
	query, ok := h.bindGenerateQuery(c)
	if !ok {
		return
	}
	result, err := h.service.GenerateGenetic(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CompareAlgorithms godoc
// @Summary Run every generation algorithm and compare outcomes
// @Tags Timetable Generation
// @Produce json
// @Param semester query string false "Semester (defaults to the active term)"
// @Param academicYear query string false "Academic year (defaults to the active term)"
// @Param department query string false "Department"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate/compare [get]
func (h *TimetableHandler) CompareAlgorithms(c *gin.Context) {
	query, ok := h.bindGenerateQuery(c)
	if !ok {
		return
	}
	result, err := h.service.CompareAlgorithms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SaveProposal godoc
// @Summary Commit a cached generated proposal
// @Tags Timetable Generation
// @Accept json
// @Produce json
// @Param payload body dto.SaveGeneratedTimetableRequest true "Proposal id"
// @Success 201 {object} response.Envelope
// @Router /timetable/generate/save [post]
func (h *TimetableHandler) SaveProposal(c *gin.Context) {
	var req dto.SaveGeneratedTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.service.SaveProposal(c.Request.Context(), req.ProposalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"savedCount": count}, nil)
}

// Import godoc
// @Summary Bulk import courses, classrooms or student groups from CSV
// @Tags Timetable Import
// @Accept multipart/form-data
// @Produce json
// @Param kind query string true "courses, classrooms or student_groups"
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Router /timetable/import [post]
func (h *TimetableHandler) Import(c *gin.Context) {
	var req dto.ImportTimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "csv file is required"))
		return
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer opened.Close()

	buf := make([]byte, file.Size)
	if _, err := opened.Read(buf); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}

	result, err := h.imports.Import(c.Request.Context(), req.Kind, buf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
