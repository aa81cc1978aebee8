package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/service"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
	"github.com/arviyanto/classweave/pkg/response"
)

// StudentGroupHandler exposes student group CRUD endpoints.
type StudentGroupHandler struct {
	service *service.StudentGroupService
}

// NewStudentGroupHandler constructs a student group handler.
func NewStudentGroupHandler(svc *service.StudentGroupService) *StudentGroupHandler {
	return &StudentGroupHandler{service: svc}
}

// List godoc
// @Summary List student groups
// @Tags StudentGroups
// @Produce json
// @Param semester query string false "Filter by semester"
// @Param academic_year query string false "Filter by academic year"
// @Param department query string false "Filter by department"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /student-groups [get]
func (h *StudentGroupHandler) List(c *gin.Context) {
	var filter models.StudentGroupFilter
	filter.Semester = c.Query("semester")
	filter.AcademicYear = c.Query("academic_year")
	filter.Department = c.Query("department")
	filter.Search = strings.TrimSpace(c.Query("search"))
	if active := c.Query("active"); strings.ToLower(active) == "true" {
		filter.ActiveOnly = true
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	groups, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, pagination)
}

// Get godoc
// @Summary Get student group by id
// @Tags StudentGroups
// @Produce json
// @Param id path string true "Student Group ID"
// @Success 200 {object} response.Envelope
// @Router /student-groups/{id} [get]
func (h *StudentGroupHandler) Get(c *gin.Context) {
	group, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Create godoc
// @Summary Create student group
// @Tags StudentGroups
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentGroupRequest true "Student group payload"
// @Success 201 {object} response.Envelope
// @Router /student-groups [post]
func (h *StudentGroupHandler) Create(c *gin.Context) {
	var req service.CreateStudentGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update student group
// @Tags StudentGroups
// @Accept json
// @Produce json
// @Param id path string true "Student Group ID"
// @Param payload body service.UpdateStudentGroupRequest true "Student group payload"
// @Success 200 {object} response.Envelope
// @Router /student-groups/{id} [put]
func (h *StudentGroupHandler) Update(c *gin.Context) {
	var req service.UpdateStudentGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete student group
// @Tags StudentGroups
// @Produce json
// @Param id path string true "Student Group ID"
// @Success 204
// @Router /student-groups/{id} [delete]
func (h *StudentGroupHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Memberships godoc
// @Summary List student group ids a user belongs to
// @Tags StudentGroups
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /student-groups/memberships/{userId} [get]
func (h *StudentGroupHandler) Memberships(c *gin.Context) {
	ids, err := h.service.MembershipsForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ids, nil)
}
