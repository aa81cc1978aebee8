package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arviyanto/classweave/internal/dto"
	"github.com/arviyanto/classweave/internal/service"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
	"github.com/arviyanto/classweave/pkg/response"
)

// TimetableExportHandler wires background timetable rendering routes.
type TimetableExportHandler struct {
	exports *service.TimetableExportService
}

// NewTimetableExportHandler constructs an export handler.
func NewTimetableExportHandler(exports *service.TimetableExportService) *TimetableExportHandler {
	return &TimetableExportHandler{exports: exports}
}

// Enqueue godoc
// @Summary Queue a timetable export job
// @Tags Timetable Export
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /timetable/export [post]
func (h *TimetableExportHandler) Enqueue(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	claims := claimsFromContext(c)
	createdBy := ""
	if claims != nil {
		createdBy = claims.UserID
	}
	job, err := h.exports.Enqueue(c.Request.Context(), req, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Poll a timetable export job
// @Tags Timetable Export
// @Produce json
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/export/{id} [get]
func (h *TimetableExportHandler) Status(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished export via signed token
// @Tags Timetable Export
// @Produce application/octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Router /timetable/export/download/{token} [get]
func (h *TimetableExportHandler) Download(c *gin.Context) {
	path, filename, err := h.exports.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filename)
}
