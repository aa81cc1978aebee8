package dto

import "github.com/arviyanto/classweave/internal/models"

// ExportRequest captures POST /timetable/export payload.
type ExportRequest struct {
	Semester     string              `json:"semester" validate:"required"`
	AcademicYear string              `json:"academicYear" validate:"required"`
	Department   *string             `json:"department,omitempty"`
	Format       models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse is returned after enqueueing an export job.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes export job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
