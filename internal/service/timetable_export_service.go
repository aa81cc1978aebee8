package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arviyanto/classweave/internal/dto"
	"github.com/arviyanto/classweave/internal/models"
	"github.com/arviyanto/classweave/internal/repository"
	"github.com/arviyanto/classweave/pkg/export"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
	"github.com/arviyanto/classweave/pkg/jobs"
	"github.com/arviyanto/classweave/pkg/storage"
)

const exportJobType = "timetable_export"

// TimetableExportService renders a semester's timetable to CSV or PDF on a
// background worker and hands back a signed, time-limited download link.
type TimetableExportService struct {
	jobRepo       *repository.ExportJobRepository
	entryRepo     *repository.TimetableEntryRepository
	courseRepo    *repository.CourseRepository
	teacherRepo   *repository.TeacherRepository
	classroomRepo *repository.ClassroomRepository
	groupRepo     *repository.StudentGroupRepository

	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	queue   *jobs.Queue

	csvExporter *export.CSVExporter
	pdfExporter *export.PDFExporter

	logger *zap.Logger
}

// NewTimetableExportService wires the export job pipeline and builds its
// worker queue; the workers run once Start is called with a context whose
// lifetime the caller owns, and Stop should be called from main on shutdown.
func NewTimetableExportService(
	jobRepo *repository.ExportJobRepository,
	entryRepo *repository.TimetableEntryRepository,
	courseRepo *repository.CourseRepository,
	teacherRepo *repository.TeacherRepository,
	classroomRepo *repository.ClassroomRepository,
	groupRepo *repository.StudentGroupRepository,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	concurrency, maxRetries int,
	logger *zap.Logger,
) *TimetableExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TimetableExportService{
		jobRepo:       jobRepo,
		entryRepo:     entryRepo,
		courseRepo:    courseRepo,
		teacherRepo:   teacherRepo,
		classroomRepo: classroomRepo,
		groupRepo:     groupRepo,
		storage:       store,
		signer:        signer,
		csvExporter:   export.NewCSVExporter(),
		pdfExporter:   export.NewPDFExporter(),
		logger:        logger,
	}
	s.queue = jobs.NewQueue(exportJobType, s.process, jobs.QueueConfig{
		Workers:    concurrency,
		MaxRetries: maxRetries,
		Logger:     logger,
	})
	return s
}

// Start boots the underlying worker pool. Call once during startup.
func (s *TimetableExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains in-flight jobs and shuts the worker pool down.
func (s *TimetableExportService) Stop() {
	s.queue.Stop()
}

// Enqueue persists a queued export job and schedules it for background
// rendering, returning immediately with the job id.
func (s *TimetableExportService) Enqueue(ctx context.Context, req dto.ExportRequest, createdBy string) (*dto.ExportJobResponse, error) {
	job := &models.ExportJob{
		Params: models.ExportJobParams{
			Semester:     req.Semester,
			AcademicYear: req.AcademicYear,
			Department:   req.Department,
			Format:       req.Format,
		},
		Status:    models.ExportStatusQueued,
		CreatedBy: createdBy,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: exportJobType, Payload: job.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: 0}, nil
}

// Status reports current progress and, once finished, a signed download
// token for the rendered file.
func (s *TimetableExportService) Status(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	resp := &dto.ExportStatusResponse{ID: job.ID, Status: job.Status, Progress: job.Progress, Error: job.ErrorMessage}
	if job.Status == models.ExportStatusFinished && job.ResultURL != nil {
		token, _, err := s.signer.Generate(job.ID, *job.ResultURL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		resp.ResultURL = &token
	}
	return resp, nil
}

// Download validates a signed token and returns the stored file's path and
// a suggested filename.
func (s *TimetableExportService) Download(ctx context.Context, token string) (path string, filename string, err error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid or expired download token")
	}
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.Status != models.ExportStatusFinished || job.ResultURL == nil || *job.ResultURL != relPath {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "export file not available")
	}
	return s.storage.Path(relPath), relPath, nil
}

func (s *TimetableExportService) process(ctx context.Context, job jobs.Job) error {
	id, _ := job.Payload.(string)
	record, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", id, err)
	}

	processing := models.ExportStatusProcessing
	progress := 10
	if err := s.jobRepo.Update(ctx, id, repository.UpdateExportJobParams{Status: &processing, Progress: &progress}); err != nil {
		s.logger.Sugar().Warnw("failed to mark export job processing", "job_id", id, "error", err)
	}

	dataset, err := s.buildDataset(ctx, record.Params)
	if err != nil {
		s.fail(ctx, id, err)
		return err
	}

	var rendered []byte
	var ext string
	switch record.Params.Format {
	case models.ExportFormatPDF:
		rendered, err = s.pdfExporter.Render(dataset, fmt.Sprintf("Timetable %s %s", record.Params.Semester, record.Params.AcademicYear))
		ext = "pdf"
	default:
		rendered, err = s.csvExporter.Render(dataset)
		ext = "csv"
	}
	if err != nil {
		s.fail(ctx, id, err)
		return err
	}

	filename := fmt.Sprintf("%s.%s", id, ext)
	relPath, err := s.storage.Save(filename, rendered)
	if err != nil {
		s.fail(ctx, id, err)
		return err
	}

	finished := models.ExportStatusFinished
	full := 100
	now := time.Now().UTC()
	if err := s.jobRepo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:     &finished,
		Progress:   &full,
		ResultURL:  &relPath,
		FinishedAt: &now,
	}); err != nil {
		return fmt.Errorf("finalize export job %s: %w", id, err)
	}
	return nil
}

func (s *TimetableExportService) fail(ctx context.Context, id string, cause error) {
	failed := models.ExportStatusFailed
	msg := cause.Error()
	now := time.Now().UTC()
	if err := s.jobRepo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &failed,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Sugar().Errorw("failed to mark export job failed", "job_id", id, "error", err)
	}
}

func (s *TimetableExportService) buildDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, error) {
	entries, err := s.entryRepo.FindForScheduling(ctx, params.Semester, params.AcademicYear)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load timetable entries: %w", err)
	}

	if params.Department != nil && *params.Department != "" {
		courses, err := s.courseRepo.FindForScheduling(ctx, params.Semester, params.AcademicYear, *params.Department, false)
		if err != nil {
			return export.Dataset{}, fmt.Errorf("load courses for department filter: %w", err)
		}
		allowed := make(map[string]bool, len(courses))
		for _, c := range courses {
			allowed[c.ID] = true
		}
		filtered := entries[:0]
		for _, e := range entries {
			if allowed[e.CourseID] {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Start", "End", "Course", "Teacher", "Student Group", "Classroom", "Status"},
		Rows:    make([]map[string]string, 0, len(entries)),
	}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":           e.Day,
			"Start":         e.StartTime,
			"End":           e.EndTime,
			"Course":        s.courseLabel(ctx, e.CourseID),
			"Teacher":       s.teacherLabel(ctx, e.TeacherID),
			"Student Group": s.groupLabel(ctx, e.StudentGroupID),
			"Classroom":     s.classroomLabel(ctx, e.ClassroomID),
			"Status":        e.Status,
		})
	}
	return dataset, nil
}

func (s *TimetableExportService) courseLabel(ctx context.Context, id string) string {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return id
	}
	return fmt.Sprintf("%s - %s", course.Code, course.Name)
}

func (s *TimetableExportService) teacherLabel(ctx context.Context, id string) string {
	teacher, err := s.teacherRepo.FindByID(ctx, id)
	if err != nil {
		return id
	}
	return teacher.FullName
}

func (s *TimetableExportService) groupLabel(ctx context.Context, id string) string {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return id
	}
	return group.Name
}

func (s *TimetableExportService) classroomLabel(ctx context.Context, id string) string {
	classroom, err := s.classroomRepo.FindByID(ctx, id)
	if err != nil {
		return id
	}
	return classroom.Name
}
