package service

import (
	"context"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/arviyanto/classweave/internal/dto"
	appErrors "github.com/arviyanto/classweave/pkg/errors"
)

// courseImportRow is one line of a course bulk-import CSV. StudentGroupIDs
// is semicolon-separated since a course can serve several groups.
type courseImportRow struct {
	Code            string `csv:"code"`
	Name            string `csv:"name"`
	Duration        int    `csv:"duration"`
	Frequency       int    `csv:"frequency"`
	TeacherID       string `csv:"teacher_id"`
	StudentGroupIDs string `csv:"student_group_ids"`
	Semester        string `csv:"semester"`
	AcademicYear    string `csv:"academic_year"`
	Department      string `csv:"department"`
}

type classroomImportRow struct {
	Name     string `csv:"name"`
	Capacity int    `csv:"capacity"`
}

type studentGroupImportRow struct {
	Name         string `csv:"name"`
	Size         int    `csv:"size"`
	Semester     string `csv:"semester"`
	AcademicYear string `csv:"academic_year"`
	Department   string `csv:"department"`
}

// Bulk import targets, matching dto.ImportTimetableRequest.Kind.
const (
	ImportKindCourses       = "courses"
	ImportKindClassrooms    = "classrooms"
	ImportKindStudentGroups = "student_groups"
)

// TimetableImportService bulk-loads courses, classrooms and student
// groups from CSV uploads, continuing past row-level failures so a
// single malformed row doesn't abort the whole batch.
type TimetableImportService struct {
	courses       *CourseService
	classrooms    *ClassroomService
	studentGroups *StudentGroupService
	logger        *zap.Logger
}

// NewTimetableImportService constructs an import service.
func NewTimetableImportService(courses *CourseService, classrooms *ClassroomService, studentGroups *StudentGroupService, logger *zap.Logger) *TimetableImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableImportService{courses: courses, classrooms: classrooms, studentGroups: studentGroups, logger: logger}
}

// Import parses the given CSV payload against the requested kind and
// creates one record per row, reporting per-row outcomes.
func (s *TimetableImportService) Import(ctx context.Context, kind string, payload []byte) (*dto.ImportTimetableResponse, error) {
	switch kind {
	case ImportKindCourses:
		return s.importCourses(ctx, payload)
	case ImportKindClassrooms:
		return s.importClassrooms(ctx, payload)
	case ImportKindStudentGroups:
		return s.importStudentGroups(ctx, payload)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported import kind")
	}
}

func (s *TimetableImportService) importCourses(ctx context.Context, payload []byte) (*dto.ImportTimetableResponse, error) {
	var rows []*courseImportRow
	if err := gocsv.UnmarshalBytes(payload, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse courses csv")
	}

	resp := &dto.ImportTimetableResponse{Kind: ImportKindCourses, Total: len(rows)}
	for i, row := range rows {
		rowNum := i + 2 // header is row 1
		groupIDs := splitAndTrimList(row.StudentGroupIDs)
		_, err := s.courses.Create(ctx, CreateCourseRequest{
			Code:            row.Code,
			Name:            row.Name,
			Duration:        row.Duration,
			Frequency:       row.Frequency,
			TeacherID:       row.TeacherID,
			StudentGroupIDs: groupIDs,
			Semester:        row.Semester,
			AcademicYear:    row.AcademicYear,
			Department:      row.Department,
		})
		resp.Rows = append(resp.Rows, rowResult(rowNum, err))
		tally(resp, err)
	}
	return resp, nil
}

func (s *TimetableImportService) importClassrooms(ctx context.Context, payload []byte) (*dto.ImportTimetableResponse, error) {
	var rows []*classroomImportRow
	if err := gocsv.UnmarshalBytes(payload, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse classrooms csv")
	}

	resp := &dto.ImportTimetableResponse{Kind: ImportKindClassrooms, Total: len(rows)}
	for i, row := range rows {
		rowNum := i + 2
		_, err := s.classrooms.Create(ctx, CreateClassroomRequest{
			Name:     row.Name,
			Capacity: row.Capacity,
		})
		resp.Rows = append(resp.Rows, rowResult(rowNum, err))
		tally(resp, err)
	}
	return resp, nil
}

func (s *TimetableImportService) importStudentGroups(ctx context.Context, payload []byte) (*dto.ImportTimetableResponse, error) {
	var rows []*studentGroupImportRow
	if err := gocsv.UnmarshalBytes(payload, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse student groups csv")
	}

	resp := &dto.ImportTimetableResponse{Kind: ImportKindStudentGroups, Total: len(rows)}
	for i, row := range rows {
		rowNum := i + 2
		_, err := s.studentGroups.Create(ctx, CreateStudentGroupRequest{
			Name:         row.Name,
			Size:         row.Size,
			Semester:     row.Semester,
			AcademicYear: row.AcademicYear,
			Department:   row.Department,
		})
		resp.Rows = append(resp.Rows, rowResult(rowNum, err))
		tally(resp, err)
	}
	return resp, nil
}

func rowResult(row int, err error) dto.ImportRowResult {
	if err != nil {
		return dto.ImportRowResult{Row: row, Success: false, Error: err.Error()}
	}
	return dto.ImportRowResult{Row: row, Success: true}
}

func tally(resp *dto.ImportTimetableResponse, err error) {
	if err != nil {
		resp.Failed++
		return
	}
	resp.Succeeded++
}

func splitAndTrimList(raw string) []string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
