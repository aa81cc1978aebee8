package models

import "time"

// TimetableEntry is one placement: a course session for a student
// group, taught by a teacher, in a classroom, at a day and time.
type TimetableEntry struct {
	ID             string    `db:"id" json:"id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	StudentGroupID string    `db:"student_group_id" json:"student_group_id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	ClassroomID    string    `db:"classroom_id" json:"classroom_id"`
	Day            string    `db:"day" json:"day"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	Duration       int       `db:"duration" json:"duration"`
	WeekNumber     int       `db:"week_number" json:"week_number,omitempty"`
	Semester       string    `db:"semester" json:"semester"`
	AcademicYear   string    `db:"academic_year" json:"academic_year"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Timetable entry lifecycle states.
const (
	TimetableEntryStatusActive    = "ACTIVE"
	TimetableEntryStatusCancelled = "CANCELLED"
)

// TimetableEntryFilter describes query params for listing timetable
// entries.
type TimetableEntryFilter struct {
	CourseID       string
	StudentGroupID string
	TeacherID      string
	ClassroomID    string
	Day            string
	Semester       string
	AcademicYear   string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}

// TimetableConflict describes one reason a candidate placement was
// rejected (a collision, a daily cap or an availability miss), surfaced
// verbatim in a 409 response.
type TimetableConflict struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
