package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice is a list of ids stored as a JSON array, used for
// Course.StudentGroupIDs.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported scan type for StringSlice: %T", value)
		}
		raw = []byte(str)
	}
	return json.Unmarshal(raw, s)
}

// Course is a teaching unit taught by one teacher to one or more
// student groups some number of times per week.
type Course struct {
	ID              string      `db:"id" json:"id"`
	Code            string      `db:"code" json:"code"`
	Name            string      `db:"name" json:"name"`
	Duration        int         `db:"duration" json:"duration"`
	Frequency       int         `db:"frequency" json:"frequency"`
	TeacherID       string      `db:"teacher_id" json:"teacher_id"`
	StudentGroupIDs StringSlice `db:"student_group_ids" json:"student_group_ids"`
	Semester        string      `db:"semester" json:"semester"`
	AcademicYear    string      `db:"academic_year" json:"academic_year"`
	Department      string      `db:"department" json:"department"`
	Active          bool        `db:"active" json:"active"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Semester     string
	AcademicYear string
	Department   string
	ActiveOnly   bool
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
