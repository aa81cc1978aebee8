package models

import "time"

// StudentGroup is a cohort of students sharing a timetable — the
// domain's renaming of what a school would call a class or section.
type StudentGroup struct {
	ID              string           `db:"id" json:"id"`
	Name            string           `db:"name" json:"name"`
	Size            int              `db:"size" json:"size"`
	Semester        string           `db:"semester" json:"semester"`
	AcademicYear    string           `db:"academic_year" json:"academic_year"`
	Department      string           `db:"department" json:"department"`
	Availability    AvailabilityJSON `db:"availability" json:"availability,omitempty"`
	BlackoutPeriods AvailabilityJSON `db:"blackout_periods" json:"blackout_periods,omitempty"`
	Active          bool             `db:"active" json:"active"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// StudentGroupFilter defines filter criteria for listing student groups.
type StudentGroupFilter struct {
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

// StudentGroupMembership links a user account to the student groups
// they belong to, consulted by role-scoped timetable queries.
type StudentGroupMembership struct {
	UserID         string `db:"user_id" json:"user_id"`
	StudentGroupID string `db:"student_group_id" json:"student_group_id"`
}
