package models

import "time"

// Classroom is a physical or virtual room courses can be held in.
type Classroom struct {
	ID              string           `db:"id" json:"id"`
	Name            string           `db:"name" json:"name"`
	Capacity        int              `db:"capacity" json:"capacity"`
	Availability    AvailabilityJSON `db:"availability" json:"availability,omitempty"`
	BlackoutPeriods AvailabilityJSON `db:"blackout_periods" json:"blackout_periods,omitempty"`
	Active          bool             `db:"active" json:"active"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter captures filtering options for listing classrooms.
type ClassroomFilter struct {
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
