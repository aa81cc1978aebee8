package dto

// CreateTimetableEntryRequest validates a single manual placement before
// it is run through the conflict kernel.
type CreateTimetableEntryRequest struct {
	CourseID       string `json:"courseId" validate:"required"`
	StudentGroupID string `json:"studentGroupId" validate:"required"`
	TeacherID      string `json:"teacherId" validate:"required"`
	ClassroomID    string `json:"classroomId" validate:"required"`
	Day            string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday"`
	StartTime      string `json:"startTime" validate:"required"`
	Duration       int    `json:"duration" validate:"required,min=30,max=180"`
	Semester       string `json:"semester" validate:"required"`
	AcademicYear   string `json:"academicYear" validate:"required"`
	Notes          string `json:"notes"`
}

// UpdateTimetableEntryRequest whitelists the fields a PUT may change.
// When Day, StartTime or ClassroomID are set, the kernel re-runs
// excluding the entry itself.
type UpdateTimetableEntryRequest struct {
	Day         *string `json:"day" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday"`
	StartTime   *string `json:"startTime"`
	Duration    *int    `json:"duration" validate:"omitempty,min=30,max=180"`
	ClassroomID *string `json:"classroomId"`
	Notes       *string `json:"notes"`
	Status      *string `json:"status" validate:"omitempty,oneof=ACTIVE CANCELLED"`
}

// TimetableEntryQuery captures the supported GET /timetable filters.
type TimetableEntryQuery struct {
	CourseID       string `form:"courseId"`
	StudentGroupID string `form:"studentGroupId"`
	TeacherID      string `form:"teacherId"`
	ClassroomID    string `form:"classroomId"`
	Day            string `form:"day"`
	Semester       string `form:"semester"`
	AcademicYear   string `form:"academicYear"`
	Page           int    `form:"page"`
	PageSize       int    `form:"limit"`
}

// GenerateTimetableQuery captures shared generation parameters; the
// algorithm-specific fields are populated only by the route that uses
// them. Semester and AcademicYear may be left blank to fall back to
// whichever term is currently marked active.
type GenerateTimetableQuery struct {
	Semester       string  `form:"semester"`
	AcademicYear   string  `form:"academicYear"`
	Department     string  `form:"department"`
	Debug          bool    `form:"debug"`
	PopulationSize int     `form:"populationSize"`
	MaxGenerations int     `form:"maxGenerations"`
	MutationRate   float64 `form:"mutationRate"`
	CrossoverRate  float64 `form:"crossoverRate"`
	Algorithm      string  `form:"algorithm"`
}

// GeneratedEntry is one placement in a generation response, carrying
// resolved display names for the client alongside the raw ids.
type GeneratedEntry struct {
	CourseID       string `json:"courseId"`
	CourseName     string `json:"courseName"`
	StudentGroupID string `json:"studentGroupId"`
	TeacherID      string `json:"teacherId"`
	ClassroomID    string `json:"classroomId"`
	Day            string `json:"day"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Duration       int    `json:"duration"`
}

// UnscheduledSession reports demand the generator could not place.
type UnscheduledSession struct {
	CourseID       string   `json:"courseId"`
	StudentGroupID string   `json:"studentGroupId"`
	SessionIndex   int      `json:"sessionIndex"`
	Reasons        []string `json:"reasons,omitempty"`
}

// GenerateTimetableResponse is the shared shape for every
// /timetable/generate* route. ProposalID references the Redis-backed
// cache entry that POST /timetable/generate/save later commits.
type GenerateTimetableResponse struct {
	ProposalID  string                 `json:"proposalId"`
	Algorithm   string                 `json:"algorithm"`
	Entries     []GeneratedEntry       `json:"entries"`
	Unscheduled []UnscheduledSession   `json:"unscheduled"`
	Fitness     *float64               `json:"fitness,omitempty"`
	Generations *int                   `json:"generations,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// AlgorithmComparisonEntry mirrors one scheduler.ComparisonRecord.
type AlgorithmComparisonEntry struct {
	Algorithm      string                 `json:"algorithm"`
	TotalSlots     int                    `json:"totalSlots"`
	Unscheduled    int                    `json:"unscheduled"`
	SuccessRate    float64                `json:"successRate"`
	Fitness        float64                `json:"fitness,omitempty"`
	HardViolations int                    `json:"hardViolations"`
	SoftViolations int                    `json:"softViolations"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// CompareAlgorithmsResponse reports every algorithm's outcome side by
// side plus the proposal id of whichever run the caller should be
// offered to save.
type CompareAlgorithmsResponse struct {
	Results    []AlgorithmComparisonEntry `json:"results"`
	ProposalID string                     `json:"proposalId"`
}

// SaveGeneratedTimetableRequest commits a cached proposal verbatim.
type SaveGeneratedTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
}

// ImportTimetableRequest selects what a CSV upload to
// POST /timetable/import represents.
type ImportTimetableRequest struct {
	Kind string `form:"kind" validate:"required,oneof=courses classrooms student_groups"`
}

// ImportRowResult reports the outcome of one imported CSV row.
type ImportRowResult struct {
	Row     int    `json:"row"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ImportTimetableResponse summarizes a bulk CSV import.
type ImportTimetableResponse struct {
	Kind      string            `json:"kind"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Rows      []ImportRowResult `json:"rows"`
}
