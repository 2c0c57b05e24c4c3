package dto

import "github.com/noah-isme/attendance-planner-api/internal/models"

// DateLayout is the calendar date format accepted by the API.
const DateLayout = "2006-01-02"

// BlackoutInput describes a holiday or exam range, both dates inclusive.
type BlackoutInput struct {
	Start string  `json:"start" validate:"required,datetime=2006-01-02"`
	End   string  `json:"end" validate:"required,datetime=2006-01-02"`
	Name  *string `json:"name" validate:"omitempty,max=120"`
}

// CreateSemesterRequest sets up a semester and generates its class instances.
type CreateSemesterRequest struct {
	StartDate        string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate          string          `json:"endDate" validate:"required,datetime=2006-01-02"`
	MinAttendancePct *float64        `json:"minAttendancePct" validate:"omitempty,gt=0,lte=100"`
	Holidays         []BlackoutInput `json:"holidays" validate:"omitempty,dive"`
	Exams            []BlackoutInput `json:"exams" validate:"omitempty,dive"`
}

// CreateSemesterResponse reports the stored semester and the size of the generated batch.
type CreateSemesterResponse struct {
	Semester           *models.Semester `json:"semester"`
	InstancesGenerated int              `json:"instancesGenerated"`
}

// AddBlackoutRequest adds a block to the current semester.
type AddBlackoutRequest struct {
	Kind string `json:"kind" validate:"required,block_kind"`
	BlackoutInput
}

// SemesterScheduleResponse lists the current semester's blocks by start date.
type SemesterScheduleResponse struct {
	Holidays   []models.BlackoutBlock `json:"holidays"`
	ExamBlocks []models.BlackoutBlock `json:"examBlocks"`
}

// ExistsResponse answers the onboarding existence checks.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}
