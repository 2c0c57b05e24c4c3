package dto

import "github.com/noah-isme/attendance-planner-api/internal/models"

// TimetableRow is one parsed row of an uploaded weekly timetable.
type TimetableRow struct {
	Day       string `json:"day" validate:"required,weekday"`
	Type      string `json:"type" validate:"required,oneof=THEORY LAB FREE"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock"`
	Subject   string `json:"subject" validate:"required_unless=Type FREE"`
}

// SaveTimetableRequest stores timetable rows. SubjectMapping maps each raw subject
// label to its display name; Replace clears the previous timetable first.
type SaveTimetableRequest struct {
	Rows           []TimetableRow    `json:"rows" validate:"required,min=1,dive"`
	SubjectMapping map[string]string `json:"subjectMapping" validate:"omitempty,dive,keys,required,endkeys,required,max=120"`
	Replace        bool              `json:"replace"`
}

// SaveTimetableResponse summarises a save.
type SaveTimetableResponse struct {
	Saved           int `json:"saved"`
	Skipped         int `json:"skipped"`
	SubjectsCreated int `json:"subjectsCreated"`
}

// TimetableEntryResponse is one stored template block.
type TimetableEntryResponse struct {
	ID        string           `json:"id"`
	Day       models.Weekday   `json:"day"`
	StartTime models.TimeOfDay `json:"startTime"`
	EndTime   models.TimeOfDay `json:"endTime"`
	SubjectID string           `json:"subjectId"`
	Subject   string           `json:"subject"`
	Type      models.BlockType `json:"type"`
}

// KnownSubjectsResponse lists subject names and every alias they were imported under.
type KnownSubjectsResponse struct {
	Names []string `json:"names"`
}
