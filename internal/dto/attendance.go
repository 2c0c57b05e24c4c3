package dto

import "github.com/noah-isme/attendance-planner-api/internal/models"

// MarkAttendanceRequest sets the status of one class instance.
type MarkAttendanceRequest struct {
	Status string `json:"status" validate:"required,attendance_status"`
}

// SubjectAttendanceStats is the held/attended tally of one subject.
type SubjectAttendanceStats struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	models.AttendanceStats
}

// AttendanceStatsResponse tallies classes held so far.
type AttendanceStatsResponse struct {
	Overall  models.AttendanceStats   `json:"overall"`
	Subjects []SubjectAttendanceStats `json:"subjects"`
}
