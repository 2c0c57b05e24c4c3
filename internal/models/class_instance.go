package models

import "time"

// AttendanceStatus represents the tri-state attendance of a class instance.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent  AttendanceStatus = "ABSENT"
	AttendanceStatusExcused AttendanceStatus = "EXCUSED"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusExcused:
		return true
	default:
		return false
	}
}

// Attended reports whether the status counts towards attendance. EXCUSED counts.
func (s AttendanceStatus) Attended() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusExcused
}

// ClassInstance is one dated occurrence of a timetable block.
type ClassInstance struct {
	ID              string           `db:"id" json:"id"`
	UserID          string           `db:"user_id" json:"user_id"`
	SemesterID      string           `db:"semester_id" json:"semester_id"`
	SubjectID       string           `db:"subject_id" json:"subject_id"`
	SubjectName     string           `db:"subject_name" json:"subject_name,omitempty"`
	Date            time.Time        `db:"date" json:"date"`
	StartTime       time.Time        `db:"start_time" json:"start_time"`
	EndTime         time.Time        `db:"end_time" json:"end_time"`
	Status          AttendanceStatus `db:"status" json:"status"`
	StatusUpdatedAt *time.Time       `db:"status_updated_at" json:"status_updated_at,omitempty"`
	StatusUpdatedBy *string          `db:"status_updated_by" json:"status_updated_by,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}
