package models

import "fmt"

// SubjectRiskMeta is the derived attendance standing of one subject at a point in time.
type SubjectRiskMeta struct {
	AttendancePercentage int  `json:"attendance_percentage"`
	ConsecutiveAbsences  int  `json:"consecutive_absences"`
	SafeSkips            int  `json:"safe_skips"`
	IsCritical           bool `json:"is_critical"`
	RequiredClasses      int  `json:"required_classes"`
	TotalScheduled       int  `json:"total_scheduled"`
}

// RiskLevel grades the day's tightest subject.
type RiskLevel string

const (
	RiskLevelGood     RiskLevel = "GOOD"
	RiskLevelWarning  RiskLevel = "WARNING"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// RiskSummary is the cross-subject risk digest. Count is the number of critical
// subjects for CRITICAL and the minimum safe-skip budget otherwise.
type RiskSummary struct {
	Level       RiskLevel `json:"level"`
	SubjectID   string    `json:"subject_id,omitempty"`
	SubjectName string    `json:"subject_name,omitempty"`
	Count       int       `json:"count"`
}

// Message renders the one-line English summary.
func (r *RiskSummary) Message() string {
	if r == nil {
		return ""
	}
	switch r.Level {
	case RiskLevelCritical:
		suffix := ""
		if r.Count > 1 {
			suffix = "s"
		}
		return fmt.Sprintf("You have no room for error in %d subject%s.", r.Count, suffix)
	case RiskLevelWarning:
		return fmt.Sprintf("Maximum safe absences remaining: %d (in %s).", r.Count, r.SubjectName)
	default:
		return fmt.Sprintf("Maximum safe absences remaining: %d (in your tightest subject).", r.Count)
	}
}

// EmptyReason explains why a day has no classes.
type EmptyReason string

const (
	EmptyReasonNone      EmptyReason = "NONE"
	EmptyReasonHoliday   EmptyReason = "HOLIDAY"
	EmptyReasonExam      EmptyReason = "EXAM"
	EmptyReasonWeekend   EmptyReason = "WEEKEND"
	EmptyReasonNoClasses EmptyReason = "NO_CLASSES"
)

// DaySummary aggregates the counts of a single day's classes.
type DaySummary struct {
	Total           int          `json:"total"`
	Completed       int          `json:"completed"`
	Remaining       int          `json:"remaining"`
	Attended        int          `json:"attended"`
	EmptyReason     EmptyReason  `json:"empty_reason"`
	EmptyReasonName string       `json:"empty_reason_name,omitempty"`
	Risk            *RiskSummary `json:"risk,omitempty"`
}

// AttendanceStats is a plain held/attended tally.
type AttendanceStats struct {
	TotalHeld  int     `json:"total_held"`
	Attended   int     `json:"attended"`
	Percentage float64 `json:"percentage"`
}
