package engine

import (
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

const (
	defaultHolidayName = "Holiday"
	defaultExamName    = "Exam Period"
)

// BuildToday tallies today's instances and, when there are none, classifies why.
// Risk is left unset; see ComputeDayRisk.
func BuildToday(now time.Time, instancesToday []models.ClassInstance, semester *models.Semester) models.DaySummary {
	summary := models.DaySummary{Total: len(instancesToday), EmptyReason: models.EmptyReasonNone}
	for _, instance := range instancesToday {
		if instance.EndTime.Before(now) {
			summary.Completed++
		} else {
			summary.Remaining++
		}
		if instance.Status.Attended() {
			summary.Attended++
		}
	}

	if len(instancesToday) == 0 {
		summary.EmptyReason, summary.EmptyReasonName = ClassifyEmptyDay(now, semester)
	}
	return summary
}

// ClassifyEmptyDay explains an empty day. Holidays win over exams, and both win over
// weekends; a day with no semester at all has simply no classes.
func ClassifyEmptyDay(now time.Time, semester *models.Semester) (models.EmptyReason, string) {
	if semester == nil {
		return models.EmptyReasonNoClasses, ""
	}
	if block, ok := Find(now, semester.Holidays); ok {
		return models.EmptyReasonHoliday, block.DisplayName(defaultHolidayName)
	}
	if block, ok := Find(now, semester.ExamBlocks); ok {
		return models.EmptyReasonExam, block.DisplayName(defaultExamName)
	}
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return models.EmptyReasonWeekend, ""
	}
	return models.EmptyReasonNoClasses, ""
}
