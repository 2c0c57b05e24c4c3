package engine

import (
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// HeldAt filters instances that have started at now.
func HeldAt(now time.Time, instances []models.ClassInstance) []models.ClassInstance {
	held := make([]models.ClassInstance, 0, len(instances))
	for _, instance := range instances {
		if IsHeld(instance, now) {
			held = append(held, instance)
		}
	}
	return held
}

// SubjectStats tallies the instances of one subject.
func SubjectStats(instances []models.ClassInstance, subjectID string) models.AttendanceStats {
	var subset []models.ClassInstance
	for _, instance := range instances {
		if instance.SubjectID == subjectID {
			subset = append(subset, instance)
		}
	}
	return CumulativeStats(subset)
}

// CumulativeStats tallies every instance given. Percentage is unrounded and 0 when empty.
func CumulativeStats(instances []models.ClassInstance) models.AttendanceStats {
	stats := models.AttendanceStats{TotalHeld: len(instances)}
	for _, instance := range instances {
		if instance.Status.Attended() {
			stats.Attended++
		}
	}
	if stats.TotalHeld > 0 {
		stats.Percentage = float64(stats.Attended) / float64(stats.TotalHeld) * 100
	}
	return stats
}
