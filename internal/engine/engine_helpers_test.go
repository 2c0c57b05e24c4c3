package engine

import (
	"testing"
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func strPtr(v string) *string { return &v }

func block(kind models.BlackoutKind, start, end time.Time, name string) models.BlackoutBlock {
	b := models.BlackoutBlock{Kind: kind, StartDate: start, EndDate: end}
	if name != "" {
		b.Name = strPtr(name)
	}
	return b
}

func entry(day models.Weekday, start, end, subjectID string) models.WeeklyTemplateEntry {
	return models.WeeklyTemplateEntry{
		DayOfWeek:   day,
		StartTime:   models.MustTimeOfDay(start),
		EndTime:     models.MustTimeOfDay(end),
		SubjectID:   subjectID,
		SubjectName: subjectID,
		BlockType:   models.BlockTypeTheory,
	}
}

// dailySeries builds n one-hour instances of a subject on consecutive days from first,
// applying statuses in order and defaulting the rest to PRESENT.
func dailySeries(subjectID string, first time.Time, n int, statuses ...models.AttendanceStatus) []models.ClassInstance {
	out := make([]models.ClassInstance, n)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, 0, i)
		status := models.AttendanceStatusPresent
		if i < len(statuses) {
			status = statuses[i]
		}
		out[i] = models.ClassInstance{
			SubjectID:   subjectID,
			SubjectName: subjectID,
			Date:        Day(start),
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
			Status:      status,
		}
	}
	return out
}

func mustInstant(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04", raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return parsed
}
