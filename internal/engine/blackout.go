package engine

import (
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// dateKey orders calendar days as yyyymmdd, read in each value's own location.
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Day truncates t to midnight of its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return dateKey(a) == dateKey(b)
}

func inBlock(key int, block models.BlackoutBlock) bool {
	return key >= dateKey(block.StartDate) && key <= dateKey(block.EndDate)
}

// Contains reports whether the calendar day of date lies inside any block, bounds inclusive.
func Contains(date time.Time, blocks []models.BlackoutBlock) bool {
	_, ok := Find(date, blocks)
	return ok
}

// Find returns the first block covering the calendar day of date.
func Find(date time.Time, blocks []models.BlackoutBlock) (models.BlackoutBlock, bool) {
	key := dateKey(date)
	for _, block := range blocks {
		if inBlock(key, block) {
			return block, true
		}
	}
	return models.BlackoutBlock{}, false
}

// IsBlackedOut reports whether date falls in any holiday or exam block of the semester.
func IsBlackedOut(date time.Time, semester *models.Semester) bool {
	if semester == nil {
		return false
	}
	return Contains(date, semester.Holidays) || Contains(date, semester.ExamBlocks)
}
