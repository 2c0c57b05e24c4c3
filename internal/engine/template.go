package engine

import (
	"sort"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

var weekdayRank = map[models.Weekday]int{
	models.WeekdayMonday:    0,
	models.WeekdayTuesday:   1,
	models.WeekdayWednesday: 2,
	models.WeekdayThursday:  3,
	models.WeekdayFriday:    4,
	models.WeekdaySaturday:  5,
	models.WeekdaySunday:    6,
}

// SortTemplate orders entries Monday first, then by start time.
func SortTemplate(entries []models.WeeklyTemplateEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := weekdayRank[entries[i].DayOfWeek], weekdayRank[entries[j].DayOfWeek]
		if ri != rj {
			return ri < rj
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}

// TeachingBlocks drops FREE entries, which never become class instances.
func TeachingBlocks(entries []models.WeeklyTemplateEntry) []models.WeeklyTemplateEntry {
	out := make([]models.WeeklyTemplateEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.BlockType == models.BlockTypeFree {
			continue
		}
		out = append(out, entry)
	}
	return out
}
