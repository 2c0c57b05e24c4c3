package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

var (
	// ErrInvalidSemester rejects a semester whose end date is not after its start date.
	ErrInvalidSemester = errors.New("semester end date must be after start date")
	// ErrInvalidTimeSlot rejects a template block whose end is not after its start.
	ErrInvalidTimeSlot = errors.New("time slot end must be after start")
	// ErrInvalidWeekday rejects a template block with an unknown day code.
	ErrInvalidWeekday = errors.New("unknown day of week")
)

// ValidateSemester checks the semester span.
func ValidateSemester(semester models.Semester) error {
	if dateKey(semester.EndDate) <= dateKey(semester.StartDate) {
		return ErrInvalidSemester
	}
	return nil
}

// ValidateTemplate checks every entry of a weekly template.
func ValidateTemplate(template []models.WeeklyTemplateEntry) error {
	for i, entry := range template {
		if !entry.DayOfWeek.Valid() {
			return fmt.Errorf("entry %d (%q): %w", i, entry.DayOfWeek, ErrInvalidWeekday)
		}
		if entry.EndTime <= entry.StartTime {
			return fmt.Errorf("entry %d (%s %s-%s): %w", i, entry.DayOfWeek, entry.StartTime, entry.EndTime, ErrInvalidTimeSlot)
		}
	}
	if i, j, ok := FindOverlap(template); ok {
		a, b := template[i], template[j]
		return fmt.Errorf("entries %d and %d (%s %s-%s, %s-%s) overlap: %w",
			i, j, a.DayOfWeek, a.StartTime, a.EndTime, b.StartTime, b.EndTime, ErrInvalidTimeSlot)
	}
	return nil
}

// FindOverlap returns the indexes of the first two teaching entries of the same subject
// whose slots overlap on the same weekday. Blocks that only touch end to start do not
// overlap; they are merged by Generate.
func FindOverlap(template []models.WeeklyTemplateEntry) (int, int, bool) {
	for i := 0; i < len(template); i++ {
		a := template[i]
		if a.BlockType == models.BlockTypeFree {
			continue
		}
		for j := i + 1; j < len(template); j++ {
			b := template[j]
			if b.BlockType == models.BlockTypeFree || a.DayOfWeek != b.DayOfWeek || a.SubjectID != b.SubjectID {
				continue
			}
			if a.StartTime < b.EndTime && b.StartTime < a.EndTime {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Generate materializes the weekly template into class instances for every
// non-blackout day of the semester, both bounds inclusive. Instances are returned
// in chronological order with status PRESENT and no audit fields. IDs, user and
// semester ownership are left for the caller to assign.
func Generate(semester models.Semester, template []models.WeeklyTemplateEntry) ([]models.ClassInstance, error) {
	if err := ValidateSemester(semester); err != nil {
		return nil, err
	}
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}

	var instances []models.ClassInstance
	if len(template) == 0 {
		return instances, nil
	}

	last := Day(semester.EndDate)
	for day := Day(semester.StartDate); !day.After(last); day = day.AddDate(0, 0, 1) {
		if IsBlackedOut(day, &semester) {
			continue
		}
		instances = append(instances, expandDay(day, template)...)
	}
	return instances, nil
}

// expandDay builds the merged instances of one calendar day.
func expandDay(day time.Time, template []models.WeeklyTemplateEntry) []models.ClassInstance {
	weekday := models.WeekdayOf(day.Weekday())
	var candidates []models.ClassInstance
	for _, entry := range template {
		if entry.DayOfWeek != weekday || entry.BlockType == models.BlockTypeFree {
			continue
		}
		candidates = append(candidates, models.ClassInstance{
			SubjectID:   entry.SubjectID,
			SubjectName: entry.SubjectName,
			Date:        day,
			StartTime:   entry.StartTime.On(day),
			EndTime:     entry.EndTime.On(day),
			Status:      models.AttendanceStatusPresent,
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartTime.Before(candidates[j].StartTime)
	})
	return mergeAdjacent(candidates)
}

// mergeAdjacent collapses back-to-back blocks of the same subject. Candidates must
// be sorted by start time. Only an exact end == start boundary chains two blocks.
func mergeAdjacent(candidates []models.ClassInstance) []models.ClassInstance {
	merged := make([]models.ClassInstance, 0, len(candidates))
	for _, candidate := range candidates {
		if n := len(merged); n > 0 {
			prev := &merged[n-1]
			if prev.SubjectID == candidate.SubjectID && prev.EndTime.Equal(candidate.StartTime) {
				prev.EndTime = candidate.EndTime
				continue
			}
		}
		merged = append(merged, candidate)
	}
	return merged
}
