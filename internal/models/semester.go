package models

import "time"

// DefaultMinAttendancePct is applied when a semester does not carry its own threshold.
const DefaultMinAttendancePct = 75.0

// BlackoutKind distinguishes holidays from exam periods.
type BlackoutKind string

const (
	BlackoutKindHoliday BlackoutKind = "HOLIDAY"
	BlackoutKindExam    BlackoutKind = "EXAM"
)

// Valid returns true when the kind is supported.
func (k BlackoutKind) Valid() bool {
	return k == BlackoutKindHoliday || k == BlackoutKindExam
}

// Semester is a user's academic term with its attendance threshold.
type Semester struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user_id"`
	StartDate        time.Time       `db:"start_date" json:"start_date"`
	EndDate          time.Time       `db:"end_date" json:"end_date"`
	MinAttendancePct float64         `db:"min_attendance_pct" json:"min_attendance_pct"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
	Holidays         []BlackoutBlock `db:"-" json:"holidays"`
	ExamBlocks       []BlackoutBlock `db:"-" json:"exam_blocks"`
}

// MinPercent returns the semester threshold or the default when unset.
func (s *Semester) MinPercent() float64 {
	if s == nil || s.MinAttendancePct <= 0 {
		return DefaultMinAttendancePct
	}
	return s.MinAttendancePct
}

// Blackouts returns holidays followed by exam blocks.
func (s *Semester) Blackouts() []BlackoutBlock {
	if s == nil {
		return nil
	}
	all := make([]BlackoutBlock, 0, len(s.Holidays)+len(s.ExamBlocks))
	all = append(all, s.Holidays...)
	return append(all, s.ExamBlocks...)
}

// AttachBlackouts splits blocks by kind onto the semester.
func (s *Semester) AttachBlackouts(blocks []BlackoutBlock) {
	s.Holidays = s.Holidays[:0]
	s.ExamBlocks = s.ExamBlocks[:0]
	for _, block := range blocks {
		switch block.Kind {
		case BlackoutKindHoliday:
			s.Holidays = append(s.Holidays, block)
		case BlackoutKindExam:
			s.ExamBlocks = append(s.ExamBlocks, block)
		}
	}
}

// BlackoutBlock is a holiday or exam date range where no classes are generated.
type BlackoutBlock struct {
	ID         string       `db:"id" json:"id"`
	SemesterID string       `db:"semester_id" json:"semester_id"`
	Kind       BlackoutKind `db:"kind" json:"kind"`
	StartDate  time.Time    `db:"start_date" json:"start_date"`
	EndDate    time.Time    `db:"end_date" json:"end_date"`
	Name       *string      `db:"name" json:"name,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// DisplayName returns the block name or the fallback when none was given.
func (b BlackoutBlock) DisplayName(fallback string) string {
	if b.Name == nil || *b.Name == "" {
		return fallback
	}
	return *b.Name
}
