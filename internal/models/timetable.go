package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Weekday is the three-letter day code used by timetables.
type Weekday string

const (
	WeekdayMonday    Weekday = "MON"
	WeekdayTuesday   Weekday = "TUE"
	WeekdayWednesday Weekday = "WED"
	WeekdayThursday  Weekday = "THU"
	WeekdayFriday    Weekday = "FRI"
	WeekdaySaturday  Weekday = "SAT"
	WeekdaySunday    Weekday = "SUN"
)

var weekdayIndex = map[Weekday]time.Weekday{
	WeekdaySunday:    time.Sunday,
	WeekdayMonday:    time.Monday,
	WeekdayTuesday:   time.Tuesday,
	WeekdayWednesday: time.Wednesday,
	WeekdayThursday:  time.Thursday,
	WeekdayFriday:    time.Friday,
	WeekdaySaturday:  time.Saturday,
}

// Valid returns true when the code is a supported weekday.
func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

// Std converts the code into a time.Weekday.
func (d Weekday) Std() time.Weekday {
	return weekdayIndex[d]
}

// WeekdayOf returns the code for a standard weekday.
func WeekdayOf(d time.Weekday) Weekday {
	for code, idx := range weekdayIndex {
		if idx == d {
			return code
		}
	}
	return ""
}

// BlockType classifies a timetable block.
type BlockType string

const (
	BlockTypeTheory BlockType = "THEORY"
	BlockTypeLab    BlockType = "LAB"
	BlockTypeFree   BlockType = "FREE"
)

// TimeOfDay is a wall-clock time stored as minutes after midnight.
type TimeOfDay int

const (
	clockLayout   = "15:04"
	pgClockLayout = "15:04:05"
)

// ParseTimeOfDay parses a zero-padded 24-hour "HH:MM".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) != len(clockLayout) {
		return 0, fmt.Errorf("time of day %q must be HH:MM", raw)
	}
	parsed, err := time.Parse(clockLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
}

// MustTimeOfDay is ParseTimeOfDay for literals.
func MustTimeOfDay(raw string) TimeOfDay {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String formats the value as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On combines the calendar day of date with the time of day, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the time of day as HH:MM text.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan reads HH:MM text, or a postgres TIME rendered as HH:MM:SS.
func (t *TimeOfDay) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	default:
		return fmt.Errorf("unsupported time of day source %T", src)
	}
	// postgres renders TIME as HH:MM:SS, optionally with fractional seconds
	if len(raw) > len(clockLayout) {
		whole := raw
		if dot := strings.IndexByte(raw, '.'); dot == len(pgClockLayout) {
			whole = raw[:dot]
		}
		if _, err := time.Parse(pgClockLayout, whole); err != nil {
			return fmt.Errorf("scan time of day %q: %w", raw, err)
		}
		raw = raw[:len(clockLayout)]
	}
	return t.UnmarshalText([]byte(raw))
}

// WeeklyTemplateEntry is one recurring block of a user's weekly timetable.
type WeeklyTemplateEntry struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	DayOfWeek   Weekday   `db:"day_of_week" json:"day_of_week"`
	StartTime   TimeOfDay `db:"start_time" json:"start_time"`
	EndTime     TimeOfDay `db:"end_time" json:"end_time"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	SubjectName string    `db:"subject_name" json:"subject_name,omitempty"`
	BlockType   BlockType `db:"block_type" json:"block_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
