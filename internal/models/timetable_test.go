package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	parsed, err := ParseTimeOfDay(" 08:50 ")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(530), parsed)
	assert.Equal(t, "08:50", parsed.String())

	midnight, err := ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(0), midnight)

	rejected := []string{
		"", "8", "24:00", "12:60", "ab:cd",
		"08:30xyz", "8:5", "8:05", "+8:30", "08:30:99", "08:30:00", "08-30", "0830", "08:3a",
	}
	for _, raw := range rejected {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimeOfDayOn(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2024, 1, 1, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 40, 0, 0, loc), MustTimeOfDay("09:40").On(day))
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("13:05:00"))
	assert.Equal(t, "13:05", tod.String())

	require.NoError(t, tod.Scan([]byte("07:30")))
	assert.Equal(t, "07:30", tod.String())

	require.NoError(t, tod.Scan("21:10:00.000001"))
	assert.Equal(t, "21:10", tod.String())

	for _, raw := range []string{"13:05:99", "13:05xyz", "7:30:00", "13:05:00junk"} {
		assert.Error(t, tod.Scan(raw), raw)
	}

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 16, 45, 0, 0, time.UTC)))
	assert.Equal(t, "16:45", tod.String())

	assert.Error(t, tod.Scan(42))

	value, err := MustTimeOfDay("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", value)
}

func TestTimeOfDayJSON(t *testing.T) {
	var payload struct {
		Start TimeOfDay `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"11:15"}`), &payload))
	assert.Equal(t, MustTimeOfDay("11:15"), payload.Start)

	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"11:15"}`, string(encoded))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"late"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"start":"11:15pm"}`), &payload))
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, WeekdayMonday, WeekdayOf(time.Monday))
	assert.Equal(t, WeekdaySunday, WeekdayOf(time.Sunday))
	assert.Equal(t, time.Friday, WeekdayFriday.Std())
	assert.False(t, Weekday("mon").Valid())
}

func TestSubjectAliases(t *testing.T) {
	subject := Subject{Name: "Mathematics"}
	assert.Empty(t, subject.Aliases())

	changed, err := subject.AddAlias("MATHS-101")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = subject.AddAlias("MATHS-101")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = subject.AddAlias("Maths")
	require.NoError(t, err)
	assert.Equal(t, []string{"MATHS-101", "Maths"}, subject.Aliases())

	subject.RawAliases = []byte("not json")
	assert.Empty(t, subject.Aliases())
}

func TestSemesterBlackouts(t *testing.T) {
	name := "Diwali"
	semester := Semester{}
	semester.AttachBlackouts([]BlackoutBlock{
		{Kind: BlackoutKindExam},
		{Kind: BlackoutKindHoliday, Name: &name},
		{Kind: BlackoutKind("OTHER")},
	})
	assert.Len(t, semester.Holidays, 1)
	assert.Len(t, semester.ExamBlocks, 1)
	assert.Equal(t, BlackoutKindHoliday, semester.Blackouts()[0].Kind)
	assert.Equal(t, "Diwali", semester.Holidays[0].DisplayName("Holiday"))
	assert.Equal(t, "Exam Period", semester.ExamBlocks[0].DisplayName("Exam Period"))

	assert.Equal(t, DefaultMinAttendancePct, semester.MinPercent())
	semester.MinAttendancePct = 80
	assert.Equal(t, 80.0, semester.MinPercent())
}
