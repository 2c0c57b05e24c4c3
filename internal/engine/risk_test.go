package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

const (
	P = models.AttendanceStatusPresent
	A = models.AttendanceStatusAbsent
	E = models.AttendanceStatusExcused
)

func TestComputeSubjectRiskMidSemester(t *testing.T) {
	instances := dailySeries("math", at(2024, 1, 1, 9, 0), 20, P, P, P, A, A)
	now := at(2024, 1, 5, 12, 0)

	meta := ComputeSubjectRisk(now, 75, instances)

	assert.Equal(t, models.SubjectRiskMeta{
		AttendancePercentage: 60,
		ConsecutiveAbsences:  2,
		SafeSkips:            3,
		IsCritical:           false,
		RequiredClasses:      15,
		TotalScheduled:       20,
	}, meta)
}

func TestComputeSubjectRiskNoRoomLeft(t *testing.T) {
	instances := dailySeries("physics", at(2024, 1, 1, 9, 0), 10, A, A, P, P, P)
	now := at(2024, 1, 5, 12, 0)

	meta := ComputeSubjectRisk(now, 75, instances)

	assert.Equal(t, 8, meta.RequiredClasses)
	assert.Equal(t, 0, meta.SafeSkips)
	assert.True(t, meta.IsCritical)
	assert.Equal(t, 0, meta.ConsecutiveAbsences)
}

func TestComputeSubjectRiskAlreadyFailingClampsToZero(t *testing.T) {
	instances := dailySeries("chem", at(2024, 1, 1, 9, 0), 4, A, A, A)
	meta := ComputeSubjectRisk(at(2024, 1, 3, 12, 0), 75, instances)

	assert.Equal(t, 3, meta.RequiredClasses)
	assert.Equal(t, 0, meta.SafeSkips)
	assert.True(t, meta.IsCritical)
	assert.Equal(t, 0, meta.AttendancePercentage)
	assert.Equal(t, 3, meta.ConsecutiveAbsences)
}

func TestComputeSubjectRiskBeforeAnythingHeld(t *testing.T) {
	instances := dailySeries("math", at(2024, 1, 1, 9, 0), 8)
	meta := ComputeSubjectRisk(at(2023, 12, 31, 12, 0), 75, instances)

	assert.Equal(t, 100, meta.AttendancePercentage)
	assert.Equal(t, 6, meta.RequiredClasses)
	assert.Equal(t, 2, meta.SafeSkips)
	assert.Zero(t, meta.ConsecutiveAbsences)
}

func TestComputeSubjectRiskNoInstances(t *testing.T) {
	meta := ComputeSubjectRisk(at(2024, 1, 1, 9, 0), 75, nil)
	assert.Equal(t, 100, meta.AttendancePercentage)
	assert.Zero(t, meta.RequiredClasses)
	assert.Zero(t, meta.SafeSkips)
	assert.True(t, meta.IsCritical)
}

func TestComputeSubjectRiskIsDeterministic(t *testing.T) {
	instances := dailySeries("math", at(2024, 1, 1, 9, 0), 12, P, A, E, A)
	now := at(2024, 1, 6, 8, 0)
	assert.Equal(t, ComputeSubjectRisk(now, 75, instances), ComputeSubjectRisk(now, 75, instances))
}

func TestClassStartingAtNowCountsAsHeld(t *testing.T) {
	instances := dailySeries("math", at(2024, 1, 1, 9, 0), 2, A)
	meta := ComputeSubjectRisk(at(2024, 1, 1, 9, 0), 50, instances)
	assert.Equal(t, 0, meta.AttendancePercentage)
	assert.Equal(t, 1, meta.ConsecutiveAbsences)
}

func TestRequiredClasses(t *testing.T) {
	cases := []struct {
		total int
		min   float64
		want  int
	}{
		{total: 20, min: 75, want: 15},
		{total: 10, min: 75, want: 8},
		{total: 3, min: 75, want: 3},
		{total: 10, min: 70, want: 7},
		{total: 10, min: 100, want: 10},
		{total: 10, min: 150, want: 10},
		{total: 0, min: 75, want: 0},
		{total: 10, min: 0, want: 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RequiredClasses(tc.total, tc.min), "total=%d min=%v", tc.total, tc.min)
	}
}

func TestAttendancePercentageRounding(t *testing.T) {
	assert.Equal(t, 67, AttendancePercentage(2, 3))
	assert.Equal(t, 33, AttendancePercentage(1, 3))
	assert.Equal(t, 13, AttendancePercentage(1, 8))
	assert.Equal(t, 100, AttendancePercentage(0, 0))
	assert.Equal(t, 100, AttendancePercentage(5, 5))
	assert.Equal(t, 100, AttendancePercentage(7, 5))
}

func TestConsecutiveAbsences(t *testing.T) {
	now := at(2024, 2, 1, 0, 0)
	first := at(2024, 1, 1, 9, 0)

	cases := []struct {
		name     string
		statuses []models.AttendanceStatus
		want     int
	}{
		{name: "trailing absences", statuses: []models.AttendanceStatus{P, P, A, A, A}, want: 3},
		{name: "excused breaks the run", statuses: []models.AttendanceStatus{P, A, E, A, A}, want: 2},
		{name: "present most recently", statuses: []models.AttendanceStatus{A, A, A, P}, want: 0},
		{name: "all absent", statuses: []models.AttendanceStatus{A, A}, want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			instances := dailySeries("math", first, len(tc.statuses), tc.statuses...)
			assert.Equal(t, tc.want, ConsecutiveAbsences(now, instances))
		})
	}
}

func TestConsecutiveAbsencesIgnoresUnheldAndOrder(t *testing.T) {
	instances := dailySeries("math", at(2024, 1, 1, 9, 0), 6, P, A, A, A, A, A)
	// shuffle
	instances[0], instances[4] = instances[4], instances[0]
	instances[1], instances[3] = instances[3], instances[1]

	// Only days 1..3 are held.
	assert.Equal(t, 2, ConsecutiveAbsences(at(2024, 1, 3, 10, 0), instances))
}

func subjectRisk(id string, safe int, critical bool) SubjectRisk {
	return SubjectRisk{SubjectID: id, SubjectName: id, Meta: models.SubjectRiskMeta{SafeSkips: safe, IsCritical: critical}}
}

func TestAggregateRisk(t *testing.T) {
	policy := DefaultRiskPolicy()

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, AggregateRisk(nil, policy))
	})

	t.Run("critical counts every critical subject", func(t *testing.T) {
		summary := AggregateRisk([]SubjectRisk{
			subjectRisk("math", 0, true),
			subjectRisk("physics", 1, false),
			subjectRisk("chem", 0, true),
		}, policy)
		require.NotNil(t, summary)
		assert.Equal(t, models.RiskLevelCritical, summary.Level)
		assert.Equal(t, 2, summary.Count)
		assert.Equal(t, "You have no room for error in 2 subjects.", summary.Message())
	})

	t.Run("warning names the tightest subject", func(t *testing.T) {
		summary := AggregateRisk([]SubjectRisk{
			subjectRisk("math", 5, false),
			subjectRisk("physics", 2, false),
		}, policy)
		require.NotNil(t, summary)
		assert.Equal(t, models.RiskLevelWarning, summary.Level)
		assert.Equal(t, "physics", summary.SubjectID)
		assert.Equal(t, 2, summary.Count)
		assert.Equal(t, "Maximum safe absences remaining: 2 (in physics).", summary.Message())
	})

	t.Run("good reports the minimum", func(t *testing.T) {
		summary := AggregateRisk([]SubjectRisk{
			subjectRisk("math", 5, false),
			subjectRisk("physics", 3, false),
		}, policy)
		require.NotNil(t, summary)
		assert.Equal(t, models.RiskLevelGood, summary.Level)
		assert.Equal(t, 3, summary.Count)
		assert.Equal(t, "Maximum safe absences remaining: 3 (in your tightest subject).", summary.Message())
	})

	t.Run("ties go to the first subject", func(t *testing.T) {
		summary := AggregateRisk([]SubjectRisk{
			subjectRisk("math", 1, false),
			subjectRisk("physics", 1, false),
		}, policy)
		require.NotNil(t, summary)
		assert.Equal(t, "math", summary.SubjectID)
	})

	t.Run("custom warning threshold", func(t *testing.T) {
		summary := AggregateRisk([]SubjectRisk{subjectRisk("math", 4, false)}, RiskPolicy{WarningSafeSkips: 4})
		require.NotNil(t, summary)
		assert.Equal(t, models.RiskLevelWarning, summary.Level)
	})
}

func TestCriticalMessageSingular(t *testing.T) {
	summary := &models.RiskSummary{Level: models.RiskLevelCritical, Count: 1}
	assert.Equal(t, "You have no room for error in 1 subject.", summary.Message())
	var none *models.RiskSummary
	assert.Empty(t, none.Message())
}

func TestComputeDayRisk(t *testing.T) {
	now := at(2024, 1, 5, 12, 0)
	math := dailySeries("math", at(2024, 1, 1, 9, 0), 20, P, P, P, A, A)
	physics := dailySeries("physics", at(2024, 1, 1, 14, 0), 10, A, A, P, P, P)
	history := dailySeries("history", at(2024, 1, 1, 16, 0), 10)

	semester := append(append(append([]models.ClassInstance{}, math...), physics...), history...)
	today := []models.ClassInstance{math[4], physics[4], math[4]}
	today[1].SubjectName = ""

	meta, summary := ComputeDayRisk(now, 75, today, semester, DefaultRiskPolicy())

	require.Len(t, meta, 2)
	assert.Equal(t, 3, meta["math"].SafeSkips)
	assert.True(t, meta["physics"].IsCritical)
	assert.NotContains(t, meta, "history")
	require.NotNil(t, summary)
	assert.Equal(t, models.RiskLevelCritical, summary.Level)
	assert.Equal(t, 1, summary.Count)
}

func TestComputeDayRiskDefaultsSubjectName(t *testing.T) {
	now := at(2024, 1, 5, 12, 0)
	series := dailySeries("s1", at(2024, 1, 1, 9, 0), 20, P, P, P, A, A)
	today := []models.ClassInstance{series[4]}
	today[0].SubjectName = ""

	_, summary := ComputeDayRisk(now, 80, today, series, DefaultRiskPolicy())
	require.NotNil(t, summary)
	assert.Equal(t, "Subject", summary.SubjectName)
}

func TestComputeDayRiskEmptyDay(t *testing.T) {
	meta, summary := ComputeDayRisk(at(2024, 1, 5, 12, 0), 75, nil, nil, DefaultRiskPolicy())
	assert.Empty(t, meta)
	assert.Nil(t, summary)
}
