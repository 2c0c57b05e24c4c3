package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
)

type currentSemesterStub struct {
	semester *models.Semester
	err      error
}

func (s currentSemesterStub) Current(ctx context.Context, userID string) (*models.Semester, error) {
	return s.semester, s.err
}

type instanceReaderStub struct {
	today      []models.ClassInstance
	todayErr   error
	history    []models.ClassInstance
	historyErr error
	askedFor   []string
}

func (s *instanceReaderStub) ListForDay(ctx context.Context, userID string, day time.Time) ([]models.ClassInstance, error) {
	return s.today, s.todayErr
}

func (s *instanceReaderStub) ListBySemesterSubjects(ctx context.Context, semesterID string, subjectIDs []string) ([]models.ClassInstance, error) {
	s.askedFor = subjectIDs
	return s.history, s.historyErr
}

func classAt(subjectID, name string, start time.Time, status models.AttendanceStatus) models.ClassInstance {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return models.ClassInstance{
		ID:          subjectID + "-" + start.Format("0102T1504"),
		SubjectID:   subjectID,
		SubjectName: name,
		Date:        day,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Status:      status,
	}
}

// weekly returns count Monday instances starting at first, marking the held ones with statuses in order.
func weekly(subjectID, name string, first time.Time, count int, statuses ...models.AttendanceStatus) []models.ClassInstance {
	out := make([]models.ClassInstance, 0, count)
	for i := 0; i < count; i++ {
		status := models.AttendanceStatusPresent
		if i < len(statuses) {
			status = statuses[i]
		}
		out = append(out, classAt(subjectID, name, first.AddDate(0, 0, 7*i), status))
	}
	return out
}

var (
	todayNow        = time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)
	plannerSemester = &models.Semester{
		ID:               "sem-1",
		StartDate:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		MinAttendancePct: 75,
	}
)

func newTodayServiceForTest(semesters currentSemesterReader, instances instanceReader, metrics *MetricsService) *TodayService {
	svc := NewTodayService(TodayServiceParams{
		Semesters: semesters,
		Instances: instances,
		Metrics:   metrics,
		Config:    TodayServiceConfig{Location: time.UTC},
	})
	svc.now = fixedClock(todayNow)
	return svc
}

func TestTodayServiceCriticalDay(t *testing.T) {
	A, P := models.AttendanceStatusAbsent, models.AttendanceStatusPresent
	math := weekly("math", "Mathematics", time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC), 10, P, A, A, P, P)
	physics := weekly("physics", "Physics", time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC), 10)
	instances := &instanceReaderStub{
		today:   []models.ClassInstance{math[4], physics[4]},
		history: append(append([]models.ClassInstance{}, math...), physics...),
	}
	metrics := NewMetricsService()
	svc := newTodayServiceForTest(currentSemesterStub{semester: plannerSemester}, instances, metrics)

	resp, err := svc.Today(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", resp.Date)
	assert.Equal(t, []string{"math", "physics"}, instances.askedFor)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Completed)
	assert.Equal(t, 1, resp.Summary.Remaining)
	assert.Equal(t, 2, resp.Summary.Attended)
	assert.Equal(t, models.EmptyReasonNone, resp.EmptyReason)

	mathMeta := resp.Meta["math"]
	assert.Equal(t, 0, mathMeta.SafeSkips)
	assert.True(t, mathMeta.IsCritical)
	assert.Equal(t, 8, mathMeta.RequiredClasses)
	assert.Equal(t, 60, mathMeta.AttendancePercentage)
	assert.Equal(t, 2, resp.Meta["physics"].SafeSkips)

	assert.Equal(t, models.RiskLevelCritical, resp.Summary.RiskLevel)
	assert.Equal(t, "You have no room for error in 1 subject.", resp.Summary.RiskMessage)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.dayRiskLevels.WithLabelValues("CRITICAL")))
}

func TestTodayServiceWarningDay(t *testing.T) {
	physics := weekly("physics", "Physics", time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC), 10)
	instances := &instanceReaderStub{today: []models.ClassInstance{physics[4]}, history: physics}
	svc := newTodayServiceForTest(currentSemesterStub{semester: plannerSemester}, instances, nil)

	resp, err := svc.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RiskLevelWarning, resp.Summary.RiskLevel)
	assert.Equal(t, "Maximum safe absences remaining: 2 (in Physics).", resp.Summary.RiskMessage)
	require.NotNil(t, resp.Summary.Risk)
	assert.Equal(t, "physics", resp.Summary.Risk.SubjectID)
}

func TestTodayServiceCustomPolicy(t *testing.T) {
	physics := weekly("physics", "Physics", time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC), 10)
	instances := &instanceReaderStub{today: []models.ClassInstance{physics[4]}, history: physics}
	svc := NewTodayService(TodayServiceParams{
		Semesters: currentSemesterStub{semester: plannerSemester},
		Instances: instances,
		Config:    TodayServiceConfig{Location: time.UTC, Policy: engine.RiskPolicy{WarningSafeSkips: 1}},
	})
	svc.now = fixedClock(todayNow)

	resp, err := svc.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RiskLevelGood, resp.Summary.RiskLevel)
}

func TestTodayServiceEmptyDays(t *testing.T) {
	holidayName := "Spring Break"
	withHoliday := *plannerSemester
	withHoliday.Holidays = []models.BlackoutBlock{{
		Kind:      models.BlackoutKindHoliday,
		StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		Name:      &holidayName,
	}}

	cases := []struct {
		name     string
		semester *models.Semester
		reason   models.EmptyReason
		label    string
	}{
		{name: "no semester", semester: nil, reason: models.EmptyReasonNoClasses},
		{name: "holiday", semester: &withHoliday, reason: models.EmptyReasonHoliday, label: "Spring Break"},
		{name: "plain weekday", semester: plannerSemester, reason: models.EmptyReasonNoClasses},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			instances := &instanceReaderStub{}
			metrics := NewMetricsService()
			svc := newTodayServiceForTest(currentSemesterStub{semester: tc.semester}, instances, metrics)

			resp, err := svc.Today(context.Background(), "user-1")
			require.NoError(t, err)
			assert.NotNil(t, resp.Instances)
			assert.Empty(t, resp.Meta)
			assert.Zero(t, resp.Summary.Total)
			assert.Equal(t, tc.reason, resp.EmptyReason)
			assert.Equal(t, tc.label, resp.EmptyReasonName)
			assert.Empty(t, resp.Summary.RiskLevel)
			assert.Nil(t, instances.askedFor)
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.dayRiskLevels.WithLabelValues("NONE")))
		})
	}
}

func TestTodayServiceWeekend(t *testing.T) {
	svc := newTodayServiceForTest(currentSemesterStub{semester: plannerSemester}, &instanceReaderStub{}, nil)
	svc.now = fixedClock(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))

	resp, err := svc.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.EmptyReasonWeekend, resp.EmptyReason)
}

func TestTodayServiceDegradesWithoutRiskData(t *testing.T) {
	physics := weekly("physics", "Physics", time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC), 10)
	instances := &instanceReaderStub{today: []models.ClassInstance{physics[4]}, historyErr: errors.New("timeout")}
	svc := newTodayServiceForTest(currentSemesterStub{semester: plannerSemester}, instances, nil)

	resp, err := svc.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Total)
	assert.Empty(t, resp.Meta)
	assert.Nil(t, resp.Summary.Risk)
}

func TestTodayServiceDegradesWithoutSemester(t *testing.T) {
	physics := weekly("physics", "Physics", time.Date(2024, 2, 5, 11, 0, 0, 0, time.UTC), 10)
	instances := &instanceReaderStub{today: []models.ClassInstance{physics[4]}, history: physics}
	svc := newTodayServiceForTest(currentSemesterStub{err: errors.New("redis down")}, instances, nil)

	resp, err := svc.Today(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Remaining)
	assert.Nil(t, instances.askedFor)
	assert.Empty(t, resp.Summary.RiskLevel)
}

func TestTodayServiceFailsWhenDayCannotLoad(t *testing.T) {
	instances := &instanceReaderStub{todayErr: errors.New("connection refused")}
	svc := newTodayServiceForTest(currentSemesterStub{semester: plannerSemester}, instances, nil)

	_, err := svc.Today(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, errorCode(err))
}
