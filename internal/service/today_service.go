package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
)

type currentSemesterReader interface {
	Current(ctx context.Context, userID string) (*models.Semester, error)
}

type instanceReader interface {
	ListForDay(ctx context.Context, userID string, day time.Time) ([]models.ClassInstance, error)
	ListBySemesterSubjects(ctx context.Context, semesterID string, subjectIDs []string) ([]models.ClassInstance, error)
}

// TodayServiceConfig tunes the day view.
type TodayServiceConfig struct {
	Location *time.Location
	Policy   engine.RiskPolicy
}

// TodayServiceParams groups constructor dependencies.
type TodayServiceParams struct {
	Semesters currentSemesterReader
	Instances instanceReader
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    TodayServiceConfig
}

// TodayService assembles the current day's classes, counters and risk digest.
type TodayService struct {
	semesters currentSemesterReader
	instances instanceReader
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       TodayServiceConfig
	now       func() time.Time
}

// NewTodayService constructs the service.
func NewTodayService(params TodayServiceParams) *TodayService {
	cfg := params.Config
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Policy.WarningSafeSkips <= 0 {
		cfg.Policy = engine.DefaultRiskPolicy()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodayService{
		semesters: params.Semesters,
		instances: params.Instances,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Today returns the user's view of the current day.
func (s *TodayService) Today(ctx context.Context, userID string) (*dto.TodayResponse, error) {
	now := s.now().In(s.cfg.Location)

	instances, err := s.instances.ListForDay(ctx, userID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's classes")
	}
	if instances == nil {
		instances = []models.ClassInstance{}
	}

	semester, err := s.semesters.Current(ctx, userID)
	if err != nil {
		s.logger.Warn("today view without semester", zap.String("user_id", userID), zap.Error(err))
		semester = nil
	}

	summary := engine.BuildToday(now, instances, semester)
	resp := &dto.TodayResponse{
		Date:      now.Format(dto.DateLayout),
		Instances: instances,
		Summary: dto.TodaySummary{
			Total:     summary.Total,
			Completed: summary.Completed,
			Remaining: summary.Remaining,
			Attended:  summary.Attended,
		},
		Meta:            map[string]models.SubjectRiskMeta{},
		EmptyReason:     summary.EmptyReason,
		EmptyReasonName: summary.EmptyReasonName,
	}

	if semester != nil && len(instances) > 0 {
		s.attachRisk(ctx, userID, now, semester, resp)
	}
	s.metrics.RecordDayRisk(resp.Summary.Risk)
	return resp, nil
}

// attachRisk fills the per-subject meta and the day's risk digest. Load failures are
// logged and leave the view without risk.
func (s *TodayService) attachRisk(ctx context.Context, userID string, now time.Time, semester *models.Semester, resp *dto.TodayResponse) {
	history, err := s.instances.ListBySemesterSubjects(ctx, semester.ID, engine.SubjectOrder(resp.Instances))
	if err != nil {
		s.logger.Warn("today view without risk", zap.String("user_id", userID), zap.Error(err))
		return
	}
	meta, risk := engine.ComputeDayRisk(now, semester.MinPercent(), resp.Instances, history, s.cfg.Policy)
	resp.Meta = meta
	if risk == nil {
		return
	}
	resp.Summary.Risk = risk
	resp.Summary.RiskLevel = risk.Level
	resp.Summary.RiskMessage = risk.Message()
}
