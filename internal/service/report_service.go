package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
	"github.com/noah-isme/attendance-planner-api/pkg/export"
)

type semesterInstanceLister interface {
	ListBySemester(ctx context.Context, semesterID string) ([]models.ClassInstance, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, subtitle ...string) ([]byte, error)
}

var riskReportHeaders = []string{"Subject", "Attendance %", "Held", "Scheduled", "Required", "Safe Skips", "Absence Streak", "Status"}

// ReportServiceConfig governs report availability.
type ReportServiceConfig struct {
	Enabled  bool
	Location *time.Location
	Policy   engine.RiskPolicy
}

// ReportFile is a rendered report ready for download.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService renders the per-subject risk report.
type ReportService struct {
	semesters currentSemesterReader
	instances semesterInstanceLister
	renderer  pdfRenderer
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(semesters currentSemesterReader, instances semesterInstanceLister, renderer pdfRenderer, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Policy.WarningSafeSkips <= 0 {
		cfg.Policy = engine.DefaultRiskPolicy()
	}
	return &ReportService{
		semesters: semesters,
		instances: instances,
		renderer:  renderer,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// RiskReport renders every subject of the current semester with its risk standing at now.
func (s *ReportService) RiskReport(ctx context.Context, userID string) (*ReportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrDisabled, "reports are disabled")
	}
	semester, err := s.semesters.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
	}

	instances, err := s.instances.ListBySemester(ctx, semester.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class instances")
	}

	now := s.now().In(s.cfg.Location)
	minPercent := semester.MinPercent()
	groups := engine.GroupBySubject(instances)
	subjects := make([]engine.SubjectRisk, 0, len(groups))
	data := export.Dataset{Headers: riskReportHeaders}
	for _, subjectID := range engine.SubjectOrder(instances) {
		group := groups[subjectID]
		meta := engine.ComputeSubjectRisk(now, minPercent, group)
		name := group[0].SubjectName
		if name == "" {
			name = subjectID
		}
		subjects = append(subjects, engine.SubjectRisk{SubjectID: subjectID, SubjectName: name, Meta: meta})
		data.Rows = append(data.Rows, riskRow(name, meta, len(engine.HeldAt(now, group))))
	}

	subtitle := []string{
		fmt.Sprintf("Semester %s to %s, minimum attendance %s%%",
			semester.StartDate.Format("2006-01-02"),
			semester.EndDate.Format("2006-01-02"),
			strconv.FormatFloat(minPercent, 'f', -1, 64)),
		"Generated " + now.Format("2006-01-02 15:04"),
	}
	if summary := engine.AggregateRisk(subjects, s.cfg.Policy); summary != nil {
		subtitle = append(subtitle, summary.Message())
	}

	content, err := s.renderer.Render(data, "Attendance Risk Report", subtitle...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Info("risk report rendered", zap.String("user_id", userID), zap.Int("subjects", len(subjects)))
	return &ReportFile{
		Filename:    fmt.Sprintf("attendance-risk-%s.pdf", now.Format("2006-01-02")),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func riskRow(name string, meta models.SubjectRiskMeta, held int) map[string]string {
	status := "OK"
	if meta.IsCritical {
		status = "CRITICAL"
	}
	return map[string]string{
		"Subject":        name,
		"Attendance %":   strconv.Itoa(meta.AttendancePercentage),
		"Held":           strconv.Itoa(held),
		"Scheduled":      strconv.Itoa(meta.TotalScheduled),
		"Required":       strconv.Itoa(meta.RequiredClasses),
		"Safe Skips":     strconv.Itoa(meta.SafeSkips),
		"Absence Streak": strconv.Itoa(meta.ConsecutiveAbsences),
		"Status":         status,
	}
}
