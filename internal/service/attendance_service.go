package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
)

type instanceStore interface {
	FindByID(ctx context.Context, id string) (*models.ClassInstance, error)
	UpdateStatus(ctx context.Context, instance *models.ClassInstance) error
	ListBySemester(ctx context.Context, semesterID string) ([]models.ClassInstance, error)
}

// AttendanceService records attendance on class instances and tallies it.
type AttendanceService struct {
	instances instanceStore
	semesters currentSemesterReader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(instances instanceStore, semesters currentSemesterReader, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerPlannerValidations(validate)
	return &AttendanceService{
		instances: instances,
		semesters: semesters,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Mark sets the status of a class instance owned by the actor. Classes that have not
// started yet are rejected; otherwise any status may replace any other.
func (s *AttendanceService) Mark(ctx context.Context, actorID, instanceID string, req dto.MarkAttendanceRequest) (*models.ClassInstance, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordRejectedMark("invalid_status")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	instance, err := s.instances.FindByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class instance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class instance")
	}
	if instance.UserID != actorID {
		s.metrics.RecordRejectedMark("forbidden")
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class instance belongs to another user")
	}

	status := models.AttendanceStatus(strings.ToUpper(req.Status))
	marked, err := engine.Mark(*instance, status, actorID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrFutureClass):
			s.metrics.RecordRejectedMark("future_class")
			return nil, appErrors.Clone(appErrors.ErrFutureClass, "")
		case errors.Is(err, engine.ErrInvalidStatus):
			s.metrics.RecordRejectedMark("invalid_status")
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
		}
	}

	if err := s.instances.UpdateStatus(ctx, &marked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class instance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	s.metrics.RecordAttendanceMark(marked.Status)
	s.logger.Debug("attendance marked",
		zap.String("instance_id", marked.ID),
		zap.String("status", string(marked.Status)),
		zap.String("actor_id", actorID),
	)
	return &marked, nil
}

// Stats tallies the classes of the current semester held so far, overall and per subject.
func (s *AttendanceService) Stats(ctx context.Context, userID string) (*dto.AttendanceStatsResponse, error) {
	resp := &dto.AttendanceStatsResponse{Subjects: []dto.SubjectAttendanceStats{}}
	semester, err := s.semesters.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return resp, nil
	}

	instances, err := s.instances.ListBySemester(ctx, semester.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class instances")
	}
	held := engine.HeldAt(s.now(), instances)
	resp.Overall = engine.CumulativeStats(held)

	names := make(map[string]string)
	for _, instance := range held {
		if _, ok := names[instance.SubjectID]; !ok {
			names[instance.SubjectID] = instance.SubjectName
		}
	}
	for _, subjectID := range engine.SubjectOrder(held) {
		resp.Subjects = append(resp.Subjects, dto.SubjectAttendanceStats{
			SubjectID:       subjectID,
			SubjectName:     names[subjectID],
			AttendanceStats: engine.SubjectStats(held, subjectID),
		})
	}
	return resp, nil
}
