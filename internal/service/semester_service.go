package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	"github.com/noah-isme/attendance-planner-api/pkg/cache"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
)

type semesterRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, semester *models.Semester) error
	FindLatestByUser(ctx context.Context, userID string) (*models.Semester, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}

type blackoutRepository interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.BlackoutBlock) error
	ListBySemester(ctx context.Context, semesterID string) ([]models.BlackoutBlock, error)
	Delete(ctx context.Context, semesterID, id string) error
}

type templateSnapshotReader interface {
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.WeeklyTemplateEntry, error)
}

type instanceBatchWriter interface {
	BulkInsert(ctx context.Context, exec sqlx.ExtContext, instances []models.ClassInstance) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// SemesterServiceConfig tunes semester defaults.
type SemesterServiceConfig struct {
	Location          *time.Location
	DefaultMinPercent float64
	CacheTTL          time.Duration
}

// SemesterServiceParams groups constructor dependencies.
type SemesterServiceParams struct {
	Semesters semesterRepository
	Blackouts blackoutRepository
	Templates templateSnapshotReader
	Instances instanceBatchWriter
	Tx        txProvider
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    SemesterServiceConfig
}

// SemesterService sets up semesters and maintains their holiday and exam blocks.
type SemesterService struct {
	semesters semesterRepository
	blackouts blackoutRepository
	templates templateSnapshotReader
	instances instanceBatchWriter
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SemesterServiceConfig
}

// NewSemesterService constructs the service.
func NewSemesterService(params SemesterServiceParams) *SemesterService {
	cfg := params.Config
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.DefaultMinPercent <= 0 || cfg.DefaultMinPercent > 100 {
		cfg.DefaultMinPercent = models.DefaultMinAttendancePct
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registerPlannerValidations(validate)
	return &SemesterService{
		semesters: params.Semesters,
		blackouts: params.Blackouts,
		templates: params.Templates,
		instances: params.Instances,
		tx:        params.Tx,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Create stores the semester with its blocks and materialises the user's weekly
// template into class instances, all in one transaction.
func (s *SemesterService) Create(ctx context.Context, userID string, req dto.CreateSemesterRequest) (*dto.CreateSemesterResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	start, err := parseDate(req.StartDate, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate, s.cfg.Location)
	if err != nil {
		return nil, err
	}

	semester := &models.Semester{
		UserID:           userID,
		StartDate:        start,
		EndDate:          end,
		MinAttendancePct: s.cfg.DefaultMinPercent,
	}
	if req.MinAttendancePct != nil {
		semester.MinAttendancePct = *req.MinAttendancePct
	}
	if err := engine.ValidateSemester(*semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start date must be before end date")
	}

	blocks := make([]models.BlackoutBlock, 0, len(req.Holidays)+len(req.Exams))
	for _, input := range req.Holidays {
		block, err := s.buildBlock(models.BlackoutKindHoliday, input)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	for _, input := range req.Exams {
		block, err := s.buildBlock(models.BlackoutKindExam, input)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	started := time.Now()
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.semesters.Create(ctx, tx, semester); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
		return nil, err
	}
	for i := range blocks {
		blocks[i].SemesterID = semester.ID
	}
	if err = s.blackouts.CreateBatch(ctx, tx, blocks); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store semester blocks")
		return nil, err
	}
	semester.AttachBlackouts(blocks)

	template, err := s.templates.ListByUser(ctx, tx, userID)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly timetable")
		return nil, err
	}
	instances, err := engine.Generate(*semester, engine.TeachingBlocks(template))
	if err != nil {
		if errors.Is(err, engine.ErrInvalidTimeSlot) || errors.Is(err, engine.ErrInvalidWeekday) {
			err = appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "weekly timetable is invalid")
			return nil, err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate class instances")
		return nil, err
	}
	for i := range instances {
		instances[i].UserID = userID
		instances[i].SemesterID = semester.ID
	}
	if err = s.instances.BulkInsert(ctx, tx, instances); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store class instances")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit semester")
		return nil, err
	}

	s.metrics.ObserveDBQuery("create_semester", time.Since(started))
	s.metrics.RecordSemesterCreated(len(instances))
	_ = s.cache.Invalidate(ctx, cache.SemesterKey(userID))
	s.logger.Info("semester created",
		zap.String("semester_id", semester.ID),
		zap.String("user_id", userID),
		zap.Int("template_entries", len(template)),
		zap.Int("instances", len(instances)),
	)
	return &dto.CreateSemesterResponse{Semester: semester, InstancesGenerated: len(instances)}, nil
}

// HasSemester reports whether the user has set up any semester.
func (s *SemesterService) HasSemester(ctx context.Context, userID string) (bool, error) {
	exists, err := s.semesters.ExistsForUser(ctx, userID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check semester")
	}
	return exists, nil
}

// Current returns the user's latest semester with its blocks, or nil when none exists.
func (s *SemesterService) Current(ctx context.Context, userID string) (*models.Semester, error) {
	key := cache.SemesterKey(userID)
	var cached models.Semester
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	semester, err := s.semesters.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	blocks, err := s.blackouts.ListBySemester(ctx, semester.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester blocks")
	}
	semester.AttachBlackouts(blocks)

	_ = s.cache.Set(ctx, key, semester, s.cfg.CacheTTL)
	return semester, nil
}

// Get returns the user's semester or a not found error.
func (s *SemesterService) Get(ctx context.Context, userID string) (*models.Semester, error) {
	semester, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if semester == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
	}
	return semester, nil
}

// Schedule lists the semester's holidays and exam blocks by start date.
func (s *SemesterService) Schedule(ctx context.Context, userID string) (*dto.SemesterScheduleResponse, error) {
	semester, err := s.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.SemesterScheduleResponse{
		Holidays:   []models.BlackoutBlock{},
		ExamBlocks: []models.BlackoutBlock{},
	}
	if semester == nil {
		return resp, nil
	}
	resp.Holidays = append(resp.Holidays, semester.Holidays...)
	resp.ExamBlocks = append(resp.ExamBlocks, semester.ExamBlocks...)
	sortBlocks(resp.Holidays)
	sortBlocks(resp.ExamBlocks)
	return resp, nil
}

// AddBlackout adds a holiday or exam block. Instances already generated are kept.
func (s *SemesterService) AddBlackout(ctx context.Context, userID string, req dto.AddBlackoutRequest) (*models.BlackoutBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	semester, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	block, err := s.buildBlock(models.BlackoutKind(strings.ToUpper(req.Kind)), req.BlackoutInput)
	if err != nil {
		return nil, err
	}
	block.SemesterID = semester.ID

	blocks := []models.BlackoutBlock{block}
	if err := s.blackouts.CreateBatch(ctx, nil, blocks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add block")
	}
	_ = s.cache.Invalidate(ctx, cache.SemesterKey(userID))
	s.logger.Info("semester block added",
		zap.String("semester_id", semester.ID),
		zap.String("block_id", blocks[0].ID),
		zap.String("kind", string(blocks[0].Kind)),
	)
	return &blocks[0], nil
}

// DeleteBlackout removes a block of the user's semester.
func (s *SemesterService) DeleteBlackout(ctx context.Context, userID, blockID string) error {
	semester, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.blackouts.Delete(ctx, semester.ID, blockID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "block not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete block")
	}
	_ = s.cache.Invalidate(ctx, cache.SemesterKey(userID))
	return nil
}

func (s *SemesterService) buildBlock(kind models.BlackoutKind, input dto.BlackoutInput) (models.BlackoutBlock, error) {
	start, err := parseDate(input.Start, s.cfg.Location)
	if err != nil {
		return models.BlackoutBlock{}, err
	}
	end, err := parseDate(input.End, s.cfg.Location)
	if err != nil {
		return models.BlackoutBlock{}, err
	}
	if end.Before(start) {
		return models.BlackoutBlock{}, appErrors.Clone(appErrors.ErrValidation, "block end date must not be before its start date")
	}
	block := models.BlackoutBlock{Kind: kind, StartDate: start, EndDate: end}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			block.Name = &name
		}
	}
	return block, nil
}

func sortBlocks(blocks []models.BlackoutBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartDate.Before(blocks[j].StartDate)
	})
}
