package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-planner-api/internal/dto"
	"github.com/noah-isme/attendance-planner-api/internal/engine"
	"github.com/noah-isme/attendance-planner-api/internal/models"
	appErrors "github.com/noah-isme/attendance-planner-api/pkg/errors"
)

type subjectRepository interface {
	FindByName(ctx context.Context, exec sqlx.ExtContext, userID, name string) (*models.Subject, error)
	Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
	UpdateAliases(ctx context.Context, exec sqlx.ExtContext, id string, aliases types.JSONText) error
	ListByUser(ctx context.Context, userID string) ([]models.Subject, error)
}

type timetableRepository interface {
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.WeeklyTemplateEntry, error)
	Upsert(ctx context.Context, exec sqlx.ExtContext, entry *models.WeeklyTemplateEntry) error
	DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) error
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}

// TimetableService imports and lists a user's weekly timetable.
type TimetableService struct {
	subjects  subjectRepository
	entries   timetableRepository
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs the service.
func NewTimetableService(subjects subjectRepository, entries timetableRepository, tx txProvider, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerPlannerValidations(validate)
	return &TimetableService{subjects: subjects, entries: entries, tx: tx, validator: validate, logger: logger}
}

type parsedRow struct {
	day       models.Weekday
	blockType models.BlockType
	start     models.TimeOfDay
	end       models.TimeOfDay
	raw       string
	name      string
	line      int
}

// Save stores timetable rows. FREE rows are skipped. Each raw subject label is
// resolved through SubjectMapping (falling back to the label itself) to a subject
// that is found or created by name, and the label is recorded as an alias.
func (s *TimetableService) Save(ctx context.Context, userID string, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	resp := &dto.SaveTimetableResponse{}
	rows := make([]parsedRow, 0, len(req.Rows))
	for i, row := range req.Rows {
		blockType := models.BlockType(strings.ToUpper(row.Type))
		if blockType == models.BlockTypeFree {
			resp.Skipped++
			continue
		}
		parsed, err := parseRow(row, blockType, req.SubjectMapping)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("row %d: %v", i+1, err))
		}
		parsed.line = i + 1
		rows = append(rows, parsed)
	}
	if err := checkRowOverlaps(rows); err != nil {
		return nil, err
	}

	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if req.Replace {
		if err = s.entries.DeleteByUser(ctx, tx, userID); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear timetable")
			return nil, err
		}
	}

	subjects := make(map[string]*models.Subject)
	for _, row := range rows {
		subject, created, resolveErr := s.resolveSubject(ctx, tx, userID, row, subjects)
		if resolveErr != nil {
			err = appErrors.Wrap(resolveErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject")
			return nil, err
		}
		if created {
			resp.SubjectsCreated++
		}

		entry := &models.WeeklyTemplateEntry{
			UserID:    userID,
			DayOfWeek: row.day,
			StartTime: row.start,
			EndTime:   row.end,
			SubjectID: subject.ID,
			BlockType: row.blockType,
		}
		if err = s.entries.Upsert(ctx, tx, entry); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable entry")
			return nil, err
		}
		resp.Saved++
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
		return nil, err
	}
	s.logger.Info("timetable saved",
		zap.String("user_id", userID),
		zap.Int("saved", resp.Saved),
		zap.Int("skipped", resp.Skipped),
		zap.Int("subjects_created", resp.SubjectsCreated),
		zap.Bool("replace", req.Replace),
	)
	return resp, nil
}

// checkRowOverlaps rejects rows of the same subject whose slots overlap on one day.
func checkRowOverlaps(rows []parsedRow) error {
	template := make([]models.WeeklyTemplateEntry, len(rows))
	for i, row := range rows {
		template[i] = models.WeeklyTemplateEntry{
			DayOfWeek: row.day,
			StartTime: row.start,
			EndTime:   row.end,
			SubjectID: row.name,
			BlockType: row.blockType,
		}
	}
	i, j, ok := engine.FindOverlap(template)
	if !ok {
		return nil
	}
	return appErrors.Wrap(engine.ErrInvalidTimeSlot, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
		fmt.Sprintf("rows %d and %d: %s overlaps on %s", rows[i].line, rows[j].line, rows[i].name, rows[i].day))
}

func parseRow(row dto.TimetableRow, blockType models.BlockType, mapping map[string]string) (parsedRow, error) {
	day := models.Weekday(strings.ToUpper(row.Day))
	if !day.Valid() {
		return parsedRow{}, engine.ErrInvalidWeekday
	}
	start, err := models.ParseTimeOfDay(row.StartTime)
	if err != nil {
		return parsedRow{}, err
	}
	end, err := models.ParseTimeOfDay(row.EndTime)
	if err != nil {
		return parsedRow{}, err
	}
	if end <= start {
		return parsedRow{}, engine.ErrInvalidTimeSlot
	}
	raw := strings.TrimSpace(row.Subject)
	if raw == "" {
		return parsedRow{}, errors.New("subject is required")
	}
	name := strings.TrimSpace(mapping[raw])
	if name == "" {
		name = raw
	}
	return parsedRow{day: day, blockType: blockType, start: start, end: end, raw: raw, name: name}, nil
}

// resolveSubject finds or creates the subject named by the row, appending the raw
// label to its aliases. Subjects seen earlier in the same save are reused.
func (s *TimetableService) resolveSubject(ctx context.Context, exec sqlx.ExtContext, userID string, row parsedRow, seen map[string]*models.Subject) (*models.Subject, bool, error) {
	if subject, ok := seen[row.name]; ok {
		return subject, false, s.recordAlias(ctx, exec, subject, row.raw)
	}

	subject, err := s.subjects.FindByName(ctx, exec, userID, row.name)
	switch {
	case err == nil:
		seen[row.name] = subject
		return subject, false, s.recordAlias(ctx, exec, subject, row.raw)
	case errors.Is(err, sql.ErrNoRows):
		subject = &models.Subject{UserID: userID, Name: row.name}
		if _, err := subject.AddAlias(row.raw); err != nil {
			return nil, false, err
		}
		if err := s.subjects.Create(ctx, exec, subject); err != nil {
			return nil, false, err
		}
		seen[row.name] = subject
		return subject, true, nil
	default:
		return nil, false, err
	}
}

func (s *TimetableService) recordAlias(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject, raw string) error {
	changed, err := subject.AddAlias(raw)
	if err != nil || !changed {
		return err
	}
	return s.subjects.UpdateAliases(ctx, exec, subject.ID, subject.RawAliases)
}

// List returns the user's timetable, Monday first.
func (s *TimetableService) List(ctx context.Context, userID string) ([]dto.TimetableEntryResponse, error) {
	entries, err := s.entries.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	engine.SortTemplate(entries)
	resp := make([]dto.TimetableEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TimetableEntryResponse{
			ID:        entry.ID,
			Day:       entry.DayOfWeek,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			SubjectID: entry.SubjectID,
			Subject:   entry.SubjectName,
			Type:      entry.BlockType,
		})
	}
	return resp, nil
}

// HasTimetable reports whether the user has imported a timetable.
func (s *TimetableService) HasTimetable(ctx context.Context, userID string) (bool, error) {
	exists, err := s.entries.ExistsForUser(ctx, userID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check timetable")
	}
	return exists, nil
}

// KnownSubjects lists every subject name and alias the user has imported, without duplicates.
func (s *TimetableService) KnownSubjects(ctx context.Context, userID string) (*dto.KnownSubjectsResponse, error) {
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	seen := make(map[string]struct{})
	names := make([]string, 0, len(subjects))
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for i := range subjects {
		add(subjects[i].Name)
		for _, alias := range subjects[i].Aliases() {
			add(alias)
		}
	}
	return &dto.KnownSubjectsResponse{Names: names}, nil
}
