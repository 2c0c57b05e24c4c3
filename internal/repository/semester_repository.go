package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

const semesterColumns = `id, user_id, start_date, end_date, min_attendance_pct, created_at, updated_at`

// SemesterRepository persists semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

func (r *SemesterRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a semester row. Blackout blocks are stored separately.
func (r *SemesterRepository) Create(ctx context.Context, exec sqlx.ExtContext, semester *models.Semester) error {
	if semester == nil {
		return fmt.Errorf("semester payload is nil")
	}
	if semester.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if semester.CreatedAt.IsZero() {
		semester.CreatedAt = now
	}
	semester.UpdatedAt = now

	const query = `
INSERT INTO semesters (id, user_id, start_date, end_date, min_attendance_pct, created_at, updated_at)
VALUES (:id, :user_id, :start_date, :end_date, :min_attendance_pct, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, semester); err != nil {
		return fmt.Errorf("insert semester: %w", err)
	}
	return nil
}

// FindLatestByUser returns the most recently created semester of a user.
func (r *SemesterRepository) FindLatestByUser(ctx context.Context, userID string) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, userID); err != nil {
		return nil, err
	}
	return &semester, nil
}

// FindByID loads a semester by id.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// ExistsForUser reports whether the user has any semester.
func (r *SemesterRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM semesters WHERE user_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check semester exists: %w", err)
	}
	return exists, nil
}
