package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// TimetableRepository manages a user's weekly template entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByUser returns the user's template with subject names.
func (r *TimetableRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userID string) ([]models.WeeklyTemplateEntry, error) {
	const query = `SELECT wt.id, wt.user_id, wt.day_of_week, wt.start_time, wt.end_time, wt.subject_id,
COALESCE(s.name, '') AS subject_name, wt.block_type, wt.created_at
FROM weekly_template_entries wt
LEFT JOIN subjects s ON s.id = wt.subject_id
WHERE wt.user_id = $1
ORDER BY wt.day_of_week ASC, wt.start_time ASC`
	var entries []models.WeeklyTemplateEntry
	if err := sqlx.SelectContext(ctx, r.exec(exec), &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list weekly template: %w", err)
	}
	return entries, nil
}

// Upsert inserts an entry or moves an existing slot to a new subject.
func (r *TimetableRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, entry *models.WeeklyTemplateEntry) error {
	if entry == nil {
		return fmt.Errorf("template entry payload is nil")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO weekly_template_entries (id, user_id, day_of_week, start_time, end_time, subject_id, block_type, created_at)
VALUES (:id, :user_id, :day_of_week, :start_time, :end_time, :subject_id, :block_type, :created_at)
ON CONFLICT (user_id, day_of_week, start_time, end_time) DO UPDATE
SET subject_id = EXCLUDED.subject_id,
    block_type = EXCLUDED.block_type`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, entry); err != nil {
		return fmt.Errorf("upsert weekly template entry: %w", err)
	}
	return nil
}

// DeleteByUser clears the user's template.
func (r *TimetableRepository) DeleteByUser(ctx context.Context, exec sqlx.ExtContext, userID string) error {
	const query = `DELETE FROM weekly_template_entries WHERE user_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete weekly template: %w", err)
	}
	return nil
}

// ExistsForUser reports whether the user has stored any template entry.
func (r *TimetableRepository) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM weekly_template_entries WHERE user_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		return false, fmt.Errorf("check weekly template exists: %w", err)
	}
	return exists, nil
}
