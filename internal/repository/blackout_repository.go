package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// BlackoutRepository stores holiday and exam blocks of a semester.
type BlackoutRepository struct {
	db *sqlx.DB
}

// NewBlackoutRepository constructs the repository.
func NewBlackoutRepository(db *sqlx.DB) *BlackoutRepository {
	return &BlackoutRepository{db: db}
}

func (r *BlackoutRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch inserts blocks for a semester.
func (r *BlackoutRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, blocks []models.BlackoutBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO blackout_blocks (id, semester_id, kind, start_date, end_date, name, created_at)
VALUES (:id, :semester_id, :kind, :start_date, :end_date, :name, :created_at)`

	for i := range blocks {
		block := &blocks[i]
		if block.SemesterID == "" {
			return fmt.Errorf("semester_id is required")
		}
		if block.ID == "" {
			block.ID = uuid.NewString()
		}
		if block.CreatedAt.IsZero() {
			block.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, block); err != nil {
			return fmt.Errorf("insert blackout block: %w", err)
		}
	}
	return nil
}

// ListBySemester returns blocks ordered by start date.
func (r *BlackoutRepository) ListBySemester(ctx context.Context, semesterID string) ([]models.BlackoutBlock, error) {
	const query = `SELECT id, semester_id, kind, start_date, end_date, name, created_at
FROM blackout_blocks WHERE semester_id = $1 ORDER BY start_date ASC, created_at ASC`
	var blocks []models.BlackoutBlock
	if err := r.db.SelectContext(ctx, &blocks, query, semesterID); err != nil {
		return nil, fmt.Errorf("list blackout blocks: %w", err)
	}
	return blocks, nil
}

// Delete removes a block belonging to the semester.
func (r *BlackoutRepository) Delete(ctx context.Context, semesterID, id string) error {
	const query = `DELETE FROM blackout_blocks WHERE id = $1 AND semester_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, semesterID)
	if err != nil {
		return fmt.Errorf("delete blackout block: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("blackout block rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
