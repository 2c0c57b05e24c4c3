package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

// SubjectRepository manages a user's subject vocabulary.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// FindByName loads a user's subject by display name.
func (r *SubjectRepository) FindByName(ctx context.Context, exec sqlx.ExtContext, userID, name string) (*models.Subject, error) {
	const query = `SELECT id, user_id, name, raw_aliases, created_at, updated_at FROM subjects WHERE user_id = $1 AND name = $2`
	var subject models.Subject
	if err := sqlx.GetContext(ctx, r.exec(exec), &subject, query, userID, name); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("subject payload is nil")
	}
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	if len(subject.RawAliases) == 0 {
		subject.RawAliases = types.JSONText(`[]`)
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now

	const query = `
INSERT INTO subjects (id, user_id, name, raw_aliases, created_at, updated_at)
VALUES (:id, :user_id, :name, :raw_aliases, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, subject); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// UpdateAliases replaces the stored alias list.
func (r *SubjectRepository) UpdateAliases(ctx context.Context, exec sqlx.ExtContext, id string, aliases types.JSONText) error {
	const query = `UPDATE subjects SET raw_aliases = $1, updated_at = $2 WHERE id = $3`
	result, err := r.exec(exec).ExecContext(ctx, query, aliases, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update subject aliases: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("subject aliases rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns the user's subjects by name.
func (r *SubjectRepository) ListByUser(ctx context.Context, userID string) ([]models.Subject, error) {
	const query = `SELECT id, user_id, name, raw_aliases, created_at, updated_at FROM subjects WHERE user_id = $1 ORDER BY name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, userID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
