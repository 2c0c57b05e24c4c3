package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

const classInstanceSelect = `SELECT ci.id, ci.user_id, ci.semester_id, ci.subject_id, COALESCE(s.name, '') AS subject_name,
ci.date, ci.start_time, ci.end_time, ci.status, ci.status_updated_at, ci.status_updated_by, ci.created_at
FROM class_instances ci
LEFT JOIN subjects s ON s.id = ci.subject_id`

// ClassInstanceRepository persists generated class instances and their attendance.
type ClassInstanceRepository struct {
	db *sqlx.DB
}

// NewClassInstanceRepository constructs the repository.
func NewClassInstanceRepository(db *sqlx.DB) *ClassInstanceRepository {
	return &ClassInstanceRepository{db: db}
}

func (r *ClassInstanceRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// BulkInsert stores a generated batch. Callers pass a transaction so the batch lands whole.
func (r *ClassInstanceRepository) BulkInsert(ctx context.Context, exec sqlx.ExtContext, instances []models.ClassInstance) error {
	if len(instances) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO class_instances (id, user_id, semester_id, subject_id, date, start_time, end_time, status, status_updated_at, status_updated_by, created_at)
VALUES (:id, :user_id, :semester_id, :subject_id, :date, :start_time, :end_time, :status, :status_updated_at, :status_updated_by, :created_at)`

	for i := range instances {
		instance := &instances[i]
		if instance.ID == "" {
			instance.ID = uuid.NewString()
		}
		if instance.Status == "" {
			instance.Status = models.AttendanceStatusPresent
		}
		if instance.CreatedAt.IsZero() {
			instance.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, instance); err != nil {
			return fmt.Errorf("insert class instance: %w", err)
		}
	}
	return nil
}

// ListForDay returns a user's instances on the calendar day, ordered by start.
func (r *ClassInstanceRepository) ListForDay(ctx context.Context, userID string, day time.Time) ([]models.ClassInstance, error) {
	query := classInstanceSelect + `
WHERE ci.user_id = $1 AND ci.date = $2
ORDER BY ci.start_time ASC`
	var instances []models.ClassInstance
	if err := r.db.SelectContext(ctx, &instances, query, userID, day.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list class instances for day: %w", err)
	}
	return instances, nil
}

// ListBySemesterSubjects returns every instance of the given subjects in a semester.
func (r *ClassInstanceRepository) ListBySemesterSubjects(ctx context.Context, semesterID string, subjectIDs []string) ([]models.ClassInstance, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	query := classInstanceSelect + `
WHERE ci.semester_id = $1 AND ci.subject_id = ANY($2)
ORDER BY ci.start_time ASC`
	var instances []models.ClassInstance
	if err := r.db.SelectContext(ctx, &instances, query, semesterID, pq.Array(subjectIDs)); err != nil {
		return nil, fmt.Errorf("list class instances by subjects: %w", err)
	}
	return instances, nil
}

// ListBySemester returns every instance of a semester.
func (r *ClassInstanceRepository) ListBySemester(ctx context.Context, semesterID string) ([]models.ClassInstance, error) {
	query := classInstanceSelect + `
WHERE ci.semester_id = $1
ORDER BY ci.start_time ASC`
	var instances []models.ClassInstance
	if err := r.db.SelectContext(ctx, &instances, query, semesterID); err != nil {
		return nil, fmt.Errorf("list class instances by semester: %w", err)
	}
	return instances, nil
}

// FindByID loads an instance by id.
func (r *ClassInstanceRepository) FindByID(ctx context.Context, id string) (*models.ClassInstance, error) {
	query := classInstanceSelect + `
WHERE ci.id = $1`
	var instance models.ClassInstance
	if err := r.db.GetContext(ctx, &instance, query, id); err != nil {
		return nil, err
	}
	return &instance, nil
}

// UpdateStatus writes the status together with its audit fields.
func (r *ClassInstanceRepository) UpdateStatus(ctx context.Context, instance *models.ClassInstance) error {
	if instance == nil {
		return fmt.Errorf("class instance payload is nil")
	}
	const query = `UPDATE class_instances SET status = $1, status_updated_at = $2, status_updated_by = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, instance.Status, instance.StatusUpdatedAt, instance.StatusUpdatedBy, instance.ID)
	if err != nil {
		return fmt.Errorf("update class instance status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("class instance status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
