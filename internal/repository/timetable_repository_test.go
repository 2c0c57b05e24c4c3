package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-planner-api/internal/models"
)

func TestTimetableRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "day_of_week", "start_time", "end_time", "subject_id", "subject_name", "block_type", "created_at"}).
		AddRow("wt-1", "user-1", "MON", "08:00:00", "08:50:00", "sub-1", "Mathematics", "THEORY", time.Now()).
		AddRow("wt-2", "user-1", "MON", []byte("08:50:00"), []byte("09:40:00"), "sub-1", "Mathematics", "LAB", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_template_entries wt")).
		WithArgs("user-1").
		WillReturnRows(rows)

	entries, err := repo.ListByUser(context.Background(), nil, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MustTimeOfDay("08:50"), entries[0].EndTime)
	assert.Equal(t, models.MustTimeOfDay("08:50"), entries[1].StartTime)
	assert.Equal(t, models.BlockTypeLab, entries[1].BlockType)
	assert.Equal(t, models.WeekdayMonday, entries[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, day_of_week, start_time, end_time) DO UPDATE")).
		WithArgs(sqlmock.AnyArg(), "user-1", "TUE", "10:00", "11:00", "sub-2", "THEORY", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.WeeklyTemplateEntry{
		UserID:    "user-1",
		DayOfWeek: models.WeekdayTuesday,
		StartTime: models.MustTimeOfDay("10:00"),
		EndTime:   models.MustTimeOfDay("11:00"),
		SubjectID: "sub-2",
		BlockType: models.BlockTypeTheory,
	}
	require.NoError(t, repo.Upsert(context.Background(), nil, entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_template_entries WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 6))

	require.NoError(t, repo.DeleteByUser(context.Background(), nil, "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryCreateAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects")).
		WithArgs(sqlmock.AnyArg(), "user-1", "Mathematics", types.JSONText(`[]`), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "raw_aliases", "created_at", "updated_at"}).
		AddRow("sub-1", "user-1", "Mathematics", []byte(`["MATHS-101"]`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE user_id = $1 AND name = $2")).
		WithArgs("user-1", "Mathematics").
		WillReturnRows(rows)

	subject := &models.Subject{UserID: "user-1", Name: "Mathematics"}
	require.NoError(t, repo.Create(context.Background(), nil, subject))
	assert.NotEmpty(t, subject.ID)

	found, err := repo.FindByName(context.Background(), nil, "user-1", "Mathematics")
	require.NoError(t, err)
	assert.Equal(t, []string{"MATHS-101"}, found.Aliases())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryUpdateAliases(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	aliases := types.JSONText(`["MATHS-101","Maths"]`)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subjects SET raw_aliases = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(aliases, sqlmock.AnyArg(), "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateAliases(context.Background(), nil, "sub-1", aliases))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryExistsForUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM weekly_template_entries WHERE user_id = $1)")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "raw_aliases", "created_at", "updated_at"}).
		AddRow("sub-1", "user-1", "Mathematics", []byte(`["MA101"]`), time.Now(), time.Now()).
		AddRow("sub-2", "user-1", "Physics", []byte(`[]`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE user_id = $1 ORDER BY name ASC")).
		WithArgs("user-1").
		WillReturnRows(rows)

	subjects, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, []string{"MA101"}, subjects[0].Aliases())
	assert.NoError(t, mock.ExpectationsWereMet())
}
