package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cols    = `id,\s*title,\s*description,\s*status,\s*user_id,\s*created_at,\s*updated_at`
	listQ   = `(?s)^SELECT\s+` + cols + `\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC$`
	getQ    = `(?s)^SELECT\s+` + cols + `\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	insertQ = `(?s)^INSERT\s+INTO\s+tasks\s*\(title,\s*description,\s*status,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+` + cols + `$`
	updateQ = `(?s)^UPDATE\s+tasks\s+SET.*COALESCE\(\$3,\s*title\).*CASE\s+WHEN\s+\$4\s+THEN\s+\$5\s+ELSE\s+description\s+END.*COALESCE\(\$6,\s*status\).*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+` + cols + `$`
	deleteQ = `^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
)

var columns = []string{"id", "title", "description", "status", "user_id", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func ptr[T any](v T) *T { return &v }

func TestListByOwner_OrderAndNullDescription(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)
	rows := sqlmock.NewRows(columns).
		AddRow("t-2", "Newer", "details", "DONE", "u-1", t1, t1).
		AddRow("t-1", "Older", nil, "TODO", "u-1", t0, t0)
	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "t-2", got[0].ID)
	require.NotNil(t, got[0].Description)
	assert.Equal(t, "details", *got[0].Description)
	assert.Equal(t, models.StatusDone, got[0].Status)
	assert.Nil(t, got[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByOwner_Errors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnError(errors.New("db down"))
	_, err := repo.ListByOwner(context.Background(), "u-1")
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())

	rows := sqlmock.NewRows(columns).
		AddRow("t-1", "A", nil, "TODO", "u-1", time.Now(), time.Now()).
		RowError(0, errors.New("row boom"))
	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnRows(rows)
	_, err = repo.ListByOwner(context.Background(), "u-1")
	require.Error(t, err)
}

func TestGetByIDAndOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectQuery(getQ).WithArgs("t-1", "u-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("t-1", "A", nil, "IN_PROGRESS", "u-1", ts, ts))
	mock.ExpectQuery(getQ).WithArgs("t-1", "u-2").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(getQ).WithArgs("t-1", "u-3").WillReturnError(errors.New("db err"))

	got, err := repo.GetByIDAndOwner(context.Background(), "t-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	_, err = repo.GetByIDAndOwner(context.Background(), "t-1", "u-2")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByIDAndOwner(context.Background(), "t-1", "u-3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectQuery(insertQ).WithArgs("Fix bug", nil, "TODO", "u-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("t-1", "Fix bug", nil, "TODO", "u-1", ts, ts))
	mock.ExpectQuery(insertQ).WithArgs("Write docs", "for api", "DONE", "u-1").
		WillReturnError(errors.New("db down"))

	got, err := repo.Create(context.Background(), &models.Task{Title: "Fix bug", Status: models.StatusTodo, UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
	assert.Nil(t, got.Description)

	_, err = repo.Create(context.Background(), &models.Task{
		Title: "Write docs", Description: ptr("for api"), Status: models.StatusDone, UserID: "u-1",
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectQuery(updateQ).
		WithArgs("t-1", "u-1", nil, false, nil, "DONE").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("t-1", "Fix bug", nil, "DONE", "u-1", ts, ts))

	got, err := repo.Update(context.Background(), "t-1", "u-1", models.TaskPatch{Status: ptr(models.StatusDone)})
	require.NoError(t, err)
	assert.Equal(t, "Fix bug", got.Title)
	assert.Equal(t, models.StatusDone, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ClearDescriptionAndRetitle(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now().UTC()
	mock.ExpectQuery(updateQ).
		WithArgs("t-1", "u-1", "New", true, nil, nil).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("t-1", "New", nil, "TODO", "u-1", ts, ts))

	got, err := repo.Update(context.Background(), "t-1", "u-1", models.TaskPatch{Title: ptr("New"), DescriptionSet: true})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Nil(t, got.Description)
}

func TestUpdate_NotOwnedAndDBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQ).WithArgs("t-1", "u-2", nil, false, nil, "DONE").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(updateQ).WithArgs("t-1", "u-1", nil, false, nil, "DONE").WillReturnError(errors.New("db err"))

	_, err := repo.Update(context.Background(), "t-1", "u-2", models.TaskPatch{Status: ptr(models.StatusDone)})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Update(context.Background(), "t-1", "u-1", models.TaskPatch{Status: ptr(models.StatusDone)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestDeleteByIDAndOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQ).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(deleteQ).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))
	mock.ExpectExec(deleteQ).WithArgs("t-1", "u-1").WillReturnError(errors.New("db down"))

	ctx := context.Background()
	require.NoError(t, repo.DeleteByIDAndOwner(ctx, "t-1", "u-1"))
	require.ErrorIs(t, repo.DeleteByIDAndOwner(ctx, "t-1", "u-1"), common.ErrorNotFound)
	require.ErrorContains(t, repo.DeleteByIDAndOwner(ctx, "t-1", "u-1"), "unexpected rows affected")
	require.ErrorContains(t, repo.DeleteByIDAndOwner(ctx, "t-1", "u-1"), "rows affected error")
	require.ErrorContains(t, repo.DeleteByIDAndOwner(ctx, "t-1", "u-1"), "db error")
	assert.NoError(t, mock.ExpectationsWereMet())
}
