package clips

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_ReturnsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+clips\s*\(created_at,\s*url,\s*title,\s*channel,\s*creator_name\)`

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs(date, "https://clips.twitch.tv/AbcDef", "Nice play", "op47", "viewer1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	clip := &models.Clip{
		CreatedAt:   date,
		URL:         "https://clips.twitch.tv/AbcDef",
		Title:       "Nice play",
		Channel:     "op47",
		CreatorName: "viewer1",
	}
	got, err := repo.Create(context.Background(), clip)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("unexpected clip: %+v", got)
	}
}

func TestCreateAggregate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+clips_aggregate\s*\(id,\s*views,\s*author\)`

	mock.ExpectExec(q).
		WithArgs(int64(9), int64(0), "viewer1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateAggregate(context.Background(), &models.ClipAggregate{ID: 9, Author: "viewer1"})
	if err != nil {
		t.Fatalf("CreateAggregate error: %v", err)
	}
}

func TestDeleteByURL_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+clips\s+WHERE\s+url\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("https://clips.twitch.tv/Unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByURL(context.Background(), "https://clips.twitch.tv/Unknown")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestListByDate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*created_at,\s*url,\s*title,\s*channel,\s*creator_name,\s*COALESCE\(storage_key,\s*''\)\s+FROM\s+clips\s+WHERE\s+created_at\s*=\s*\$1`

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at", "url", "title", "channel", "creator_name", "storage_key"}).
		AddRow(int64(1), date, "https://clips.twitch.tv/A", "t1", "op47", "c1", "").
		AddRow(int64(2), date, "https://clips.twitch.tv/B", "t2", "op47", "c2", "clips/2026/a")
	mock.ExpectQuery(q).WithArgs(date).WillReturnRows(rows)

	got, err := repo.ListByDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ListByDate error: %v", err)
	}
	if len(got) != 2 || got[1].StorageKey != "clips/2026/a" {
		t.Fatalf("unexpected clips: %+v", got)
	}
}

func TestSetStorageKey_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+clips\s+SET\s+storage_key\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(77), "clips/2026/b").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStorageKey(context.Background(), 77, "clips/2026/b")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
