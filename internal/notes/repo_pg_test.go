package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var noteColumns = []string{"id", "owner_id", "title", "content", "created_at", "updated_at", "shared_with"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	note := Note{ID: "note-1", OwnerID: "alice", Title: "t", Content: "c", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO notes").
		WithArgs(note.ID, note.OwnerID, note.Title, note.Content, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), note); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListVisibleSplitsShares(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(noteColumns).
		AddRow("note-2", "bob", "shared", "x", now, now, "alice,carol").
		AddRow("note-1", "alice", "mine", "y", now.Add(-time.Hour), now, "")
	mock.ExpectQuery("FROM notes n").
		WithArgs("alice").
		WillReturnRows(rows)

	list, err := repo.ListVisible(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(list))
	}
	if got := list[0].SharedWith; len(got) != 2 || got[0] != "alice" || got[1] != "carol" {
		t.Fatalf("unexpected shares: %v", got)
	}
	if list[1].SharedWith == nil || len(list[1].SharedWith) != 0 {
		t.Fatalf("expected empty share list, got %v", list[1].SharedWith)
	}
}

func TestPGRepoGetVisibleNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM notes n").
		WithArgs("note-1", "mallory").
		WillReturnRows(sqlmock.NewRows(noteColumns))

	if _, err := repo.GetVisible(context.Background(), "note-1", "mallory"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateOwnedPassesNilForUntouchedFields(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	content := "new"

	mock.ExpectQuery("UPDATE notes n").
		WithArgs("note-1", "alice", nil, content, now).
		WillReturnRows(sqlmock.NewRows(noteColumns).AddRow("note-1", "alice", "t", content, now, now, ""))

	note, err := repo.UpdateOwned(context.Background(), "note-1", "alice", Changes{Content: &content}, now)
	if err != nil {
		t.Fatalf("UpdateOwned: %v", err)
	}
	if note.Content != content {
		t.Fatalf("unexpected content: %q", note.Content)
	}
}

func TestPGRepoDeleteOwnedNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM notes").
		WithArgs("note-1", "bob").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteOwned(context.Background(), "note-1", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoAddShare(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ON CONFLICT \\(note_id, user_id\\) DO NOTHING").
		WithArgs("note-1", "alice", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("ON CONFLICT \\(note_id, user_id\\) DO NOTHING").
		WithArgs("note-1", "mallory", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	if err := repo.AddShare(context.Background(), "note-1", "alice", "bob"); err != nil {
		t.Fatalf("AddShare: %v", err)
	}
	if err := repo.AddShare(context.Background(), "note-1", "mallory", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
