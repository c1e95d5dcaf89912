package notes

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const sharedWithColumn = `COALESCE((
    SELECT string_agg(s.user_id, ',' ORDER BY s.created_at, s.user_id)
    FROM note_shares s
    WHERE s.note_id = n.id
), '')`

func (r *PGRepo) Create(ctx context.Context, note Note) error {
	const query = `
INSERT INTO notes (id, owner_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		note.ID,
		note.OwnerID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	return err
}

func (r *PGRepo) ListVisible(ctx context.Context, userID string) ([]Note, error) {
	query := `
SELECT n.id, n.owner_id, n.title, n.content, n.created_at, n.updated_at, ` + sharedWithColumn + `
FROM notes n
WHERE n.owner_id = $1
   OR EXISTS (SELECT 1 FROM note_shares v WHERE v.note_id = n.id AND v.user_id = $1)
ORDER BY n.created_at DESC, n.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) GetVisible(ctx context.Context, noteID, userID string) (Note, error) {
	query := `
SELECT n.id, n.owner_id, n.title, n.content, n.created_at, n.updated_at, ` + sharedWithColumn + `
FROM notes n
WHERE n.id = $1
  AND (n.owner_id = $2
       OR EXISTS (SELECT 1 FROM note_shares v WHERE v.note_id = n.id AND v.user_id = $2))
LIMIT 1`

	n, err := scanNote(r.DB.QueryRowContext(ctx, query, noteID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return n, nil
}

func (r *PGRepo) UpdateOwned(ctx context.Context, noteID, ownerID string, changes Changes, at time.Time) (Note, error) {
	query := `
UPDATE notes n
SET title = COALESCE($3, n.title),
    content = COALESCE($4, n.content),
    updated_at = $5
WHERE n.id = $1 AND n.owner_id = $2
RETURNING n.id, n.owner_id, n.title, n.content, n.created_at, n.updated_at, ` + sharedWithColumn

	n, err := scanNote(r.DB.QueryRowContext(ctx, query,
		noteID,
		ownerID,
		nullableText(changes.Title),
		nullableText(changes.Content),
		at,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return n, nil
}

// DeleteOwned removes the note; share rows cascade.
func (r *PGRepo) DeleteOwned(ctx context.Context, noteID, ownerID string) error {
	const query = `DELETE FROM notes WHERE id = $1 AND owner_id = $2`
	res, err := r.DB.ExecContext(ctx, query, noteID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddShare checks ownership and inserts the share row in one statement.
func (r *PGRepo) AddShare(ctx context.Context, noteID, ownerID, recipientID string) error {
	const query = `
WITH owned AS (
    SELECT id FROM notes WHERE id = $1 AND owner_id = $2
), ins AS (
    INSERT INTO note_shares (note_id, user_id, created_at)
    SELECT id, $3, now() FROM owned
    ON CONFLICT (note_id, user_id) DO NOTHING
    RETURNING note_id
)
SELECT EXISTS (SELECT 1 FROM owned)`

	var owned bool
	if err := r.DB.QueryRowContext(ctx, query, noteID, ownerID, recipientID).Scan(&owned); err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var n Note
	var shared string
	if err := row.Scan(
		&n.ID,
		&n.OwnerID,
		&n.Title,
		&n.Content,
		&n.CreatedAt,
		&n.UpdatedAt,
		&shared,
	); err != nil {
		return Note{}, err
	}
	n.SharedWith = splitIDs(shared)
	return n, nil
}

func splitIDs(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func nullableText(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
