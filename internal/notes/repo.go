package notes

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("note not found")

// Repo persists notes and their share lists. Methods scoped to an owner
// return ErrNotFound when the note is missing or owned by someone else.
type Repo interface {
	Create(ctx context.Context, note Note) error
	ListVisible(ctx context.Context, userID string) ([]Note, error)
	GetVisible(ctx context.Context, noteID, userID string) (Note, error)
	UpdateOwned(ctx context.Context, noteID, ownerID string, changes Changes, at time.Time) (Note, error)
	DeleteOwned(ctx context.Context, noteID, ownerID string) error
	// AddShare is a no-op when the recipient is already on the list.
	AddShare(ctx context.Context, noteID, ownerID, recipientID string) error
}
