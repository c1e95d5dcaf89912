package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartnotes-backend/internal/users"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrRecipientNotFound = errors.New("recipient user not found")
)

// Directory resolves share recipients by email.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
}

// Service enforces the note access policy: only the owner mutates or shares,
// and owners and recipients can read.
type Service struct {
	Repo  Repo
	Users Directory
	now   func() time.Time
}

func NewService(repo Repo, directory Directory) *Service {
	return &Service{
		Repo:  repo,
		Users: directory,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, ownerID, title, content string) (Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Note{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	now := s.now()
	note := Note{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Title:      title,
		Content:    content,
		SharedWith: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Note, error) {
	return s.Repo.ListVisible(ctx, userID)
}

func (s *Service) Get(ctx context.Context, noteID, userID string) (Note, error) {
	if strings.TrimSpace(noteID) == "" {
		return Note{}, ErrNotFound
	}
	return s.Repo.GetVisible(ctx, noteID, userID)
}

// Update applies title/content changes. Non-owners get ErrNotFound.
func (s *Service) Update(ctx context.Context, noteID, userID string, changes Changes) (Note, error) {
	if changes.Title != nil {
		trimmed := strings.TrimSpace(*changes.Title)
		if trimmed == "" {
			return Note{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		changes.Title = &trimmed
	}
	if changes.empty() {
		note, err := s.Repo.GetVisible(ctx, noteID, userID)
		if err != nil {
			return Note{}, err
		}
		if note.OwnerID != userID {
			return Note{}, ErrNotFound
		}
		return note, nil
	}
	return s.Repo.UpdateOwned(ctx, noteID, userID, changes, s.now())
}

func (s *Service) Delete(ctx context.Context, noteID, userID string) error {
	return s.Repo.DeleteOwned(ctx, noteID, userID)
}

// Share grants recipientEmail read access. Repeat shares and shares with
// the owner succeed without changing the list.
func (s *Service) Share(ctx context.Context, noteID, ownerID, recipientEmail string) error {
	recipientEmail = strings.TrimSpace(recipientEmail)
	if recipientEmail == "" {
		return fmt.Errorf("%w: recipient email is required", ErrInvalidInput)
	}

	note, err := s.Repo.GetVisible(ctx, noteID, ownerID)
	if err != nil {
		return err
	}
	if note.OwnerID != ownerID {
		return ErrNotFound
	}

	recipient, err := s.Users.FindByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrRecipientNotFound
		}
		return err
	}
	if recipient.ID == ownerID {
		return nil
	}
	return s.Repo.AddShare(ctx, noteID, ownerID, recipient.ID)
}
