package notes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	notes map[string]*Note
	order []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{notes: make(map[string]*Note)}
}

func (r *MemoryRepo) Create(ctx context.Context, note Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := clone(note)
	r.notes[note.ID] = &stored
	r.order = append(r.order, note.ID)
	return nil
}

// ListVisible returns owned and shared notes, newest first.
func (r *MemoryRepo) ListVisible(ctx context.Context, userID string) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Note, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		n, ok := r.notes[r.order[i]]
		if !ok || !n.VisibleTo(userID) {
			continue
		}
		out = append(out, clone(*n))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetVisible(ctx context.Context, noteID, userID string) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[noteID]
	if !ok || !n.VisibleTo(userID) {
		return Note{}, ErrNotFound
	}
	return clone(*n), nil
}

func (r *MemoryRepo) UpdateOwned(ctx context.Context, noteID, ownerID string, changes Changes, at time.Time) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return Note{}, ErrNotFound
	}
	if changes.Title != nil {
		n.Title = *changes.Title
	}
	if changes.Content != nil {
		n.Content = *changes.Content
	}
	n.UpdatedAt = at
	return clone(*n), nil
}

func (r *MemoryRepo) DeleteOwned(ctx context.Context, noteID, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.notes, noteID)
	for i, id := range r.order {
		if id == noteID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepo) AddShare(ctx context.Context, noteID, ownerID, recipientID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[noteID]
	if !ok || n.OwnerID != ownerID {
		return ErrNotFound
	}
	for _, id := range n.SharedWith {
		if id == recipientID {
			return nil
		}
	}
	n.SharedWith = append(n.SharedWith, recipientID)
	return nil
}

func clone(n Note) Note {
	n.SharedWith = append([]string(nil), n.SharedWith...)
	return n
}
