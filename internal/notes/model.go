package notes

import "time"

type Note struct {
	ID         string
	OwnerID    string
	Title      string
	Content    string
	SharedWith []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VisibleTo reports whether userID owns the note or is a share recipient.
func (n Note) VisibleTo(userID string) bool {
	if n.OwnerID == userID {
		return true
	}
	for _, id := range n.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// Changes carries a partial update. Nil fields are left untouched.
type Changes struct {
	Title   *string
	Content *string
}

func (c Changes) empty() bool {
	return c.Title == nil && c.Content == nil
}
