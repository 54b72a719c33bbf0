package domain

import (
	"strings"
	"time"
)

// Comment is a note on an issue. It is owned by the issue and removed with it.
type Comment struct {
	ID        int64
	IssueID   int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ValidateCommentText rejects blank comment bodies.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Message: "must not be blank"}
	}
	return nil
}

// CanEditOrDeleteComment reports whether actor may update or delete c:
// the author always may, and so may any admin.
func CanEditOrDeleteComment(c *Comment, actor Actor) bool {
	return c.AuthorID == actor.ID || actor.IsAdmin()
}
