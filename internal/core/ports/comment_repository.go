package ports

import (
	"context"

	"github.com/jiralite/tracker/internal/core/domain"
)

// CommentRepository defines persistence operations for issue comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id int64) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id int64) error
	// ListByIssue returns a page of comments oldest first and the total count.
	ListByIssue(ctx context.Context, issueID int64, page PageRequest) ([]*domain.Comment, int64, error)
	CountByIssue(ctx context.Context, issueID int64) (int64, error)
}
