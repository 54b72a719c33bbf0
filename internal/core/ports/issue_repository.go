package ports

import (
	"context"
	"math"

	"github.com/jiralite/tracker/internal/core/domain"
)

// PageRequest selects one page of an ordered result set.
type PageRequest struct {
	Page  int // 1-based
	Limit int // rows per page, already capped by the service
}

// Offset returns the number of rows to skip. It saturates instead of
// overflowing.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// IssueRepository defines persistence operations for issues.
type IssueRepository interface {
	// Create assigns the issue an id and stores it.
	Create(ctx context.Context, issue *domain.Issue) error
	FindByID(ctx context.Context, id int64) (*domain.Issue, error)
	// Update overwrites the mutable fields of an existing issue.
	Update(ctx context.Context, issue *domain.Issue) error
	// Delete removes the issue together with its comments.
	Delete(ctx context.Context, id int64) error
	// Search returns a page of issues matching criteria, newest first, and the total count.
	Search(ctx context.Context, criteria domain.IssueCriteria, page PageRequest) ([]*domain.Issue, int64, error)
}
