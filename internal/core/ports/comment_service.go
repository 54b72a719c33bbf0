package ports

import (
	"context"
	"time"
)

type AddCommentInput struct {
	ActorID int64
	IssueID int64
	Text    string
}

type UpdateCommentInput struct {
	ActorID   int64
	CommentID int64
	Text      string
}

// CommentDetail is the public view of a comment.
type CommentDetail struct {
	ID        int64
	IssueID   int64
	Author    UserSummary
	Text      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type ListCommentsResult struct {
	Items      []CommentDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CommentService defines use-case operations for issue comments.
type CommentService interface {
	Add(ctx context.Context, input AddCommentInput) (*CommentDetail, error)
	Update(ctx context.Context, input UpdateCommentInput) (*CommentDetail, error)
	Delete(ctx context.Context, actorID, commentID int64) error
	List(ctx context.Context, issueID int64, page, limit int) (*ListCommentsResult, error)
}
