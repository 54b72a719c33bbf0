package ports

import (
	"context"
	"time"

	"github.com/jiralite/tracker/internal/core/domain"
)

// CreateIssueInput carries all data needed to open a new issue.
type CreateIssueInput struct {
	ActorID     int64
	Title       string
	Description string
	Priority    domain.Priority
	Severity    domain.Severity  // optional, defaults to S4
	Type        domain.IssueType // optional, defaults to TASK
	AssigneeID  *int64           // optional, may not be the reporter
	// IdempotencyKey makes repeated submissions return the first result.
	IdempotencyKey string
}

// UpdateIssueInput is a sparse patch. Nil fields are left untouched.
type UpdateIssueInput struct {
	ActorID     int64
	IssueID     int64
	Title       *string
	Description *string
	Priority    *domain.Priority
	Severity    *domain.Severity
	Type        *domain.IssueType
}

// ChangeStatusInput moves an issue through its lifecycle.
type ChangeStatusInput struct {
	ActorID int64
	IssueID int64
	Target  domain.IssueStatus
	// Comment is added by the actor after the transition when non-blank.
	Comment string
}

// AssignInput assigns an issue. A nil AssigneeID claims the issue for the actor.
type AssignInput struct {
	ActorID    int64
	IssueID    int64
	AssigneeID *int64
}

// SearchIssuesInput carries criteria plus pagination.
type SearchIssuesInput struct {
	Criteria domain.IssueCriteria
	Page     int
	Limit    int
}

// UserSummary is the public view of a user embedded in other read models.
type UserSummary struct {
	ID       int64
	Username string
	Email    string
}

// IssueDetail is the full issue view.
type IssueDetail struct {
	ID           int64
	Title        string
	Description  string
	Status       domain.IssueStatus
	Priority     domain.Priority
	Severity     domain.Severity
	Type         domain.IssueType
	Reporter     UserSummary
	Assignee     *UserSummary
	CommentCount int64
	WatcherCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// IssueSummary is the lightweight view used in list responses.
type IssueSummary struct {
	ID         int64
	Title      string
	Status     domain.IssueStatus
	Priority   domain.Priority
	Severity   domain.Severity
	Type       domain.IssueType
	ReporterID int64
	AssigneeID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListIssuesResult is returned by Search.
type ListIssuesResult struct {
	Items      []IssueSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListUsersResult is a page of user summaries.
type ListUsersResult struct {
	Items      []UserSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// IssueService defines use-case operations for issues and their watchers.
type IssueService interface {
	Create(ctx context.Context, input CreateIssueInput) (*IssueDetail, error)
	Get(ctx context.Context, issueID int64) (*IssueDetail, error)
	Update(ctx context.Context, input UpdateIssueInput) (*IssueDetail, error)
	Delete(ctx context.Context, actorID, issueID int64) error
	ChangeStatus(ctx context.Context, input ChangeStatusInput) (*IssueDetail, error)
	Assign(ctx context.Context, input AssignInput) (*IssueDetail, error)
	Search(ctx context.Context, input SearchIssuesInput) (*ListIssuesResult, error)

	AddWatcher(ctx context.Context, actorID, issueID, userID int64) error
	RemoveWatcher(ctx context.Context, actorID, issueID, userID int64) error
	ListWatchers(ctx context.Context, issueID int64, page, limit int) (*ListUsersResult, error)
}
