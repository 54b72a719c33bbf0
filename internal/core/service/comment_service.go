package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

type CommentService struct {
	comments ports.CommentRepository
	issues   ports.IssueRepository
	users    ports.UserRepository
	actors   *ActorResolver
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCommentService(
	comments ports.CommentRepository,
	issues ports.IssueRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		issues:   issues,
		users:    users,
		actors:   NewActorResolver(users),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Add posts a comment on an existing issue. Any authenticated user may comment.
func (s *CommentService) Add(ctx context.Context, input ports.AddCommentInput) (_ *ports.CommentDetail, err error) {
	ctx, span := startSpan(ctx, "CommentService.Add", attribute.Int64("issue.id", input.IssueID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCommentText(input.Text); err != nil {
		return nil, err
	}
	if _, err := s.issues.FindByID(ctx, input.IssueID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		IssueID:   input.IssueID,
		AuthorID:  actor.ID,
		Text:      input.Text,
		CreatedAt: s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.logger.Info().Int64("comment_id", c.ID).Int64("issue_id", c.IssueID).Int64("actor_id", actor.ID).Msg("comment added")
	return s.detail(ctx, c)
}

// Update replaces the comment text. Only the author or an administrator may edit.
func (s *CommentService) Update(ctx context.Context, input ports.UpdateCommentInput) (_ *ports.CommentDetail, err error) {
	ctx, span := startSpan(ctx, "CommentService.Update", attribute.Int64("comment.id", input.CommentID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, input.CommentID)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditOrDeleteComment(c, actor) {
		return nil, domain.Denied("you can only edit your own comments")
	}
	if err := domain.ValidateCommentText(input.Text); err != nil {
		return nil, err
	}

	now := s.now()
	c.Text = input.Text
	c.UpdatedAt = &now
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.logger.Info().Int64("comment_id", c.ID).Int64("actor_id", actor.ID).Msg("comment updated")
	return s.detail(ctx, c)
}

func (s *CommentService) Delete(ctx context.Context, actorID, commentID int64) (err error) {
	ctx, span := startSpan(ctx, "CommentService.Delete", attribute.Int64("comment.id", commentID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, actorID)
	if err != nil {
		return err
	}
	c, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !domain.CanEditOrDeleteComment(c, actor) {
		return domain.Denied("you can only delete your own comments")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.Info().Int64("comment_id", commentID).Int64("actor_id", actor.ID).Msg("comment deleted")
	return nil
}

// List pages through an issue's comments, oldest first.
func (s *CommentService) List(ctx context.Context, issueID int64, page, limit int) (*ports.ListCommentsResult, error) {
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, err
	}

	req := normalizePage(page, limit, defaultCommentPageSize)
	comments, total, err := s.comments.ListByIssue(ctx, issueID, req)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	authorIDs := make([]int64, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	byID, err := summariesByID(ctx, s.users, authorIDs...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	items := make([]ports.CommentDetail, 0, len(comments))
	for _, c := range comments {
		items = append(items, toCommentDetail(c, summaryOrID(byID, c.AuthorID)))
	}

	return &ports.ListCommentsResult{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages(total, req.Limit),
	}, nil
}

func (s *CommentService) detail(ctx context.Context, c *domain.Comment) (*ports.CommentDetail, error) {
	byID, err := summariesByID(ctx, s.users, c.AuthorID)
	if err != nil {
		return nil, err
	}
	d := toCommentDetail(c, summaryOrID(byID, c.AuthorID))
	return &d, nil
}

func toCommentDetail(c *domain.Comment, author ports.UserSummary) ports.CommentDetail {
	return ports.CommentDetail{
		ID:        c.ID,
		IssueID:   c.IssueID,
		Author:    author,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
