package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

type IssueService struct {
	issues      ports.IssueRepository
	comments    ports.CommentRepository
	users       ports.UserRepository
	actors      *ActorResolver
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewIssueService wires the issue use cases. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewIssueService(
	issues ports.IssueRepository,
	comments ports.CommentRepository,
	users ports.UserRepository,
	idempotency ports.IdempotencyStore,
	logger zerolog.Logger,
) *IssueService {
	return &IssueService{
		issues:      issues,
		comments:    comments,
		users:       users,
		actors:      NewActorResolver(users),
		idempotency: idempotency,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a new issue reported by the actor. If an idempotency key is
// provided and already seen for this actor, the earlier issue is returned;
// a key whose create is still running yields a conflict.
func (s *IssueService) Create(ctx context.Context, input ports.CreateIssueInput) (_ *ports.IssueDetail, err error) {
	ctx, span := startSpan(ctx, "IssueService.Create", attribute.Int64("actor.id", input.ActorID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	reserved, created := false, false
	if key != "" && s.idempotency != nil {
		existingID, ok, err := s.idempotency.Reserve(ctx, actor.ID, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, creating anyway")
		case ok:
			reserved = true
		case existingID == 0:
			return nil, &domain.ConflictError{Reason: "a request with this Idempotency-Key is still in progress"}
		default:
			if replay, found := s.replay(ctx, existingID, key); found {
				return replay, nil
			}
		}
	}
	if reserved {
		defer func() {
			if created {
				return
			}
			if relErr := s.idempotency.Release(context.WithoutCancel(ctx), actor.ID, key); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}()
	}

	issue, err := s.newIssue(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		s.logger.Error().Err(err).Int64("actor_id", actor.ID).Msg("failed to create issue")
		return nil, fmt.Errorf("create issue: %w", err)
	}
	created = true

	if reserved {
		if err := s.idempotency.Complete(ctx, actor.ID, key, issue.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Int64("issue_id", issue.ID).Int64("actor_id", actor.ID).Str("type", string(issue.Type)).Msg("issue created")

	return s.detail(ctx, issue)
}

// replay loads the issue an earlier request created. A key pointing at a
// deleted issue is ignored and a fresh issue is created.
func (s *IssueService) replay(ctx context.Context, issueID int64, key string) (*ports.IssueDetail, bool) {
	existing, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, false
	}
	detail, err := s.detail(ctx, existing)
	if err != nil {
		return nil, false
	}
	detail.AlreadyExisted = true
	s.logger.Info().Str("idempotency_key", key).Int64("issue_id", issueID).Msg("idempotent replay")
	return detail, true
}

func (s *IssueService) newIssue(ctx context.Context, actor domain.Actor, input ports.CreateIssueInput) (*domain.Issue, error) {
	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	severity := input.Severity
	if severity == "" {
		severity = domain.SeverityS4
	}
	issueType := input.Type
	if issueType == "" {
		issueType = domain.TypeTask
	}
	if err := validateEnums(&priority, &severity, &issueType); err != nil {
		return nil, err
	}

	now := s.now()
	issue := &domain.Issue{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      domain.StatusOpen,
		Priority:    priority,
		Severity:    severity,
		Type:        issueType,
		ReporterID:  actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.AssigneeID != nil {
		target := *input.AssigneeID
		if target == issue.ReporterID {
			return nil, domain.Denied("cannot claim a reported issue")
		}
		if _, err := s.users.FindByID(ctx, target); err != nil {
			return nil, err
		}
		issue.AssigneeID = &target
	}

	return issue, nil
}

// Get returns the full view of a single issue.
func (s *IssueService) Get(ctx context.Context, issueID int64) (*ports.IssueDetail, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, issue)
}

// Update applies a sparse patch. Every requested change is authorized before
// any of them is applied, so a refused patch changes nothing.
func (s *IssueService) Update(ctx context.Context, input ports.UpdateIssueInput) (_ *ports.IssueDetail, err error) {
	ctx, span := startSpan(ctx, "IssueService.Update", attribute.Int64("issue.id", input.IssueID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issues.FindByID(ctx, input.IssueID)
	if err != nil {
		return nil, err
	}

	rel := domain.RelationshipOf(actor, issue)
	if !domain.CanMutateFields(rel) {
		return nil, domain.Denied("you cannot edit this issue")
	}
	if input.Severity != nil && !domain.CanChangeSeverity(rel) {
		return nil, domain.Denied("only the reporter or an administrator can change severity")
	}
	if input.Type != nil && !domain.CanChangeType(rel) {
		return nil, domain.Denied("only the reporter or an administrator can change type")
	}

	if input.Title != nil {
		if err := domain.ValidateTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if err := validateEnums(input.Priority, input.Severity, input.Type); err != nil {
		return nil, err
	}

	if input.Title != nil {
		issue.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Priority != nil {
		issue.Priority = *input.Priority
	}
	if input.Severity != nil {
		issue.Severity = *input.Severity
	}
	if input.Type != nil {
		issue.Type = *input.Type
	}
	issue.Touch(s.now())

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}

	s.logger.Info().Int64("issue_id", issue.ID).Int64("actor_id", actor.ID).Msg("issue updated")
	return s.detail(ctx, issue)
}

// Delete removes an issue and its comments. Only administrators may delete;
// the existence check runs after the permission check.
func (s *IssueService) Delete(ctx context.Context, actorID, issueID int64) (err error) {
	ctx, span := startSpan(ctx, "IssueService.Delete", attribute.Int64("issue.id", issueID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, actorID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(domain.Relationship{IsAdmin: actor.IsAdmin()}) {
		return domain.Denied("only administrators can delete issues")
	}
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return err
	}
	if err := s.issues.Delete(ctx, issueID); err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}

	s.logger.Info().Int64("issue_id", issueID).Int64("actor_id", actor.ID).Msg("issue deleted")
	return nil
}

// ChangeStatus moves the issue to input.Target if the lifecycle allows the
// actor to. A non-blank comment is recorded after the move on a best-effort
// basis: a failed comment write is logged and the move still succeeds.
func (s *IssueService) ChangeStatus(ctx context.Context, input ports.ChangeStatusInput) (_ *ports.IssueDetail, err error) {
	ctx, span := startSpan(ctx, "IssueService.ChangeStatus",
		attribute.Int64("issue.id", input.IssueID),
		attribute.String("issue.status.target", string(input.Target)),
	)
	defer func() { endSpan(span, err) }()

	if !input.Target.Valid() {
		return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", input.Target)}
	}

	actor, err := s.actors.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issues.FindByID(ctx, input.IssueID)
	if err != nil {
		return nil, err
	}

	from := issue.Status
	if !domain.CanTransition(domain.RelationshipOf(actor, issue), from, input.Target) {
		return nil, domain.Denied(fmt.Sprintf("you cannot change status to %s", input.Target))
	}

	now := s.now()
	issue.Status = input.Target
	issue.Touch(now)
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}

	if strings.TrimSpace(input.Comment) != "" {
		c := &domain.Comment{IssueID: issue.ID, AuthorID: actor.ID, Text: input.Comment, CreatedAt: now}
		if err := s.comments.Create(ctx, c); err != nil {
			// The move is already stored; the comment does not undo it.
			s.logger.Warn().Err(err).Int64("issue_id", issue.ID).Int64("actor_id", actor.ID).Msg("failed to record status change comment")
		}
	}

	s.logger.Info().
		Int64("issue_id", issue.ID).
		Int64("actor_id", actor.ID).
		Str("from", string(from)).
		Str("status", string(input.Target)).
		Msg("issue status changed")

	return s.detail(ctx, issue)
}

// Assign sets the issue's assignee, claiming it for the actor when no target is given.
func (s *IssueService) Assign(ctx context.Context, input ports.AssignInput) (_ *ports.IssueDetail, err error) {
	ctx, span := startSpan(ctx, "IssueService.Assign", attribute.Int64("issue.id", input.IssueID))
	defer func() { endSpan(span, err) }()

	actor, err := s.actors.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}
	issue, err := s.issues.FindByID(ctx, input.IssueID)
	if err != nil {
		return nil, err
	}

	target, err := domain.ResolveAssignee(issue, input.AssigneeID, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, target); err != nil {
		return nil, err
	}
	if err := domain.CheckAssignable(issue, target); err != nil {
		return nil, err
	}

	issue.AssigneeID = &target
	issue.Touch(s.now())
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("assign issue: %w", err)
	}

	s.logger.Info().Int64("issue_id", issue.ID).Int64("actor_id", actor.ID).Int64("assignee_id", target).Msg("issue assigned")
	return s.detail(ctx, issue)
}

// Search lists issues matching the criteria, newest first.
func (s *IssueService) Search(ctx context.Context, input ports.SearchIssuesInput) (_ *ports.ListIssuesResult, err error) {
	ctx, span := startSpan(ctx, "IssueService.Search")
	defer func() { endSpan(span, err) }()

	page := normalizePage(input.Page, input.Limit, defaultPageSize)
	issues, total, err := s.issues.Search(ctx, input.Criteria, page)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	items := make([]ports.IssueSummary, 0, len(issues))
	for _, i := range issues {
		items = append(items, toIssueSummary(i))
	}

	return &ports.ListIssuesResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages(total, page.Limit),
	}, nil
}

// AddWatcher is not offered yet: watchers are read-only until notification
// delivery exists.
func (s *IssueService) AddWatcher(ctx context.Context, actorID, issueID, userID int64) error {
	return fmt.Errorf("add watcher: %w", domain.ErrNotImplemented)
}

func (s *IssueService) RemoveWatcher(ctx context.Context, actorID, issueID, userID int64) error {
	return fmt.Errorf("remove watcher: %w", domain.ErrNotImplemented)
}

// ListWatchers pages through the users watching an issue.
func (s *IssueService) ListWatchers(ctx context.Context, issueID int64, page, limit int) (*ports.ListUsersResult, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	req := normalizePage(page, limit, defaultPageSize)
	total := int64(len(issue.WatcherIDs))
	start := req.Offset()
	if start > len(issue.WatcherIDs) {
		start = len(issue.WatcherIDs)
	}
	end := start + req.Limit
	if end > len(issue.WatcherIDs) {
		end = len(issue.WatcherIDs)
	}
	ids := issue.WatcherIDs[start:end]

	byID, err := summariesByID(ctx, s.users, ids...)
	if err != nil {
		return nil, fmt.Errorf("list watchers: %w", err)
	}
	items := make([]ports.UserSummary, 0, len(ids))
	for _, id := range ids {
		items = append(items, summaryOrID(byID, id))
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages(total, req.Limit),
	}, nil
}

func (s *IssueService) detail(ctx context.Context, issue *domain.Issue) (*ports.IssueDetail, error) {
	ids := []int64{issue.ReporterID}
	if issue.AssigneeID != nil {
		ids = append(ids, *issue.AssigneeID)
	}
	byID, err := summariesByID(ctx, s.users, ids...)
	if err != nil {
		return nil, fmt.Errorf("load issue people: %w", err)
	}

	count, err := s.comments.CountByIssue(ctx, issue.ID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	d := &ports.IssueDetail{
		ID:           issue.ID,
		Title:        issue.Title,
		Description:  issue.Description,
		Status:       issue.Status,
		Priority:     issue.Priority,
		Severity:     issue.Severity,
		Type:         issue.Type,
		Reporter:     summaryOrID(byID, issue.ReporterID),
		CommentCount: count,
		WatcherCount: len(issue.WatcherIDs),
		CreatedAt:    issue.CreatedAt,
		UpdatedAt:    issue.UpdatedAt,
	}
	if issue.AssigneeID != nil {
		a := summaryOrID(byID, *issue.AssigneeID)
		d.Assignee = &a
	}
	return d, nil
}

func toIssueSummary(i *domain.Issue) ports.IssueSummary {
	return ports.IssueSummary{
		ID:         i.ID,
		Title:      i.Title,
		Status:     i.Status,
		Priority:   i.Priority,
		Severity:   i.Severity,
		Type:       i.Type,
		ReporterID: i.ReporterID,
		AssigneeID: i.AssigneeID,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// validateEnums checks whichever of the optional enum values are present.
func validateEnums(p *domain.Priority, sev *domain.Severity, t *domain.IssueType) error {
	var errs []error
	if p != nil && !p.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", *p)})
	}
	if sev != nil && !sev.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %q", *sev)})
	}
	if t != nil && !t.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "type", Message: fmt.Sprintf("unknown type %q", *t)})
	}
	return errors.Join(errs...)
}
