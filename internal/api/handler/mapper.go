package handler

import (
	"fmt"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// --- Request → Service input ---

func toCreateIssueInput(req createIssueRequest, actorID int64, idempotencyKey string) ports.CreateIssueInput {
	return ports.CreateIssueInput{
		ActorID:        actorID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       domain.Priority(req.Priority),
		Severity:       domain.Severity(req.Severity),
		Type:           domain.IssueType(req.Type),
		AssigneeID:     req.AssigneeID,
		IdempotencyKey: idempotencyKey,
	}
}

func toUpdateIssueInput(req updateIssueRequest, actorID, issueID int64) ports.UpdateIssueInput {
	in := ports.UpdateIssueInput{
		ActorID:     actorID,
		IssueID:     issueID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Severity != nil {
		s := domain.Severity(*req.Severity)
		in.Severity = &s
	}
	if req.Type != nil {
		t := domain.IssueType(*req.Type)
		in.Type = &t
	}
	return in
}

// --- Service output → Response ---

func toUserSummaryResponse(u ports.UserSummary) userSummaryResponse {
	return userSummaryResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toUserResponse(u *ports.UserDetail) userResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserListResponse(r *ports.ListUsersResult) userListResponse {
	items := make([]userSummaryResponse, 0, len(r.Items))
	for _, u := range r.Items {
		items = append(items, toUserSummaryResponse(u))
	}
	return userListResponse{
		Items:      items,
		Pagination: paginationResponse{Page: r.Page, Limit: r.Limit, Total: r.Total, TotalPages: r.TotalPages},
	}
}

func toIssueResponse(d *ports.IssueDetail) issueResponse {
	resp := issueResponse{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Status:       string(d.Status),
		Priority:     string(d.Priority),
		Severity:     string(d.Severity),
		Type:         string(d.Type),
		Reporter:     toUserSummaryResponse(d.Reporter),
		CommentCount: d.CommentCount,
		WatcherCount: d.WatcherCount,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Links:        issueLinksFor(d.ID),
	}
	if d.Assignee != nil {
		a := toUserSummaryResponse(*d.Assignee)
		resp.Assignee = &a
	}
	return resp
}

func issueLinksFor(id int64) issueLinks {
	self := fmt.Sprintf("/v1/issues/%d", id)
	return issueLinks{Self: self, Comments: self + "/comments", Watchers: self + "/watchers"}
}

func toIssueListResponse(r *ports.ListIssuesResult) issueListResponse {
	items := make([]issueSummaryResponse, 0, len(r.Items))
	for _, i := range r.Items {
		items = append(items, issueSummaryResponse{
			ID:         i.ID,
			Title:      i.Title,
			Status:     string(i.Status),
			Priority:   string(i.Priority),
			Severity:   string(i.Severity),
			Type:       string(i.Type),
			ReporterID: i.ReporterID,
			AssigneeID: i.AssigneeID,
			CreatedAt:  i.CreatedAt,
			UpdatedAt:  i.UpdatedAt,
		})
	}
	return issueListResponse{
		Items:      items,
		Pagination: paginationResponse{Page: r.Page, Limit: r.Limit, Total: r.Total, TotalPages: r.TotalPages},
	}
}

func toCommentResponse(c *ports.CommentDetail) commentResponse {
	return commentResponse{
		ID:        c.ID,
		IssueID:   c.IssueID,
		Author:    toUserSummaryResponse(c.Author),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentListResponse(r *ports.ListCommentsResult) commentListResponse {
	items := make([]commentResponse, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, toCommentResponse(&r.Items[i]))
	}
	return commentListResponse{
		Items:      items,
		Pagination: paginationResponse{Page: r.Page, Limit: r.Limit, Total: r.Total, TotalPages: r.TotalPages},
	}
}
