package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	// Identifier is a username or an email address.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// --- Users ---

type userSummaryResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN USER"`
}

type userListResponse struct {
	Items      []userSummaryResponse `json:"items"`
	Pagination paginationResponse    `json:"pagination"`
}

// --- Issues ---

type createIssueRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Severity    string `json:"severity"    validate:"omitempty,oneof=S1 S2 S3 S4"`
	Type        string `json:"type"        validate:"omitempty,oneof=BUG TASK FEATURE IMPROVEMENT"`
	AssigneeID  *int64 `json:"assignee_id" validate:"omitempty,gt=0"`
}

type updateIssueRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Severity    *string `json:"severity"    validate:"omitempty,oneof=S1 S2 S3 S4"`
	Type        *string `json:"type"        validate:"omitempty,oneof=BUG TASK FEATURE IMPROVEMENT"`
}

type changeStatusRequest struct {
	Status  string `json:"status"  validate:"required,oneof=OPEN IN_PROGRESS REVIEW CLOSED"`
	Comment string `json:"comment" validate:"max=10000"`
}

type assignRequest struct {
	// AssigneeID is optional; when absent the caller claims the issue.
	AssigneeID *int64 `json:"assignee_id" validate:"omitempty,gt=0"`
}

type watcherRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type issueLinks struct {
	Self     string `json:"self"`
	Comments string `json:"comments"`
	Watchers string `json:"watchers"`
}

type issueResponse struct {
	ID           int64                `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Status       string               `json:"status"`
	Priority     string               `json:"priority"`
	Severity     string               `json:"severity,omitempty"`
	Type         string               `json:"type"`
	Reporter     userSummaryResponse  `json:"reporter"`
	Assignee     *userSummaryResponse `json:"assignee,omitempty"`
	CommentCount int64                `json:"comment_count"`
	WatcherCount int                  `json:"watcher_count"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Links        issueLinks           `json:"_links"`
}

type issueSummaryResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	Severity   string    `json:"severity,omitempty"`
	Type       string    `json:"type"`
	ReporterID int64     `json:"reporter_id"`
	AssigneeID *int64    `json:"assignee_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type issueListResponse struct {
	Items      []issueSummaryResponse `json:"items"`
	Pagination paginationResponse     `json:"pagination"`
}

// --- Comments ---

type commentRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type commentResponse struct {
	ID        int64               `json:"id"`
	IssueID   int64               `json:"issue_id"`
	Author    userSummaryResponse `json:"author"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
}

type commentListResponse struct {
	Items      []commentResponse  `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}
