package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// --- stub services ---

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.UserDetail, error)
	loginFn    func(ctx context.Context, identifier, password string) (string, *ports.UserDetail, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.UserDetail, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (string, *ports.UserDetail, error) {
	return s.loginFn(ctx, identifier, password)
}

type stubUserService struct {
	getFn    func(ctx context.Context, id int64) (*ports.UserDetail, error)
	listFn   func(ctx context.Context, page, limit int) (*ports.ListUsersResult, error)
	assignFn func(ctx context.Context, actorID, userID int64, role domain.Role) (*ports.UserDetail, error)
	removeFn func(ctx context.Context, actorID, userID int64, role domain.Role) (*ports.UserDetail, error)
}

func (s *stubUserService) Get(ctx context.Context, id int64) (*ports.UserDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubUserService) AssignRole(ctx context.Context, actorID, userID int64, role domain.Role) (*ports.UserDetail, error) {
	return s.assignFn(ctx, actorID, userID, role)
}

func (s *stubUserService) RemoveRole(ctx context.Context, actorID, userID int64, role domain.Role) (*ports.UserDetail, error) {
	return s.removeFn(ctx, actorID, userID, role)
}

type stubIssueService struct {
	createFn       func(ctx context.Context, in ports.CreateIssueInput) (*ports.IssueDetail, error)
	getFn          func(ctx context.Context, id int64) (*ports.IssueDetail, error)
	updateFn       func(ctx context.Context, in ports.UpdateIssueInput) (*ports.IssueDetail, error)
	deleteFn       func(ctx context.Context, actorID, issueID int64) error
	changeStatusFn func(ctx context.Context, in ports.ChangeStatusInput) (*ports.IssueDetail, error)
	assignFn       func(ctx context.Context, in ports.AssignInput) (*ports.IssueDetail, error)
	searchFn       func(ctx context.Context, in ports.SearchIssuesInput) (*ports.ListIssuesResult, error)
	listWatchersFn func(ctx context.Context, issueID int64, page, limit int) (*ports.ListUsersResult, error)
}

func (s *stubIssueService) Create(ctx context.Context, in ports.CreateIssueInput) (*ports.IssueDetail, error) {
	return s.createFn(ctx, in)
}

func (s *stubIssueService) Get(ctx context.Context, id int64) (*ports.IssueDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubIssueService) Update(ctx context.Context, in ports.UpdateIssueInput) (*ports.IssueDetail, error) {
	return s.updateFn(ctx, in)
}

func (s *stubIssueService) Delete(ctx context.Context, actorID, issueID int64) error {
	return s.deleteFn(ctx, actorID, issueID)
}

func (s *stubIssueService) ChangeStatus(ctx context.Context, in ports.ChangeStatusInput) (*ports.IssueDetail, error) {
	return s.changeStatusFn(ctx, in)
}

func (s *stubIssueService) Assign(ctx context.Context, in ports.AssignInput) (*ports.IssueDetail, error) {
	return s.assignFn(ctx, in)
}

func (s *stubIssueService) Search(ctx context.Context, in ports.SearchIssuesInput) (*ports.ListIssuesResult, error) {
	return s.searchFn(ctx, in)
}

func (s *stubIssueService) AddWatcher(context.Context, int64, int64, int64) error {
	return domain.ErrNotImplemented
}

func (s *stubIssueService) RemoveWatcher(context.Context, int64, int64, int64) error {
	return domain.ErrNotImplemented
}

func (s *stubIssueService) ListWatchers(ctx context.Context, issueID int64, page, limit int) (*ports.ListUsersResult, error) {
	return s.listWatchersFn(ctx, issueID, page, limit)
}

type stubCommentService struct {
	addFn    func(ctx context.Context, in ports.AddCommentInput) (*ports.CommentDetail, error)
	updateFn func(ctx context.Context, in ports.UpdateCommentInput) (*ports.CommentDetail, error)
	deleteFn func(ctx context.Context, actorID, commentID int64) error
	listFn   func(ctx context.Context, issueID int64, page, limit int) (*ports.ListCommentsResult, error)
}

func (s *stubCommentService) Add(ctx context.Context, in ports.AddCommentInput) (*ports.CommentDetail, error) {
	return s.addFn(ctx, in)
}

func (s *stubCommentService) Update(ctx context.Context, in ports.UpdateCommentInput) (*ports.CommentDetail, error) {
	return s.updateFn(ctx, in)
}

func (s *stubCommentService) Delete(ctx context.Context, actorID, commentID int64) error {
	return s.deleteFn(ctx, actorID, commentID)
}

func (s *stubCommentService) List(ctx context.Context, issueID int64, page, limit int) (*ports.ListCommentsResult, error) {
	return s.listFn(ctx, issueID, page, limit)
}

// --- helpers ---

// newContext builds an echo context for target. A non-empty body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authed marks the context as coming from user id.
func authed(c echo.Context, id int64) echo.Context {
	c.Set("user_id", id)
	return c
}

func withParams(c echo.Context, kv ...string) echo.Context {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

// assertHTTPError fails unless err is an echo.HTTPError with the given code.
func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP %d error, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected HTTP %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func int64Ptr(v int64) *int64 { return &v }
