package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	byID      map[int64]*domain.User
	nextID    int64
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = domain.NewRoleSet(u.Roles.Slice()...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.UserNotFound(id)
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context, page ports.PageRequest) ([]*domain.User, int64, error) {
	var all []*domain.User
	for _, u := range r.byID {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubUserRepo) UpdateRoles(_ context.Context, id int64, roles domain.RoleSet) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.UserNotFound(id)
	}
	u.Roles = domain.NewRoleSet(roles.Slice()...)
	return nil
}

// add stores a user directly, bypassing uniqueness and hashing.
func (r *stubUserRepo) add(username string, roles ...domain.Role) *domain.User {
	r.nextID++
	u := &domain.User{
		ID:       r.nextID,
		Username: username,
		Email:    username + "@example.com",
		Roles:    domain.NewRoleSet(roles...),
	}
	r.byID[u.ID] = u
	return cloneUser(u)
}

type stubIssueRepo struct {
	byID      map[int64]*domain.Issue
	nextID    int64
	writes    int
	comments  *stubCommentRepo
	updateErr error
}

func newStubIssueRepo(comments *stubCommentRepo) *stubIssueRepo {
	return &stubIssueRepo{byID: make(map[int64]*domain.Issue), comments: comments}
}

func cloneIssue(i *domain.Issue) *domain.Issue {
	clone := *i
	if i.AssigneeID != nil {
		a := *i.AssigneeID
		clone.AssigneeID = &a
	}
	clone.WatcherIDs = append([]int64(nil), i.WatcherIDs...)
	return &clone
}

func (r *stubIssueRepo) Create(_ context.Context, i *domain.Issue) error {
	r.nextID++
	i.ID = r.nextID
	r.byID[i.ID] = cloneIssue(i)
	r.writes++
	return nil
}

func (r *stubIssueRepo) FindByID(_ context.Context, id int64) (*domain.Issue, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.IssueNotFound(id)
	}
	return cloneIssue(i), nil
}

func (r *stubIssueRepo) Update(_ context.Context, i *domain.Issue) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[i.ID]; !ok {
		return domain.IssueNotFound(i.ID)
	}
	r.byID[i.ID] = cloneIssue(i)
	r.writes++
	return nil
}

func (r *stubIssueRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.IssueNotFound(id)
	}
	delete(r.byID, id)
	if r.comments != nil {
		for cid, c := range r.comments.byID {
			if c.IssueID == id {
				delete(r.comments.byID, cid)
			}
		}
	}
	r.writes++
	return nil
}

// Search applies the compiled predicate, the same semantics the real stores implement.
func (r *stubIssueRepo) Search(_ context.Context, c domain.IssueCriteria, page ports.PageRequest) ([]*domain.Issue, int64, error) {
	pred := c.Compile()
	var matched []*domain.Issue
	for _, i := range r.byID {
		if pred(i) {
			matched = append(matched, cloneIssue(i))
		}
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].CreatedAt.After(matched[b].CreatedAt) })
	return paginate(matched, page), int64(len(matched)), nil
}

// put stores an issue directly.
func (r *stubIssueRepo) put(i *domain.Issue) *domain.Issue {
	if i.ID == 0 {
		r.nextID++
		i.ID = r.nextID
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i.ID) * time.Hour)
		i.UpdatedAt = i.CreatedAt
	}
	r.byID[i.ID] = cloneIssue(i)
	return cloneIssue(i)
}

type stubCommentRepo struct {
	byID      map[int64]*domain.Comment
	nextID    int64
	createErr error
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byID: make(map[int64]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.CommentNotFound(id)
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) Update(_ context.Context, c *domain.Comment) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.CommentNotFound(c.ID)
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.CommentNotFound(id)
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCommentRepo) ListByIssue(_ context.Context, issueID int64, page ports.PageRequest) ([]*domain.Comment, int64, error) {
	var matched []*domain.Comment
	for _, c := range r.byID {
		if c.IssueID == issueID {
			clone := *c
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(a, b int) bool { return matched[a].ID < matched[b].ID })
	return paginate(matched, page), int64(len(matched)), nil
}

func (r *stubCommentRepo) CountByIssue(_ context.Context, issueID int64) (int64, error) {
	var n int64
	for _, c := range r.byID {
		if c.IssueID == issueID {
			n++
		}
	}
	return n, nil
}

type stubIdempotency struct {
	// keys maps actor:key to the created issue id, 0 while reserved.
	keys       map[string]int64
	reserveErr error
	released   int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Reserve(_ context.Context, actorID int64, key string) (int64, bool, error) {
	if s.reserveErr != nil {
		return 0, false, s.reserveErr
	}
	k := fmt.Sprintf("%d:%s", actorID, key)
	if id, ok := s.keys[k]; ok {
		return id, false, nil
	}
	s.keys[k] = 0
	return 0, true, nil
}

func (s *stubIdempotency) Complete(_ context.Context, actorID int64, key string, issueID int64) error {
	s.keys[fmt.Sprintf("%d:%s", actorID, key)] = issueID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, actorID int64, key string) error {
	delete(s.keys, fmt.Sprintf("%d:%s", actorID, key))
	s.released++
	return nil
}

func paginate[T any](items []T, page ports.PageRequest) []T {
	if page.Limit <= 0 {
		return items
	}
	start := page.Offset()
	if start > len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	users    *stubUserRepo
	issues   *stubIssueRepo
	comments *stubCommentRepo
	idem     *stubIdempotency
	svc      *IssueService
	cmt      *CommentService

	reporter *domain.User
	assignee *domain.User
	stranger *domain.User
	admin    *domain.User
}

func newFixture() *fixture {
	f := &fixture{
		users:    newStubUserRepo(),
		comments: newStubCommentRepo(),
		idem:     newStubIdempotency(),
	}
	f.issues = newStubIssueRepo(f.comments)
	f.svc = NewIssueService(f.issues, f.comments, f.users, f.idem, discardLogger)
	f.cmt = NewCommentService(f.comments, f.issues, f.users, discardLogger)

	f.reporter = f.users.add("alice", domain.RoleUser)
	f.assignee = f.users.add("bob", domain.RoleUser)
	f.stranger = f.users.add("carol", domain.RoleUser)
	f.admin = f.users.add("root", domain.RoleAdmin, domain.RoleUser)
	return f
}

// openIssue stores an OPEN issue reported by f.reporter and assigned to f.assignee.
func (f *fixture) openIssue() *domain.Issue {
	assignee := f.assignee.ID
	return f.issues.put(&domain.Issue{
		Title:      "Crash on save",
		Status:     domain.StatusOpen,
		Priority:   domain.PriorityHigh,
		Severity:   domain.SeverityS2,
		Type:       domain.TypeBug,
		ReporterID: f.reporter.ID,
		AssigneeID: &assignee,
	})
}

var errBoom = errors.New("db unavailable")
