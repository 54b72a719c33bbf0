package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// IssueRepository stores issues and their watcher lists.
type IssueRepository struct {
	db *sqlx.DB
}

func NewIssueRepository(s *Store) *IssueRepository {
	return &IssueRepository{db: s.db}
}

type issueRow struct {
	ID          int64         `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Status      string        `db:"status"`
	Priority    string        `db:"priority"`
	Severity    string        `db:"severity"`
	Type        string        `db:"type"`
	ReporterID  int64         `db:"reporter_id"`
	AssigneeID  sql.NullInt64 `db:"assignee_id"`
	CreatedAt   int64         `db:"created_at"`
	UpdatedAt   int64         `db:"updated_at"`
}

type watcherRow struct {
	IssueID int64 `db:"issue_id"`
	UserID  int64 `db:"user_id"`
}

const issueColumns = `id, title, description, status, priority, severity, type, reporter_id, assignee_id, created_at, updated_at`

func (r issueRow) toDomain(watchers []int64) *domain.Issue {
	i := &domain.Issue{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.IssueStatus(r.Status),
		Priority:    domain.Priority(r.Priority),
		Severity:    domain.Severity(r.Severity),
		Type:        domain.IssueType(r.Type),
		ReporterID:  r.ReporterID,
		WatcherIDs:  watchers,
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
	}
	if r.AssigneeID.Valid {
		id := r.AssigneeID.Int64
		i.AssigneeID = &id
	}
	return i
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *IssueRepository) Create(ctx context.Context, i *domain.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create issue: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(
		`INSERT INTO issues (title, title_lower, description, status, priority, severity, type, reporter_id, assignee_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		i.Title, domain.FoldTitle(i.Title), i.Description, string(i.Status), string(i.Priority), string(i.Severity), string(i.Type),
		i.ReporterID, nullableID(i.AssigneeID), toMillis(i.CreatedAt), toMillis(i.UpdatedAt),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	if err := writeWatchers(ctx, tx, id, i.WatcherIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create issue: %w", err)
	}
	i.ID = id
	return nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id int64) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row issueRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+issueColumns+` FROM issues WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.IssueNotFound(id)
		}
		return nil, fmt.Errorf("find issue %d: %w", id, err)
	}
	watchers, err := r.watchersFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return row.toDomain(watchers[id]), nil
}

// Update rewrites the mutable columns and the watcher list. Reporter and
// creation time are never written.
func (r *IssueRepository) Update(ctx context.Context, i *domain.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update issue: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE issues SET title = ?, title_lower = ?, description = ?, status = ?, priority = ?, severity = ?, type = ?,
		 assignee_id = ?, updated_at = ? WHERE id = ?`),
		i.Title, domain.FoldTitle(i.Title), i.Description, string(i.Status), string(i.Priority), string(i.Severity), string(i.Type),
		nullableID(i.AssigneeID), toMillis(i.UpdatedAt), i.ID,
	)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.IssueNotFound(i.ID)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM issue_watchers WHERE issue_id = ?`), i.ID); err != nil {
		return fmt.Errorf("clear watchers: %w", err)
	}
	if err := writeWatchers(ctx, tx, i.ID, i.WatcherIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update issue: %w", err)
	}
	return nil
}

// Delete removes the issue with its comments and watchers.
func (r *IssueRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete issue: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM comments WHERE issue_id = ?`,
		`DELETE FROM issue_watchers WHERE issue_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
			return fmt.Errorf("delete issue children: %w", err)
		}
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM issues WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.IssueNotFound(id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete issue: %w", err)
	}
	return nil
}

// Search returns a page of issues matching criteria, newest first.
func (r *IssueRepository) Search(ctx context.Context, c domain.IssueCriteria, page ports.PageRequest) ([]*domain.Issue, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := issueWhere(c)

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM issues`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	var rows []issueRow
	query := `SELECT ` + issueColumns + ` FROM issues` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), append(args, page.Limit, page.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("search issues: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	watchers, err := r.watchersFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Issue, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(watchers[row.ID]))
	}
	return out, total, nil
}

func writeWatchers(ctx context.Context, tx *sqlx.Tx, issueID int64, watchers []int64) error {
	for pos, userID := range watchers {
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO issue_watchers (issue_id, user_id, position) VALUES (?, ?, ?)`),
			issueID, userID, pos); err != nil {
			return fmt.Errorf("insert watcher: %w", err)
		}
	}
	return nil
}

func (r *IssueRepository) watchersFor(ctx context.Context, issueIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(issueIDs))
	if len(issueIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(
		`SELECT issue_id, user_id FROM issue_watchers WHERE issue_id IN (?) ORDER BY issue_id, position`, issueIDs)
	if err != nil {
		return nil, fmt.Errorf("build watcher lookup: %w", err)
	}
	var rows []watcherRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load watchers: %w", err)
	}
	for _, row := range rows {
		out[row.IssueID] = append(out[row.IssueID], row.UserID)
	}
	return out, nil
}
