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

// CommentRepository stores issue comments.
type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(s *Store) *CommentRepository {
	return &CommentRepository{db: s.db}
}

type commentRow struct {
	ID        int64         `db:"id"`
	IssueID   int64         `db:"issue_id"`
	AuthorID  int64         `db:"author_id"`
	Text      string        `db:"text"`
	CreatedAt int64         `db:"created_at"`
	UpdatedAt sql.NullInt64 `db:"updated_at"`
}

const commentColumns = `id, issue_id, author_id, text, created_at, updated_at`

func (r commentRow) toDomain() *domain.Comment {
	c := &domain.Comment{
		ID:        r.ID,
		IssueID:   r.IssueID,
		AuthorID:  r.AuthorID,
		Text:      r.Text,
		CreatedAt: fromMillis(r.CreatedAt),
	}
	if r.UpdatedAt.Valid {
		t := fromMillis(r.UpdatedAt.Int64)
		c.UpdatedAt = &t
	}
	return c
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated sql.NullInt64
	if c.UpdatedAt != nil {
		updated = sql.NullInt64{Int64: toMillis(*c.UpdatedAt), Valid: true}
	}
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		`INSERT INTO comments (issue_id, author_id, text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		c.IssueID, c.AuthorID, c.Text, toMillis(c.CreatedAt), updated,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row commentRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+commentColumns+` FROM comments WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.CommentNotFound(id)
		}
		return nil, fmt.Errorf("find comment %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// Update writes the text and edit time only.
func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated sql.NullInt64
	if c.UpdatedAt != nil {
		updated = sql.NullInt64{Int64: toMillis(*c.UpdatedAt), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`),
		c.Text, updated, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.CommentNotFound(c.ID)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.CommentNotFound(id)
	}
	return nil
}

func (r *CommentRepository) ListByIssue(ctx context.Context, issueID int64, page ports.PageRequest) ([]*domain.Comment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.count(ctx, r.db, issueID)
	if err != nil {
		return nil, 0, err
	}
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(
		`SELECT `+commentColumns+` FROM comments WHERE issue_id = ? ORDER BY created_at, id LIMIT ? OFFSET ?`),
		issueID, page.Limit, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	out := make([]*domain.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *CommentRepository) CountByIssue(ctx context.Context, issueID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.count(ctx, r.db, issueID)
}

func (r *CommentRepository) count(ctx context.Context, q sqlx.QueryerContext, issueID int64) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, q, &n, r.db.Rebind(`SELECT COUNT(*) FROM comments WHERE issue_id = ?`), issueID); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}
