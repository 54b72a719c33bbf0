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

// UserRepository handles user and role data access.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a UserRepository on the store's pool.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{db: s.db}
}

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
}

type roleRow struct {
	UserID int64  `db:"user_id"`
	Role   string `db:"role"`
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

func (r userRow) toDomain(roles domain.RoleSet) *domain.User {
	if roles == nil {
		roles = domain.NewRoleSet()
	}
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Roles:        roles,
		CreatedAt:    fromMillis(r.CreatedAt),
		UpdatedAt:    fromMillis(r.UpdatedAt),
	}
}

// Create inserts the user and its roles in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(
		`INSERT INTO users (username, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		user.Username, user.Email, user.PasswordHash, toMillis(user.CreatedAt), toMillis(user.UpdatedAt),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if err := insertRoles(ctx, tx, id, user.Roles); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	user.ID = id
	return nil
}

func insertRoles(ctx context.Context, tx *sqlx.Tx, userID int64, roles domain.RoleSet) error {
	for _, role := range roles.Slice() {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO user_roles (user_id, role) VALUES (?, ?)`),
			userID, string(role)); err != nil {
			return fmt.Errorf("insert role: %w", err)
		}
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any, notFound error) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row userRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE `+where+` = ?`), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	roles, err := r.rolesFor(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	return row.toDomain(roles[row.ID]), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "id", id, domain.UserNotFound(id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username, fmt.Errorf("user %q: %w", username, domain.ErrNotFound))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email, fmt.Errorf("user %q: %w", email, domain.ErrNotFound))
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build user lookup: %w", err)
	}
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return r.withRoles(ctx, rows)
}

func (r *UserRepository) List(ctx context.Context, page ports.PageRequest) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`),
		page.Limit, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users, err := r.withRoles(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateRoles replaces the user's role set.
func (r *UserRepository) UpdateRoles(ctx context.Context, id int64, roles domain.RoleSet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update roles: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET updated_at = ? WHERE id = ?`), toMillis(timeNow()), id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.UserNotFound(id)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM user_roles WHERE user_id = ?`), id); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	if err := insertRoles(ctx, tx, id, roles); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update roles: %w", err)
	}
	return nil
}

func (r *UserRepository) withRoles(ctx context.Context, rows []userRow) ([]*domain.User, error) {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	roles, err := r.rolesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(roles[row.ID]))
	}
	return out, nil
}

func (r *UserRepository) rolesFor(ctx context.Context, ids []int64) (map[int64]domain.RoleSet, error) {
	out := make(map[int64]domain.RoleSet, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT user_id, role FROM user_roles WHERE user_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build role lookup: %w", err)
	}
	var rows []roleRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	for _, row := range rows {
		role, ok := domain.ParseRole(row.Role)
		if !ok {
			continue
		}
		if out[row.UserID] == nil {
			out[row.UserID] = domain.NewRoleSet()
		}
		out[row.UserID].Add(role)
	}
	return out, nil
}
