package ports

import (
	"context"
	"time"

	"github.com/jiralite/tracker/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UserDetail is the full user view; the password hash never leaves the service layer.
type UserDetail struct {
	ID        int64
	Username  string
	Email     string
	Roles     []domain.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*UserDetail, error)
	// Login accepts either a username or an email as identifier.
	Login(ctx context.Context, identifier, password string) (string, *UserDetail, error)
}

type UserService interface {
	Get(ctx context.Context, id int64) (*UserDetail, error)
	List(ctx context.Context, page, limit int) (*ListUsersResult, error)
	AssignRole(ctx context.Context, actorID, userID int64, role domain.Role) (*UserDetail, error)
	RemoveRole(ctx context.Context, actorID, userID int64, role domain.Role) (*UserDetail, error)
}
