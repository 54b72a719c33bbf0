package ports

import (
	"context"

	"github.com/jiralite/tracker/internal/core/domain"
)

// UserRepository defines persistence operations for users and their roles.
type UserRepository interface {
	// Create stores a new user and fills in its id. Returns domain.ErrUserExists
	// when the username or email is taken.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in id order.
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.User, error)
	List(ctx context.Context, page PageRequest) ([]*domain.User, int64, error)
	UpdateRoles(ctx context.Context, id int64, roles domain.RoleSet) error
}

// IdempotencyStore remembers which issue a create request produced.
// A key is reserved before the issue is written so concurrent retries
// cannot both create one.
type IdempotencyStore interface {
	// Reserve claims key for a create about to run. When the key is already
	// taken it reports the issue recorded for it, or 0 while that create is
	// still in flight.
	Reserve(ctx context.Context, actorID int64, key string) (issueID int64, reserved bool, err error)
	// Complete records the issue created under a reserved key.
	Complete(ctx context.Context, actorID int64, key string, issueID int64) error
	// Release drops a reservation whose create failed.
	Release(ctx context.Context, actorID int64, key string) error
}
