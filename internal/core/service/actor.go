package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// ActorResolver turns the authenticated user id into an Actor with the
// roles currently stored for that user.
type ActorResolver struct {
	users ports.UserRepository
}

func NewActorResolver(users ports.UserRepository) *ActorResolver {
	return &ActorResolver{users: users}
}

// Resolve returns domain.ErrUnauthorized when the id no longer names a user.
func (r *ActorResolver) Resolve(ctx context.Context, userID int64) (domain.Actor, error) {
	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, fmt.Errorf("resolve actor %d: %w", userID, domain.ErrUnauthorized)
		}
		return domain.Actor{}, fmt.Errorf("resolve actor: %w", err)
	}
	return domain.ActorFromUser(u), nil
}

func toUserSummary(u *domain.User) ports.UserSummary {
	return ports.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toUserDetail(u *domain.User) *ports.UserDetail {
	return &ports.UserDetail{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     u.Roles.Slice(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// summariesByID loads the users named by ids and indexes their summaries.
// Ids with no stored user are absent from the result.
func summariesByID(ctx context.Context, users ports.UserRepository, ids ...int64) (map[int64]ports.UserSummary, error) {
	seen := make(map[int64]struct{}, len(ids))
	uniq := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	found, err := users.FindByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]ports.UserSummary, len(found))
	for _, u := range found {
		out[u.ID] = toUserSummary(u)
	}
	return out, nil
}

func summaryOrID(m map[int64]ports.UserSummary, id int64) ports.UserSummary {
	if s, ok := m[id]; ok {
		return s
	}
	return ports.UserSummary{ID: id}
}
