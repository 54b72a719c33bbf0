package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	actors *ActorResolver
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, actors: NewActorResolver(repo), logger: logger}
}

func (s *UserService) Get(ctx context.Context, id int64) (*ports.UserDetail, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDetail(u), nil
}

func (s *UserService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	req := normalizePage(page, limit, defaultPageSize)
	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	items := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		items = append(items, toUserSummary(u))
	}
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages(total, req.Limit),
	}, nil
}

// AssignRole grants role to a user. Administrators only.
func (s *UserService) AssignRole(ctx context.Context, actorID, userID int64, role domain.Role) (*ports.UserDetail, error) {
	return s.changeRoles(ctx, actorID, userID, role, domain.RoleSet.Add)
}

// RemoveRole revokes role from a user. Administrators only.
func (s *UserService) RemoveRole(ctx context.Context, actorID, userID int64, role domain.Role) (*ports.UserDetail, error) {
	return s.changeRoles(ctx, actorID, userID, role, domain.RoleSet.Remove)
}

func (s *UserService) changeRoles(ctx context.Context, actorID, userID int64, role domain.Role, apply func(domain.RoleSet, domain.Role)) (*ports.UserDetail, error) {
	role, ok := domain.ParseRole(string(role))
	if !ok {
		return nil, &domain.ValidationError{Field: "role", Message: "unknown role"}
	}

	actor, err := s.actors.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, domain.Denied("only administrators can manage roles")
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Roles == nil {
		u.Roles = domain.NewRoleSet()
	}
	apply(u.Roles, role)

	if err := s.repo.UpdateRoles(ctx, u.ID, u.Roles); err != nil {
		return nil, fmt.Errorf("update roles: %w", err)
	}

	s.logger.Info().Int64("user_id", u.ID).Int64("actor_id", actor.ID).Str("role", string(role)).Msg("user roles changed")
	return toUserDetail(u), nil
}
