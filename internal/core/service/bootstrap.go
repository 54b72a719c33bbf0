package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// SeedUser describes a user to create at startup if missing.
type SeedUser struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

// Bootstrapper prepares the initial data set: the administrator account and
// any users listed in the seed file.
type Bootstrapper struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewBootstrapper(repo ports.UserRepository, logger zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{repo: repo, logger: logger}
}

// EnsureAdmin creates the administrator if it does not exist, or grants the
// ADMIN role to an existing user of that name. An empty password skips creation.
func (b *Bootstrapper) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" {
		return nil
	}

	existing, err := b.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Roles.Has(domain.RoleAdmin) {
			return nil
		}
		if existing.Roles == nil {
			existing.Roles = domain.NewRoleSet()
		}
		existing.Roles.Add(domain.RoleAdmin)
		if err := b.repo.UpdateRoles(ctx, existing.ID, existing.Roles); err != nil {
			return fmt.Errorf("grant admin role: %w", err)
		}
		b.logger.Info().Str("username", username).Msg("admin role granted")
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("find admin: %w", err)
	}

	if password == "" {
		b.logger.Warn().Str("username", username).Msg("admin password not set, skipping admin creation")
		return nil
	}

	if _, err := createUser(ctx, b.repo, username, email, password, domain.NewRoleSet(domain.RoleAdmin, domain.RoleUser)); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	b.logger.Info().Str("username", username).Msg("admin user created")
	return nil
}

// Seed creates each listed user that does not exist yet. Existing users are left as they are.
func (b *Bootstrapper) Seed(ctx context.Context, users []SeedUser) (int, error) {
	created := 0
	for _, su := range users {
		roles := domain.NewRoleSet()
		for _, name := range su.Roles {
			r, ok := domain.ParseRole(name)
			if !ok {
				return created, fmt.Errorf("seed user %q: unknown role %q", su.Username, name)
			}
			roles.Add(r)
		}
		if len(roles) == 0 {
			roles.Add(domain.RoleUser)
		}

		_, err := createUser(ctx, b.repo, su.Username, su.Email, su.Password, roles)
		if errors.Is(err, domain.ErrUserExists) {
			b.logger.Debug().Str("username", su.Username).Msg("seed user exists, skipped")
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed user %q: %w", su.Username, err)
		}
		created++
	}
	return created, nil
}
