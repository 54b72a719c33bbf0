package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Errorf("expected default USER role, got %v", user.Roles)
	}

	stored := repo.byID[user.ID]
	if stored.PasswordHash == "pass123" {
		t.Fatal("password should be hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")) != nil {
		t.Fatal("stored hash does not match password")
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "x"})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "other@example.com", Password: "x"}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate username: expected ErrUserExists, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "x"}); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate email: expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", time.Hour)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Login_ByUsernameAndEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	registered, _ := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pass123"})

	for _, identifier := range []string{"alice", "alice@example.com"} {
		token, user, err := svc.Login(context.Background(), identifier, "pass123")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if user.ID != registered.ID {
			t.Errorf("unexpected user %+v", user)
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		})
		if err != nil || !parsed.Valid {
			t.Fatalf("token invalid: %v", err)
		}
		if claims["sub"] != "1" || claims["username"] != "alice" {
			t.Errorf("unexpected claims: %v", claims)
		}
		roles, _ := claims["roles"].([]any)
		if len(roles) != 1 || roles[0] != "USER" {
			t.Errorf("unexpected roles claim: %v", claims["roles"])
		}
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pass123"})

	cases := map[string][2]string{
		"wrong password": {"alice", "nope"},
		"unknown user":   {"bob", "pass123"},
		"unknown email":  {"bob@example.com", "pass123"},
		"empty":          {"", ""},
	}
	for name, creds := range cases {
		if _, _, err := svc.Login(context.Background(), creds[0], creds[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret", 0)
	if svc.tokenTTL != 24*time.Hour {
		t.Errorf("expected 24h default, got %v", svc.tokenTTL)
	}
}
