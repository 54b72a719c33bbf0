package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signed(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "7",
		"username": "alice",
		"roles":    []string{"ADMIN", "USER"},
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, []byte("secret"))

	rec, c, called := runAuth(t, "Bearer "+token)
	if !called {
		t.Fatalf("next not called, status %d", rec.Code)
	}
	if c.Get("user_id") != int64(7) {
		t.Fatalf("user_id not set: %v", c.Get("user_id"))
	}
	if c.Get("username") != "alice" {
		t.Fatalf("username not set")
	}
	roles, _ := c.Get("roles").([]string)
	if len(roles) != 2 || roles[0] != "ADMIN" {
		t.Fatalf("roles not set: %v", roles)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7", "exp": time.Now().Add(-time.Hour).Unix(),
	}, []byte("secret"))
	wrongKey := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7"}, []byte("other"))
	noSubject := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"username": "alice"}, []byte("secret"))
	badSubject := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}, []byte("secret"))
	wrongAlg := signed(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "7"}, []byte("secret"))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSubject},
		{"non-numeric subject", "Bearer " + badSubject},
		{"wrong algorithm", "Bearer " + wrongAlg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runAuth(t, tt.header)
			if called {
				t.Fatal("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
