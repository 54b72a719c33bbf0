package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
users:
  - username: alice
    email: alice@example.com
    password: wonderland1
    roles: [USER]
  - username: root
    email: root@example.com
    password: toor-toor
    roles: [ADMIN, USER]
`

func TestDecode(t *testing.T) {
	users, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[1].Username != "root" || len(users[1].Roles) != 2 || users[1].Roles[0] != "ADMIN" {
		t.Errorf("unexpected second user: %+v", users[1])
	}
}

func TestDecode_Empty(t *testing.T) {
	users, err := Decode(strings.NewReader(""))
	if err != nil || users != nil {
		t.Errorf("expected no users and no error, got %v %v", users, err)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("users:\n  - username: a\n    email: a@b.c\n    nickname: x\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecode_MissingEmail(t *testing.T) {
	_, err := Decode(strings.NewReader("users:\n  - username: a\n"))
	if err == nil || !strings.Contains(err.Error(), "#1") {
		t.Fatalf("expected positional error, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	if users, err := Load(""); err != nil || users != nil {
		t.Errorf("empty path must be a no-op, got %v %v", users, err)
	}

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	users, err := Load(path)
	if err != nil || len(users) != 2 {
		t.Errorf("expected 2 users, got %d (%v)", len(users), err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
