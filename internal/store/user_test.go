package store

import (
	"errors"
	"testing"

	"github.com/pcqvix1/ecommerce/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func strptr(s string) *string { return &s }

func TestUserCreatePasswordAccount(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("ana@x.com", "Ana", strptr("$2a$fakehash"), false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "ana@x.com" {
		t.Errorf("email = %q, want %q", u.Email, "ana@x.com")
	}
	if u.Name != "Ana" {
		t.Errorf("name = %q, want %q", u.Name, "Ana")
	}
	if !u.HasPassword() {
		t.Error("expected account to have a password hash")
	}
	if u.GoogleLinked {
		t.Error("expected google_linked = false")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreatePasswordlessAccount(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("bia@x.com", "Bia", nil, true)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.HasPassword() {
		t.Error("expected no password hash")
	}
	if !u.GoogleLinked {
		t.Error("expected google_linked = true")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("ana@x.com", "Ana", strptr("h"), false); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := us.Create("ana@x.com", "Ana Two", strptr("h2"), false)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestUserEmailCaseInsensitive(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("Ana@X.com", "Ana", strptr("h"), false); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Lookup ignores case
	u, err := us.GetByEmail("ANA@x.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.Email != "ana@x.com" {
		t.Errorf("stored email = %q, want canonical lowercase", u.Email)
	}

	// The unique index enforces the same equivalence
	_, err = us.Create("aNa@x.Com", "Ana Two", strptr("h2"), false)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail for case variant", err)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByEmail("nobody@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent email")
	}
}

func TestUserSetGoogleLinked(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("ana@x.com", "Ana", strptr("h"), false); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := us.SetGoogleLinked("ana@x.com", true); err != nil {
		t.Fatalf("set google linked: %v", err)
	}

	u, err := us.GetByEmail("ana@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if !u.GoogleLinked {
		t.Error("expected google_linked = true after flip")
	}
	if !u.HasPassword() {
		t.Error("expected password hash to survive the mode flip")
	}
}

func TestUserUpdatePasswordHash(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("ana@x.com", "Ana", strptr("old"), false); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := us.UpdatePasswordHash("ana@x.com", "new"); err != nil {
		t.Fatalf("update password hash: %v", err)
	}

	u, err := us.GetByEmail("ana@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u.PasswordHash == nil || *u.PasswordHash != "new" {
		t.Errorf("password hash = %v, want %q", u.PasswordHash, "new")
	}
}
