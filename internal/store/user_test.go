package store

import (
	"testing"

	"github.com/hyejinmo/pixelo/internal/database"
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

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("alice", "hash", "🦊")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Nickname != "alice" {
		t.Errorf("nickname = %q, want alice", u.Nickname)
	}
	if u.AvatarEmoji != "🦊" {
		t.Errorf("avatar = %q, want 🦊", u.AvatarEmoji)
	}
	if !u.IsPublic {
		t.Error("new users should default to public")
	}
}

func TestUserCreateDuplicateNickname(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("alice", "hash", "🦊"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := us.Create("alice", "other", "🐸"); err == nil {
		t.Fatal("expected error for duplicate nickname")
	}
}

func TestUserGetByNickname(t *testing.T) {
	us := setupUserTestDB(t)

	created, err := us.Create("alice", "hash", "🦊")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := us.GetByNickname("alice")
	if err != nil {
		t.Fatalf("get by nickname: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want id %d", u, created.ID)
	}

	missing, err := us.GetByNickname("nobody")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown nickname")
	}
}

func TestUserPasswordHash(t *testing.T) {
	us := setupUserTestDB(t)

	created, err := us.Create("alice", "secret-hash", "🦊")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, hash, err := us.PasswordHash("alice")
	if err != nil {
		t.Fatalf("password hash: %v", err)
	}
	if id != created.ID || hash != "secret-hash" {
		t.Errorf("got %d/%q", id, hash)
	}

	id, hash, err = us.PasswordHash("nobody")
	if err != nil {
		t.Fatalf("password hash missing: %v", err)
	}
	if id != 0 || hash != "" {
		t.Errorf("expected zero values for unknown user, got %d/%q", id, hash)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	us := setupUserTestDB(t)

	created, err := us.Create("alice", "hash", "🦊")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := us.UpdateProfile(created.ID, "🐼", "hello", false)
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if u.AvatarEmoji != "🐼" || u.Bio != "hello" || u.IsPublic {
		t.Errorf("profile = %+v", u)
	}
}

func TestUserSearch(t *testing.T) {
	us := setupUserTestDB(t)

	alice, err := us.Create("alice", "hash", "🦊")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := us.Create("alina", "hash", "🐸"); err != nil {
		t.Fatalf("create alina: %v", err)
	}
	hidden, err := us.Create("alfred", "hash", "🦉")
	if err != nil {
		t.Fatalf("create alfred: %v", err)
	}
	if _, err := us.UpdateProfile(hidden.ID, "🦉", "", false); err != nil {
		t.Fatalf("hide alfred: %v", err)
	}

	// matches exclude the searcher and private profiles
	results, err := us.Search("al", alice.ID, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Nickname != "alina" {
		t.Errorf("result = %q, want alina", results[0].Nickname)
	}
}
