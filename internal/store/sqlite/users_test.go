package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/id"
	"github.com/spinlist/spinlist-server/internal/store"
)

func newTestUserStruct(username string) *domain.User {
	u := &domain.User{
		Username:     username,
		PasswordHash: "x",
	}
	u.ID = id.MustGenerate("user")
	u.InitTimestamps()
	return u
}

func newTestSession(userID string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id.MustGenerate("session"),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestCreateUser_DuplicateUsernameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newTestUser(t, s, "Robin")

	dup := newTestUserStruct("ROBIN")
	err := s.CreateUser(ctx, dup)
	if !store.IsAlreadyExists(err) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "Robin")

	got, err := s.GetUserByUsername(ctx, "  robin ")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("expected user %s, got %s", u.ID, got.ID)
	}
	if got.Username != "Robin" {
		t.Errorf("original casing should be preserved, got %q", got.Username)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !store.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_CascadesSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "robin")
	sess := newTestSession(u.ID)
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := s.GetSession(ctx, sess.ID); !store.IsNotFound(err) {
		t.Errorf("session survived user delete: %v", err)
	}
}

func TestSetUserPicture(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "robin")
	if err := s.SetUserPicture(ctx, u.ID, "user-profiles/abc.jpg", "LEHV6nWB"); err != nil {
		t.Fatalf("set picture: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.PicturePath != "user-profiles/abc.jpg" || got.BlurHash != "LEHV6nWB" {
		t.Errorf("picture not persisted: %+v", got)
	}

	// Clearing writes NULLs back.
	if err := s.SetUserPicture(ctx, u.ID, "", ""); err != nil {
		t.Fatalf("clear picture: %v", err)
	}
	got, _ = s.GetUser(ctx, u.ID)
	if got.PicturePath != "" || got.BlurHash != "" {
		t.Errorf("picture not cleared: %+v", got)
	}

	if err := s.SetUserPicture(ctx, "user-missing", "x", "y"); !store.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
