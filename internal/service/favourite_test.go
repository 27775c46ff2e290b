package service

import (
	"context"
	"testing"

	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
)

func TestFavourites_AddListRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Signup(ctx, SignupRequest{Username: "selector", Password: "password123"}, false)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	userID := resp.User.ID

	first, err := env.djs.Create(ctx, CreateDjRequest{Name: "Sherelle", City: "London"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := env.djs.Create(ctx, CreateDjRequest{Name: "Objekt", City: "Berlin"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := env.favourites.Add(ctx, userID, second.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := env.favourites.Add(ctx, userID, first.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	views, err := env.favourites.List(ctx, userID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("List() = %d favourites, want 2", len(views))
	}
	// Favourites come back in the order they were added.
	if views[0].ID != second.ID || views[1].ID != first.ID {
		t.Errorf("List() order = [%s %s], want [%s %s]", views[0].ID, views[1].ID, second.ID, first.ID)
	}

	if err := env.favourites.Remove(ctx, userID, second.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	views, err = env.favourites.List(ctx, userID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 || views[0].ID != first.ID {
		t.Errorf("List() after remove = %v", views)
	}
}

func TestFavourites_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Signup(ctx, SignupRequest{Username: "selector", Password: "password123"}, false)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	userID := resp.User.ID

	dj, err := env.djs.Create(ctx, CreateDjRequest{Name: "Sherelle", City: "London"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := env.favourites.Add(ctx, userID, "dj-missing"); !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Add(missing dj) error = %v, want ErrNotFound", err)
	}

	if err := env.favourites.Add(ctx, userID, dj.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := env.favourites.Add(ctx, userID, dj.ID); !domainerrors.Is(err, domainerrors.ErrAlreadyFavourited) {
		t.Errorf("Add() twice error = %v, want ErrAlreadyFavourited", err)
	}

	if err := env.favourites.Remove(ctx, userID, "dj-missing"); !domainerrors.Is(err, domainerrors.ErrNotFavourited) {
		t.Errorf("Remove(missing) error = %v, want ErrNotFavourited", err)
	}
}

func TestUserDelete_Permissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, err := env.auth.Signup(ctx, SignupRequest{Username: "admin", Password: "password123", IsAdmin: true}, false)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	other, err := env.auth.Signup(ctx, SignupRequest{Username: "punter", Password: "password123"}, false)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	deputy, err := env.auth.Signup(ctx, SignupRequest{Username: "deputy", Password: "password123", IsAdmin: true}, true)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// A non-admin cannot delete anyone else.
	if err := env.users.Delete(ctx, other.User, "admin"); !domainerrors.Is(err, domainerrors.ErrForbidden) {
		t.Errorf("Delete() by non-admin error = %v, want ErrForbidden", err)
	}

	// Admins cannot delete other admins.
	if err := env.users.Delete(ctx, admin.User, deputy.User.ID); !domainerrors.Is(err, domainerrors.ErrForbidden) {
		t.Errorf("Delete() admin-on-admin error = %v, want ErrForbidden", err)
	}

	// Admins delete regular users; lookup works by username too.
	if err := env.users.Delete(ctx, admin.User, "punter"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := env.users.Get(ctx, other.User.ID); !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	// Anyone may delete themselves.
	if err := env.users.Delete(ctx, deputy.User, deputy.User.ID); err != nil {
		t.Errorf("self Delete() error = %v", err)
	}
}
