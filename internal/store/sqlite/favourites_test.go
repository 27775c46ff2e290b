package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/id"
	"github.com/spinlist/spinlist-server/internal/store"
)

func newTestUser(t *testing.T, s *Store, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		PasswordHash: "x",
	}
	u.ID = id.MustGenerate("user")
	u.InitTimestamps()
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func newFavourite(userID, djID string) *domain.Favourite {
	return &domain.Favourite{
		ID:        id.MustGenerate("fav"),
		UserID:    userID,
		DjID:      djID,
		CreatedAt: time.Now(),
	}
}

func TestFavourites_AddListRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "robin")
	a := newDj("Sherelle", "London")
	b := newDj("Ben UFO", "London")
	mustCreateDj(t, s, &store.DjAggregate{Dj: a})
	mustCreateDj(t, s, &store.DjAggregate{Dj: b})

	if err := s.AddFavourite(ctx, newFavourite(u.ID, b.ID)); err != nil {
		t.Fatalf("add favourite: %v", err)
	}
	if err := s.AddFavourite(ctx, newFavourite(u.ID, a.ID)); err != nil {
		t.Fatalf("add favourite: %v", err)
	}

	// Storage order, not alphabetical.
	djs, err := s.ListFavouriteDjs(ctx, u.ID)
	if err != nil {
		t.Fatalf("list favourites: %v", err)
	}
	if len(djs) != 2 {
		t.Fatalf("expected 2 favourites, got %d", len(djs))
	}
	if djs[0].Name != "Ben UFO" || djs[1].Name != "Sherelle" {
		t.Errorf("favourites not in insertion order: %s, %s", djs[0].Name, djs[1].Name)
	}

	if err := s.RemoveFavourite(ctx, u.ID, b.ID); err != nil {
		t.Fatalf("remove favourite: %v", err)
	}
	djs, err = s.ListFavouriteDjs(ctx, u.ID)
	if err != nil {
		t.Fatalf("list favourites: %v", err)
	}
	if len(djs) != 1 || djs[0].Name != "Sherelle" {
		t.Errorf("unexpected favourites after remove: %+v", djs)
	}
}

func TestAddFavourite_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "robin")
	d := newDj("Sherelle", "London")
	mustCreateDj(t, s, &store.DjAggregate{Dj: d})

	if err := s.AddFavourite(ctx, newFavourite(u.ID, d.ID)); err != nil {
		t.Fatalf("add favourite: %v", err)
	}
	err := s.AddFavourite(ctx, newFavourite(u.ID, d.ID))
	if !store.IsAlreadyExists(err) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRemoveFavourite_Missing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "robin")
	d := newDj("Sherelle", "London")
	mustCreateDj(t, s, &store.DjAggregate{Dj: d})

	err := s.RemoveFavourite(ctx, u.ID, d.ID)
	if !store.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFavourites_CascadeOnDjDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser(t, s, "robin")
	d := newDj("Sherelle", "London")
	mustCreateDj(t, s, &store.DjAggregate{Dj: d})

	if err := s.AddFavourite(ctx, newFavourite(u.ID, d.ID)); err != nil {
		t.Fatalf("add favourite: %v", err)
	}
	if err := s.DeleteDj(ctx, d.ID); err != nil {
		t.Fatalf("delete dj: %v", err)
	}

	djs, err := s.ListFavouriteDjs(ctx, u.ID)
	if err != nil {
		t.Fatalf("list favourites: %v", err)
	}
	if len(djs) != 0 {
		t.Errorf("favourite survived dj delete: %+v", djs)
	}
}
