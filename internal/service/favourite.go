package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spinlist/spinlist-server/internal/domain"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
	"github.com/spinlist/spinlist-server/internal/id"
	"github.com/spinlist/spinlist-server/internal/store"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// FavouriteService maintains each user's favourite DJ list.
type FavouriteService struct {
	store  *sqlite.Store
	djs    *DjService
	logger *slog.Logger
}

// NewFavouriteService creates a new favourites service.
func NewFavouriteService(store *sqlite.Store, djs *DjService, logger *slog.Logger) *FavouriteService {
	return &FavouriteService{
		store:  store,
		djs:    djs,
		logger: logger,
	}
}

// Add marks a DJ as a favourite of the user.
func (s *FavouriteService) Add(ctx context.Context, userID, djID string) error {
	if _, err := s.store.GetDj(ctx, djID); err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFoundf("dj %q not found", djID)
		}
		return fmt.Errorf("get dj: %w", err)
	}

	favID, err := id.Generate("fav")
	if err != nil {
		return fmt.Errorf("generate favourite ID: %w", err)
	}
	fav := &domain.Favourite{
		ID:        favID,
		UserID:    userID,
		DjID:      djID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.AddFavourite(ctx, fav); err != nil {
		if store.IsAlreadyExists(err) {
			return domainerrors.AlreadyFavourited("dj is already in favourites")
		}
		return fmt.Errorf("add favourite: %w", err)
	}

	s.logger.Info("favourite added", "user_id", userID, "dj_id", djID)
	return nil
}

// Remove takes a DJ off the user's favourite list.
func (s *FavouriteService) Remove(ctx context.Context, userID, djID string) error {
	if err := s.store.RemoveFavourite(ctx, userID, djID); err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFavourited("dj is not in favourites")
		}
		return fmt.Errorf("remove favourite: %w", err)
	}

	s.logger.Info("favourite removed", "user_id", userID, "dj_id", djID)
	return nil
}

// List returns the user's favourite DJs as full views, in the order they
// were favourited.
func (s *FavouriteService) List(ctx context.Context, userID string) ([]*domain.DjView, error) {
	djs, err := s.store.ListFavouriteDjs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}

	views := make([]*domain.DjView, 0, len(djs))
	for _, dj := range djs {
		view, err := s.djs.view(ctx, dj)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
