package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spinlist/spinlist-server/internal/domain"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
	"github.com/spinlist/spinlist-server/internal/store"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// GenreService exposes read access to the genre, subgenre, and venue
// taxonomy accumulated from DJ profiles.
type GenreService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewGenreService creates a new genre service.
func NewGenreService(store *sqlite.Store, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:  store,
		logger: logger,
	}
}

// ListGenres returns every known genre, ordered by title.
func (s *GenreService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// ListSubgenres returns the subgenres of one genre, looked up by title
// case-insensitively.
func (s *GenreService) ListSubgenres(ctx context.Context, genreTitle string) ([]*domain.Subgenre, error) {
	genre, err := s.store.GetGenreByTitle(ctx, genreTitle)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("genre %q not found", genreTitle)
		}
		return nil, fmt.Errorf("get genre: %w", err)
	}

	subgenres, err := s.store.ListSubgenres(ctx, genre.ID)
	if err != nil {
		return nil, fmt.Errorf("list subgenres: %w", err)
	}
	return subgenres, nil
}

// ListVenues returns every known venue, ordered by name.
func (s *GenreService) ListVenues(ctx context.Context) ([]*domain.Venue, error) {
	venues, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}
