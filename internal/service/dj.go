package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spinlist/spinlist-server/internal/domain"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
	"github.com/spinlist/spinlist-server/internal/id"
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/normalize"
	"github.com/spinlist/spinlist-server/internal/search"
	"github.com/spinlist/spinlist-server/internal/store"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// DjService handles DJ profile aggregates: creation, querying, updates,
// deletion, search indexing, and profile pictures.
type DjService struct {
	store    *sqlite.Store
	index    *search.Index
	pictures *images.Processor
	logger   *slog.Logger
}

// NewDjService creates a new DJ service.
func NewDjService(store *sqlite.Store, index *search.Index, pictures *images.Processor, logger *slog.Logger) *DjService {
	return &DjService{
		store:    store,
		index:    index,
		pictures: pictures,
		logger:   logger,
	}
}

// CreateDjRequest carries the free-form profile input. Genre, subgenre,
// and venue names arrive as the user typed them and are normalized here.
type CreateDjRequest struct {
	Name      string              `json:"name" validate:"required,max=120" doc:"DJ name"`
	Produces  bool                `json:"produces,omitempty" doc:"Whether the DJ also produces"`
	City      string              `json:"city" validate:"required,max=120" doc:"Home city"`
	Genres    []string            `json:"genres,omitempty" doc:"Genre names, normalized on write"`
	Subgenres map[string][]string `json:"subgenres,omitempty" doc:"Subgenre names grouped by genre"`
	Venues    []string            `json:"venues,omitempty" doc:"Venue names, normalized on write"`
}

// UpdateDjRequest carries a partial profile update. Nil fields keep their
// current values; a present-but-empty list clears that association type.
type UpdateDjRequest struct {
	Name      *string              `json:"name,omitempty" validate:"omitempty,min=1,max=120" doc:"DJ name"`
	Produces  *bool                `json:"produces,omitempty" doc:"Whether the DJ also produces"`
	City      *string              `json:"city,omitempty" validate:"omitempty,min=1,max=120" doc:"Home city"`
	Genres    *[]string            `json:"genres,omitempty" doc:"Replacement genre list"`
	Subgenres *map[string][]string `json:"subgenres,omitempty" doc:"Replacement subgenre map"`
	Venues    *[]string            `json:"venues,omitempty" doc:"Replacement venue list"`
}

// Create normalizes the request and builds the DJ aggregate atomically.
func (s *DjService) Create(ctx context.Context, req CreateDjRequest) (*domain.DjView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	name := strings.TrimSpace(req.Name)
	city := strings.TrimSpace(req.City)
	if name == "" {
		return nil, domainerrors.Validation("name is required")
	}
	if city == "" {
		return nil, domainerrors.Validation("city is required")
	}

	djID, err := id.Generate("dj")
	if err != nil {
		return nil, fmt.Errorf("generate dj ID: %w", err)
	}

	dj := &domain.Dj{
		Name:     name,
		Produces: req.Produces,
		City:     city,
	}
	dj.ID = djID
	dj.InitTimestamps()

	agg := &store.DjAggregate{Dj: dj}
	agg.Genres, agg.Subgenres = normalizeGenres(req.Genres, req.Subgenres)
	agg.Venues = normalizeVenues(req.Venues)

	if err := s.store.CreateDjAggregate(ctx, agg); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.DuplicateDjf("a DJ named %q already exists in %s", name, city).
				WithDetails(map[string]string{"name": name, "city": city})
		}
		return nil, fmt.Errorf("create dj: %w", err)
	}

	view, err := s.view(ctx, dj)
	if err != nil {
		return nil, err
	}
	s.indexView(view, dj.UpdatedAt.UnixMilli())

	s.logger.Info("dj created", "dj_id", djID, "name", name, "city", city)
	return view, nil
}

// Get returns the denormalized view of one DJ.
func (s *DjService) Get(ctx context.Context, djID string) (*domain.DjView, error) {
	dj, err := s.store.GetDj(ctx, djID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("dj %q not found", djID)
		}
		return nil, fmt.Errorf("get dj: %w", err)
	}
	return s.view(ctx, dj)
}

// List returns DJ views ordered by name. A non-empty search term filters
// to names containing it, case-insensitively.
func (s *DjService) List(ctx context.Context, searchTerm string) ([]*domain.DjView, error) {
	djs, err := s.store.ListDjs(ctx, strings.TrimSpace(searchTerm))
	if err != nil {
		return nil, fmt.Errorf("list djs: %w", err)
	}

	views := make([]*domain.DjView, 0, len(djs))
	for _, dj := range djs {
		view, err := s.view(ctx, dj)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Update applies a partial update. Scalar fields change only when set.
// Association lists replace the existing set wholesale when present, so
// an empty list clears that association type; nil keeps the current set.
func (s *DjService) Update(ctx context.Context, djID string, req UpdateDjRequest) (*domain.DjView, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	dj, err := s.store.GetDj(ctx, djID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("dj %q not found", djID)
		}
		return nil, fmt.Errorf("get dj: %w", err)
	}

	assoc, err := s.store.GetDjAssociations(ctx, djID)
	if err != nil {
		return nil, fmt.Errorf("get dj associations: %w", err)
	}

	if req.Name != nil {
		dj.Name = strings.TrimSpace(*req.Name)
	}
	if req.Produces != nil {
		dj.Produces = *req.Produces
	}
	if req.City != nil {
		dj.City = strings.TrimSpace(*req.City)
	}
	dj.Touch()

	// Start from the stored association titles and overlay whatever the
	// request replaces.
	rawGenres := make([]string, 0, len(assoc.Genres))
	for _, g := range assoc.Genres {
		rawGenres = append(rawGenres, g.Title)
	}
	rawSubgenres := make(map[string][]string)
	for _, sg := range assoc.Subgenres {
		rawSubgenres[sg.GenreTitle] = append(rawSubgenres[sg.GenreTitle], sg.Subtitle)
	}
	rawVenues := make([]string, 0, len(assoc.Venues))
	for _, v := range assoc.Venues {
		rawVenues = append(rawVenues, v.Venuename)
	}

	if req.Genres != nil {
		rawGenres = *req.Genres
	}
	if req.Subgenres != nil {
		rawSubgenres = *req.Subgenres
	}
	if req.Venues != nil {
		rawVenues = *req.Venues
	}

	agg := &store.DjAggregate{Dj: dj}
	agg.Genres, agg.Subgenres = normalizeGenres(rawGenres, rawSubgenres)
	agg.Venues = normalizeVenues(rawVenues)

	if err := s.store.UpdateDjAggregate(ctx, agg); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.DuplicateDjf("a DJ named %q already exists in %s", dj.Name, dj.City)
		}
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("dj %q not found", djID)
		}
		return nil, fmt.Errorf("update dj: %w", err)
	}

	view, err := s.view(ctx, dj)
	if err != nil {
		return nil, err
	}
	s.indexView(view, dj.UpdatedAt.UnixMilli())

	s.logger.Info("dj updated", "dj_id", djID)
	return view, nil
}

// Delete removes a DJ profile, its search document, and its picture.
func (s *DjService) Delete(ctx context.Context, djID string) error {
	dj, err := s.store.GetDj(ctx, djID)
	if err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFoundf("dj %q not found", djID)
		}
		return fmt.Errorf("get dj: %w", err)
	}

	if err := s.store.DeleteDj(ctx, djID); err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFoundf("dj %q not found", djID)
		}
		return fmt.Errorf("delete dj: %w", err)
	}

	if err := s.index.DeleteDocument(djID); err != nil {
		s.logger.Warn("failed to remove search document", "dj_id", djID, "error", err)
	}
	if dj.PicturePath != "" {
		if err := s.pictures.Remove(dj.PicturePath); err != nil {
			s.logger.Warn("failed to remove profile image", "dj_id", djID, "error", err)
		}
	}

	s.logger.Info("dj deleted", "dj_id", djID)
	return nil
}

// UploadPicture stores a new profile image for the DJ and replaces any
// previous one.
func (s *DjService) UploadPicture(ctx context.Context, djID string, imgData []byte, contentType string) (*domain.DjView, error) {
	if len(imgData) == 0 {
		return nil, domainerrors.Validation("image data is empty")
	}
	if !images.SupportedContentType(contentType) {
		return nil, domainerrors.Validationf("unsupported image type %q", contentType)
	}

	dj, err := s.store.GetDj(ctx, djID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("dj %q not found", djID)
		}
		return nil, fmt.Errorf("get dj: %w", err)
	}

	picturePath, blurHash, err := s.pictures.Process(imgData, contentType)
	if err != nil {
		return nil, domainerrors.Validation("could not process image").WithCause(err)
	}

	if err := s.store.SetDjPicture(ctx, djID, picturePath, blurHash); err != nil {
		return nil, fmt.Errorf("set dj picture: %w", err)
	}

	if dj.PicturePath != "" {
		if err := s.pictures.Remove(dj.PicturePath); err != nil {
			s.logger.Warn("failed to remove old profile image", "dj_id", djID, "error", err)
		}
	}

	dj.PicturePath = picturePath
	dj.BlurHash = blurHash
	dj.Touch()
	return s.view(ctx, dj)
}

// Search runs a full-text query over the DJ index.
func (s *DjService) Search(ctx context.Context, query string, limit, offset int) (*search.Result, error) {
	params := search.DefaultParams()
	params.Query = strings.TrimSpace(query)
	if limit > 0 {
		params.Limit = limit
	}
	if offset > 0 {
		params.Offset = offset
	}
	return s.index.Search(ctx, params)
}

// Reindex rebuilds the search index from the store. Called at startup so
// the index catches up with any writes it missed.
func (s *DjService) Reindex(ctx context.Context) error {
	djs, err := s.store.ListDjs(ctx, "")
	if err != nil {
		return fmt.Errorf("list djs: %w", err)
	}

	docs := make([]*search.DjDocument, 0, len(djs))
	for _, dj := range djs {
		view, err := s.view(ctx, dj)
		if err != nil {
			return err
		}
		docs = append(docs, search.DjToDocument(view, dj.UpdatedAt.UnixMilli()))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}
	s.logger.Info("search index rebuilt", "documents", len(docs))
	return nil
}

// view builds the denormalized read model for a DJ row.
func (s *DjService) view(ctx context.Context, dj *domain.Dj) (*domain.DjView, error) {
	assoc, err := s.store.GetDjAssociations(ctx, dj.ID)
	if err != nil {
		return nil, fmt.Errorf("get dj associations: %w", err)
	}
	return buildView(dj, assoc), nil
}

// buildView assembles a DjView from a row and its associations.
//
// The genres list is derived from the subgenres' parent genres, in
// first-seen order; all_genres carries the direct genre associations.
// A genre with no subgenres therefore shows up only in all_genres.
func buildView(dj *domain.Dj, assoc *domain.DjAssociations) *domain.DjView {
	view := &domain.DjView{
		ID:          dj.ID,
		Name:        dj.Name,
		Produces:    dj.Produces,
		City:        dj.City,
		PicturePath: dj.PicturePath,
		BlurHash:    dj.BlurHash,
		Genres:      []string{},
		AllGenres:   []string{},
		Subgenres:   make(map[string][]string),
		Venues:      []string{},
	}

	for _, g := range assoc.Genres {
		view.AllGenres = append(view.AllGenres, g.Title)
	}

	seen := make(map[string]bool)
	for _, sg := range assoc.Subgenres {
		if !seen[sg.GenreTitle] {
			seen[sg.GenreTitle] = true
			view.Genres = append(view.Genres, sg.GenreTitle)
		}
		view.Subgenres[sg.GenreTitle] = append(view.Subgenres[sg.GenreTitle], sg.Subtitle)
	}

	for _, v := range assoc.Venues {
		view.Venues = append(view.Venues, v.Venuename)
	}

	return view
}

// indexView writes the DJ's search document, logging instead of failing
// the request when indexing breaks.
func (s *DjService) indexView(view *domain.DjView, updatedAtMillis int64) {
	if err := s.index.IndexDocument(search.DjToDocument(view, updatedAtMillis)); err != nil {
		s.logger.Warn("failed to index dj", "dj_id", view.ID, "error", err)
	}
}

// normalizeGenres canonicalizes genre titles and the subgenre map.
// Duplicate genres collapse onto their first occurrence, blank entries
// are dropped, and subgenre map keys that do not resolve to a supplied
// genre are silently ignored.
func normalizeGenres(rawGenres []string, rawSubgenres map[string][]string) ([]string, map[string][]string) {
	genres := make([]string, 0, len(rawGenres))
	seen := make(map[string]bool)
	for _, raw := range rawGenres {
		title := normalize.Canonical(raw)
		if title == "" {
			continue
		}
		key := normalize.Key(title)
		if seen[key] {
			continue
		}
		seen[key] = true
		genres = append(genres, title)
	}

	subgenres := make(map[string][]string)
	for rawKey, rawSubs := range rawSubgenres {
		genreTitle := normalize.Canonical(rawKey)
		if genreTitle == "" || !seen[normalize.Key(genreTitle)] {
			continue
		}
		subSeen := make(map[string]bool)
		for _, existing := range subgenres[genreTitle] {
			subSeen[normalize.Key(existing)] = true
		}
		for _, rawSub := range rawSubs {
			subtitle := normalize.Canonical(rawSub)
			if subtitle == "" || subSeen[normalize.Key(subtitle)] {
				continue
			}
			subSeen[normalize.Key(subtitle)] = true
			subgenres[genreTitle] = append(subgenres[genreTitle], subtitle)
		}
	}

	return genres, subgenres
}

// normalizeVenues canonicalizes venue names, dropping blanks and duplicates.
func normalizeVenues(rawVenues []string) []string {
	venues := make([]string, 0, len(rawVenues))
	seen := make(map[string]bool)
	for _, raw := range rawVenues {
		name := normalize.TitleCase(raw)
		if name == "" {
			continue
		}
		key := normalize.Key(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		venues = append(venues, name)
	}
	return venues
}
