package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/service"
)

func (s *Server) registerDjRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createDj",
		Method:      http.MethodPost,
		Path:        "/api/v1/djs",
		Summary:     "Create DJ",
		Description: "Creates a DJ profile with its genre, subgenre, and venue associations. Names are normalized and deduplicated before storage.",
		Tags:        []string{"DJs"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleCreateDj)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDjs",
		Method:      http.MethodGet,
		Path:        "/api/v1/djs",
		Summary:     "List DJs",
		Description: "Returns DJ profiles ordered by name, optionally filtered by a name substring",
		Tags:        []string{"DJs"},
	}, s.handleListDjs)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchDjs",
		Method:      http.MethodGet,
		Path:        "/api/v1/djs/search",
		Summary:     "Search DJs",
		Description: "Full-text search over DJ names, cities, genres, subgenres, and venues",
		Tags:        []string{"DJs"},
	}, s.handleSearchDjs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDj",
		Method:      http.MethodGet,
		Path:        "/api/v1/djs/{id}",
		Summary:     "Get DJ",
		Description: "Returns a DJ profile with all its associations",
		Tags:        []string{"DJs"},
	}, s.handleGetDj)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDj",
		Method:      http.MethodPatch,
		Path:        "/api/v1/djs/{id}",
		Summary:     "Update DJ",
		Description: "Partially updates a DJ profile. Association lists replace the existing set when present. Admin only.",
		Tags:        []string{"DJs"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleUpdateDj)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteDj",
		Method:      http.MethodDelete,
		Path:        "/api/v1/djs/{id}",
		Summary:     "Delete DJ",
		Description: "Deletes a DJ profile and its associations. Admin only.",
		Tags:        []string{"DJs"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteDj)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadDjPicture",
		Method:       http.MethodPost,
		Path:         "/api/v1/djs/{id}/picture",
		Summary:      "Upload DJ picture",
		Description:  "Uploads a profile picture for a DJ",
		Tags:         []string{"DJs"},
		Security:     []map[string][]string{{"session": {}}},
		MaxBodyBytes: MaxUploadSize,
	}, s.handleUploadDjPicture)
}

// === DTOs ===

// DjResponse contains a denormalized DJ profile.
type DjResponse struct {
	ID          string              `json:"id" doc:"DJ ID"`
	Name        string              `json:"name" doc:"DJ name"`
	Produces    bool                `json:"produces" doc:"Whether the DJ also produces"`
	City        string              `json:"city" doc:"Home city"`
	PicturePath string              `json:"picture_path,omitempty" doc:"Profile picture path"`
	BlurHash    string              `json:"blur_hash,omitempty" doc:"Profile picture BlurHash"`
	Genres      []string            `json:"genres" doc:"Genres the DJ's subgenres belong to"`
	AllGenres   []string            `json:"all_genres" doc:"Directly associated genres"`
	Subgenres   map[string][]string `json:"subgenres" doc:"Subgenres grouped by genre"`
	Venues      []string            `json:"venues" doc:"Venues the DJ has played"`
}

// DjOutput wraps a single DJ response for Huma.
type DjOutput struct {
	Body DjResponse
}

// CreateDjInput wraps the create request for Huma.
type CreateDjInput struct {
	Body service.CreateDjRequest
}

// ListDjsInput carries the optional name filter.
type ListDjsInput struct {
	Search string `query:"search" doc:"Name substring filter, case-insensitive"`
}

// ListDjsResponse contains DJ profiles.
type ListDjsResponse struct {
	Djs []DjResponse `json:"djs" doc:"DJ profiles"`
}

// ListDjsOutput wraps the DJ list for Huma.
type ListDjsOutput struct {
	Body ListDjsResponse
}

// GetDjInput identifies a DJ by ID.
type GetDjInput struct {
	ID string `path:"id" doc:"DJ ID"`
}

// UpdateDjInput wraps the partial update request for Huma.
type UpdateDjInput struct {
	ID   string `path:"id" doc:"DJ ID"`
	Body service.UpdateDjRequest
}

// UploadDjPictureInput carries raw image bytes for a DJ.
type UploadDjPictureInput struct {
	ID          string `path:"id" doc:"DJ ID"`
	ContentType string `header:"Content-Type" doc:"Image content type"`
	RawBody     []byte
}

// SearchDjsInput carries full-text search parameters.
type SearchDjsInput struct {
	Query  string `query:"q" doc:"Search query"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum hits to return"`
	Offset int    `query:"offset" minimum:"0" doc:"Hits to skip"`
}

// SearchHitResponse is one full-text search hit.
type SearchHitResponse struct {
	ID    string  `json:"id" doc:"DJ ID"`
	Score float64 `json:"score" doc:"Relevance score"`
	Name  string  `json:"name" doc:"DJ name"`
	City  string  `json:"city" doc:"Home city"`
}

// SearchDjsResponse contains full-text search results.
type SearchDjsResponse struct {
	Query  string              `json:"query" doc:"The query that was run"`
	Total  uint64              `json:"total" doc:"Total matching documents"`
	TookMs int64               `json:"took_ms" doc:"Query duration in milliseconds"`
	Hits   []SearchHitResponse `json:"hits" doc:"Matching DJs"`
}

// SearchDjsOutput wraps search results for Huma.
type SearchDjsOutput struct {
	Body SearchDjsResponse
}

// === Handlers ===

func (s *Server) handleCreateDj(ctx context.Context, input *CreateDjInput) (*DjOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	view, err := s.services.Dj.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &DjOutput{Body: mapDjView(view)}, nil
}

func (s *Server) handleListDjs(ctx context.Context, input *ListDjsInput) (*ListDjsOutput, error) {
	views, err := s.services.Dj.List(ctx, input.Search)
	if err != nil {
		return nil, err
	}

	resp := ListDjsResponse{Djs: make([]DjResponse, 0, len(views))}
	for _, view := range views {
		resp.Djs = append(resp.Djs, mapDjView(view))
	}
	return &ListDjsOutput{Body: resp}, nil
}

func (s *Server) handleGetDj(ctx context.Context, input *GetDjInput) (*DjOutput, error) {
	view, err := s.services.Dj.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &DjOutput{Body: mapDjView(view)}, nil
}

func (s *Server) handleUpdateDj(ctx context.Context, input *UpdateDjInput) (*DjOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	view, err := s.services.Dj.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &DjOutput{Body: mapDjView(view)}, nil
}

func (s *Server) handleDeleteDj(ctx context.Context, input *GetDjInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Dj.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "DJ deleted"}}, nil
}

func (s *Server) handleUploadDjPicture(ctx context.Context, input *UploadDjPictureInput) (*DjOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	view, err := s.services.Dj.UploadPicture(ctx, input.ID, input.RawBody, input.ContentType)
	if err != nil {
		return nil, err
	}
	return &DjOutput{Body: mapDjView(view)}, nil
}

func (s *Server) handleSearchDjs(ctx context.Context, input *SearchDjsInput) (*SearchDjsOutput, error) {
	result, err := s.services.Dj.Search(ctx, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	resp := SearchDjsResponse{
		Query:  result.Query,
		Total:  result.Total,
		TookMs: result.TookMs,
		Hits:   make([]SearchHitResponse, 0, len(result.Hits)),
	}
	for _, hit := range result.Hits {
		resp.Hits = append(resp.Hits, SearchHitResponse{
			ID:    hit.ID,
			Score: hit.Score,
			Name:  hit.Name,
			City:  hit.City,
		})
	}
	return &SearchDjsOutput{Body: resp}, nil
}

// === Helpers ===

func mapDjView(view *domain.DjView) DjResponse {
	return DjResponse{
		ID:          view.ID,
		Name:        view.Name,
		Produces:    view.Produces,
		City:        view.City,
		PicturePath: view.PicturePath,
		BlurHash:    view.BlurHash,
		Genres:      view.Genres,
		AllGenres:   view.AllGenres,
		Subgenres:   view.Subgenres,
		Venues:      view.Venues,
	}
}
