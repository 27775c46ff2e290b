package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns every genre known to the directory, ordered by title",
		Tags:        []string{"Taxonomy"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSubgenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{title}/subgenres",
		Summary:     "List subgenres",
		Description: "Returns the subgenres of a genre, looked up by title case-insensitively",
		Tags:        []string{"Taxonomy"},
	}, s.handleListSubgenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "listVenues",
		Method:      http.MethodGet,
		Path:        "/api/v1/venues",
		Summary:     "List venues",
		Description: "Returns every venue known to the directory, ordered by name",
		Tags:        []string{"Taxonomy"},
	}, s.handleListVenues)
}

// === DTOs ===

// GenreResponse contains one genre.
type GenreResponse struct {
	ID    string `json:"id" doc:"Genre ID"`
	Title string `json:"title" doc:"Canonical genre title"`
}

// ListGenresResponse contains all genres.
type ListGenresResponse struct {
	Genres []GenreResponse `json:"genres" doc:"Genres ordered by title"`
}

// ListGenresOutput wraps the genre list for Huma.
type ListGenresOutput struct {
	Body ListGenresResponse
}

// ListSubgenresInput identifies the parent genre by title.
type ListSubgenresInput struct {
	Title string `path:"title" doc:"Genre title"`
}

// SubgenreResponse contains one subgenre.
type SubgenreResponse struct {
	ID       string `json:"id" doc:"Subgenre ID"`
	Subtitle string `json:"subtitle" doc:"Canonical subgenre title"`
}

// ListSubgenresResponse contains a genre's subgenres.
type ListSubgenresResponse struct {
	Subgenres []SubgenreResponse `json:"subgenres" doc:"Subgenres ordered by title"`
}

// ListSubgenresOutput wraps the subgenre list for Huma.
type ListSubgenresOutput struct {
	Body ListSubgenresResponse
}

// VenueResponse contains one venue.
type VenueResponse struct {
	ID        string `json:"id" doc:"Venue ID"`
	Venuename string `json:"venuename" doc:"Canonical venue name"`
}

// ListVenuesResponse contains all venues.
type ListVenuesResponse struct {
	Venues []VenueResponse `json:"venues" doc:"Venues ordered by name"`
}

// ListVenuesOutput wraps the venue list for Huma.
type ListVenuesOutput struct {
	Body ListVenuesResponse
}

// === Handlers ===

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ListGenresOutput, error) {
	genres, err := s.services.Genre.ListGenres(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListGenresResponse{Genres: make([]GenreResponse, 0, len(genres))}
	for _, g := range genres {
		resp.Genres = append(resp.Genres, GenreResponse{ID: g.ID, Title: g.Title})
	}
	return &ListGenresOutput{Body: resp}, nil
}

func (s *Server) handleListSubgenres(ctx context.Context, input *ListSubgenresInput) (*ListSubgenresOutput, error) {
	subgenres, err := s.services.Genre.ListSubgenres(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	resp := ListSubgenresResponse{Subgenres: make([]SubgenreResponse, 0, len(subgenres))}
	for _, sg := range subgenres {
		resp.Subgenres = append(resp.Subgenres, SubgenreResponse{ID: sg.ID, Subtitle: sg.Subtitle})
	}
	return &ListSubgenresOutput{Body: resp}, nil
}

func (s *Server) handleListVenues(ctx context.Context, _ *struct{}) (*ListVenuesOutput, error) {
	venues, err := s.services.Genre.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListVenuesResponse{Venues: make([]VenueResponse, 0, len(venues))}
	for _, v := range venues {
		resp.Venues = append(resp.Venues, VenueResponse{ID: v.ID, Venuename: v.Venuename})
	}
	return &ListVenuesOutput{Body: resp}, nil
}
