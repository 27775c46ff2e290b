package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerFavouriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavourites",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/favourites",
		Summary:     "List favourites",
		Description: "Returns the authenticated user's favourite DJs in the order they were added",
		Tags:        []string{"Favourites"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleListFavourites)

	huma.Register(s.api, huma.Operation{
		OperationID: "addFavourite",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/favourites",
		Summary:     "Add favourite",
		Description: "Adds a DJ to the authenticated user's favourites",
		Tags:        []string{"Favourites"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleAddFavourite)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavourite",
		Method:      http.MethodDelete,
		Path:        "/api/v1/me/favourites/{djID}",
		Summary:     "Remove favourite",
		Description: "Removes a DJ from the authenticated user's favourites",
		Tags:        []string{"Favourites"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleRemoveFavourite)
}

// === DTOs ===

// AddFavouriteRequest identifies the DJ to favourite.
type AddFavouriteRequest struct {
	DjID string `json:"dj_id" validate:"required" doc:"DJ ID"`
}

// AddFavouriteInput wraps the favourite request for Huma.
type AddFavouriteInput struct {
	Body AddFavouriteRequest
}

// RemoveFavouriteInput identifies the favourite to remove.
type RemoveFavouriteInput struct {
	DjID string `path:"djID" doc:"DJ ID"`
}

// ListFavouritesResponse contains the user's favourite DJs.
type ListFavouritesResponse struct {
	Djs []DjResponse `json:"djs" doc:"Favourite DJs in insertion order"`
}

// ListFavouritesOutput wraps the favourites list for Huma.
type ListFavouritesOutput struct {
	Body ListFavouritesResponse
}

// === Handlers ===

func (s *Server) handleListFavourites(ctx context.Context, _ *struct{}) (*ListFavouritesOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Favourite.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := ListFavouritesResponse{Djs: make([]DjResponse, 0, len(views))}
	for _, view := range views {
		resp.Djs = append(resp.Djs, mapDjView(view))
	}
	return &ListFavouritesOutput{Body: resp}, nil
}

func (s *Server) handleAddFavourite(ctx context.Context, input *AddFavouriteInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Favourite.Add(ctx, user.ID, input.Body.DjID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Favourite added"}}, nil
}

func (s *Server) handleRemoveFavourite(ctx context.Context, input *RemoveFavouriteInput) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Favourite.Remove(ctx, user.ID, input.DjID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Favourite removed"}}, nil
}
