package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's account",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadMyPicture",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/picture",
		Summary:     "Upload profile picture",
		Description: "Uploads a new profile picture for the authenticated user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
		MaxBodyBytes: MaxUploadSize,
	}, s.handleUploadMyPicture)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMyPicture",
		Method:      http.MethodDelete,
		Path:        "/api/v1/me/picture",
		Summary:     "Delete profile picture",
		Description: "Removes the authenticated user's profile picture",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteMyPicture)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns all user accounts",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{identifier}",
		Summary:     "Get user",
		Description: "Returns a user account by ID or username",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{identifier}",
		Summary:     "Delete user",
		Description: "Deletes a user account. Users may delete themselves; admins may delete non-admin users.",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleDeleteUser)
}

// === DTOs ===

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// ListUsersResponse contains all user accounts.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"User accounts"`
}

// ListUsersOutput wraps the user list for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// GetUserInput identifies a user by ID or username.
type GetUserInput struct {
	Identifier string `path:"identifier" doc:"User ID or username"`
}

// UploadPictureInput carries raw image bytes.
type UploadPictureInput struct {
	ContentType string `header:"Content-Type" doc:"Image content type"`
	RawBody     []byte
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleUploadMyPicture(ctx context.Context, input *UploadPictureInput) (*UserOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.User.UploadPicture(ctx, user.ID, input.RawBody, input.ContentType)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(updated)}, nil
}

func (s *Server) handleDeleteMyPicture(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.DeletePicture(ctx, user.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Picture deleted"}}, nil
}

func (s *Server) handleListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	users, err := s.services.User.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, mapUser(u))
	}
	return &ListUsersOutput{Body: resp}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	user, err := s.services.User.Get(ctx, input.Identifier)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *GetUserInput) (*MessageOutput, error) {
	actor, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.Delete(ctx, actor, input.Identifier); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "User deleted"}}, nil
}
