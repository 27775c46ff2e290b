package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spinlist/spinlist-server/internal/domain"
	"github.com/spinlist/spinlist-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Create account",
		Description: "Creates a new user account and starts a session. The first account may claim the admin role; afterwards only admins can create further admins.",
		Tags:        []string{"Authentication"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and sets the session cookie",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the current session and clears the session cookie",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/password",
		Summary:     "Change password",
		Description: "Changes the authenticated user's password and revokes all sessions",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"session": {}}},
	}, s.handleChangePassword)
}

// === DTOs ===

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" doc:"Username, unique case-insensitively"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Password"`
	IsAdmin  bool   `json:"is_admin,omitempty" doc:"Request the admin role"`
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body SignupRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required" doc:"Username"`
	Password string `json:"password" validate:"required,max=1024" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// UserResponse contains user information in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Username"`
	IsAdmin     bool      `json:"is_admin" doc:"Whether the user is an admin"`
	PicturePath string    `json:"picture_path,omitempty" doc:"Profile picture path"`
	BlurHash    string    `json:"blur_hash,omitempty" doc:"Profile picture BlurHash"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// AuthResponse contains the authenticated user and session expiry.
type AuthResponse struct {
	User      UserResponse `json:"user" doc:"Authenticated user"`
	ExpiresAt time.Time    `json:"expires_at" doc:"Session expiry"`
}

// AuthOutput wraps the auth response and sets the session cookie.
type AuthOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// ChangePasswordInput wraps the password change request for Huma.
type ChangePasswordInput struct {
	Body service.ChangePasswordRequest
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	actor := sessionUser(ctx)
	actorIsAdmin := actor != nil && actor.IsAdmin

	resp, err := s.services.Auth.Signup(ctx, service.SignupRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
		IsAdmin:  input.Body.IsAdmin,
	}, actorIsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		SetCookie: sessionCookie(resp.Token, resp.ExpiresAt),
		Body: AuthResponse{
			User:      mapUser(resp.User),
			ExpiresAt: resp.ExpiresAt,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		SetCookie: sessionCookie(resp.Token, resp.ExpiresAt),
		Body: AuthResponse{
			User:      mapUser(resp.User),
			ExpiresAt: resp.ExpiresAt,
		},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, getSessionID(ctx)); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: expiredSessionCookie(),
		Body:      MessageResponse{Message: "Logged out successfully"},
	}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*LogoutOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.ChangePassword(ctx, user.ID, input.Body); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: expiredSessionCookie(),
		Body:      MessageResponse{Message: "Password changed, please log in again"},
	}, nil
}

// === Helpers ===

// sessionCookie builds the session cookie for a fresh token.
func sessionCookie(token string, expiresAt time.Time) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredSessionCookie clears the session cookie on the client.
func expiredSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func mapUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		IsAdmin:     user.IsAdmin,
		PicturePath: user.PicturePath,
		BlurHash:    user.BlurHash,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
