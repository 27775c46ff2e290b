package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spinlist/spinlist-server/internal/auth"
	"github.com/spinlist/spinlist-server/internal/domain"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
	"github.com/spinlist/spinlist-server/internal/id"
	"github.com/spinlist/spinlist-server/internal/store"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// AuthService handles signup, login, logout, and session verification.
type AuthService struct {
	store        *sqlite.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *sqlite.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	IsAdmin  bool   `json:"is_admin"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the authenticated user and their session token.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"-"` // Carried in the session cookie, not the body
	ExpiresAt time.Time    `json:"expires_at"`
}

// Signup creates a new user account and starts a session for it.
//
// The very first account may claim admin for itself (bootstrap); after
// that, only an admin actor can create further admin accounts.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest, actorIsAdmin bool) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	username := strings.TrimSpace(req.Username)

	if req.IsAdmin {
		count, err := s.store.CountUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		if count > 0 && !actorIsAdmin {
			return nil, domainerrors.Forbidden("only admins can create admin accounts")
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      req.IsAdmin,
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, domainerrors.AlreadyExistsf("username %q is already taken", username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", userID, "username", username, "is_admin", req.IsAdmin)
	return resp, nil
}

// Login verifies credentials and starts a session.
// Returns an invalid-credentials error for unknown usernames and wrong
// passwords alike.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	resp, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return resp, nil
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=1024"`
}

// ChangePassword verifies the current password, stores a new hash, and
// revokes every session for the user. The client must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return domainerrors.Unauthorized("user no longer exists")
		}
		return fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domainerrors.InvalidCredentials("current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hash
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// Logout revokes the session. Revoking an already-revoked session is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.store.DeleteSession(ctx, sessionID)
	if err != nil && !store.IsNotFound(err) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// VerifySession resolves a session token to its user. The session must
// decrypt, be present in the sessions table, and not be expired.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims, err := s.tokenService.VerifySessionToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid session")
	}

	sess, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil, domainerrors.Unauthorized("session revoked")
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if sess.IsExpired(time.Now()) {
		return nil, nil, domainerrors.Unauthorized("session expired")
	}

	user, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return sanitizeUser(user), sess, nil
}

// startSession creates a session row and mints its token.
func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenService.SessionDuration()),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokenService.GenerateSessionToken(user.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	return &AuthResponse{
		User:      sanitizeUser(user),
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// sanitizeUser strips fields that must never leave the service layer.
func sanitizeUser(user *domain.User) *domain.User {
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
