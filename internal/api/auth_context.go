package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/spinlist/spinlist-server/internal/domain"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
	"github.com/spinlist/spinlist-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	// userKey is the context key for the authenticated user.
	userKey ctxKey = "user"
	// sessionIDKey is the context key for the session ID.
	sessionIDKey ctxKey = "sessionID"
)

// authMiddleware validates the session cookie and stores the user in
// context. If no cookie is present or the session is invalid, the request
// continues without a user; handlers use RequireUser to reject.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, sess, err := auth.VerifySession(r.Context(), cookie.Value)
			if err != nil {
				// Invalid session, continue without user.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, sessionIDKey, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionUser returns the authenticated user from context, or nil.
func sessionUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userKey).(*domain.User); ok {
		return user
	}
	return nil
}

// getSessionID returns the session ID from context, or empty string.
func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}

// RequireUser returns the authenticated user or a 401 error.
func (s *Server) RequireUser(ctx context.Context) (*domain.User, error) {
	user := sessionUser(ctx)
	if user == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return user, nil
}

// RequireAdmin validates the user is authenticated and has the admin role.
func (s *Server) RequireAdmin(ctx context.Context) (*domain.User, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return user, nil
}
