package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_SetsSessionCookie(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"username": "selector",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "selector", envelope.Data.User.Username)
	assert.False(t, envelope.Data.User.IsAdmin)

	cookies := resp.Result().Cookies()
	require.NotEmpty(t, cookies)
	var found bool
	for _, c := range cookies {
		if c.Name == SessionCookieName {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie must be set")
}

func TestSignup_DuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"username": "SELECTOR",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}

func TestSignup_AdminClaimRequiresAdminActor(t *testing.T) {
	ts := setupTestServer(t)
	adminCookie := ts.signup(t, "admin", true)

	// Anonymous signup cannot claim admin once an account exists.
	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"username": "wannabe",
		"password": "password123",
		"is_admin": true,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// With an admin session the same request succeeds.
	resp = ts.api.Post("/api/v1/auth/signup", map[string]any{
		"username": "deputy",
		"password": "password123",
		"is_admin": true,
	}, adminCookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.User.IsAdmin)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "selector",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestMe_RequiresSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	resp := ts.api.Get("/api/v1/me", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/auth/logout", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	// The token is still syntactically valid but the session row is gone.
	resp = ts.api.Get("/api/v1/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/me/password", map[string]any{
		"current_password": "wrong password",
		"new_password":     "fresh password 456",
	}, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/me/password", map[string]any{
		"current_password": "password123",
		"new_password":     "fresh password 456",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The old session no longer works.
	resp = ts.api.Get("/api/v1/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Login with the new password succeeds.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "selector",
		"password": "fresh password 456",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLoginFlow_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "selector", false)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"username": "selector",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	cookie := sessionCookieHeader(t, resp.Result().Cookies())

	resp = ts.api.Get("/api/v1/me", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "selector", envelope.Data.Username)
}
