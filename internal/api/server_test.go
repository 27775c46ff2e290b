package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/spinlist/spinlist-server/internal/auth"
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/search"
	"github.com/spinlist/spinlist-server/internal/service"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired test server backed by temp storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	userStorage, err := images.NewStorage(filepath.Join(tmpDir, "images"), "user-profiles")
	require.NoError(t, err)
	djStorage, err := images.NewStorage(filepath.Join(tmpDir, "images"), "dj-profiles")
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(strings.Repeat("0123456789abcdef", 4), time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(st, tokenService, logger)
	userService := service.NewUserService(st, images.NewProcessor(userStorage, logger), logger)
	djService := service.NewDjService(st, idx, images.NewProcessor(djStorage, logger), logger)

	services := &Services{
		Auth:      authService,
		User:      userService,
		Dj:        djService,
		Favourite: service.NewFavouriteService(st, djService, logger),
		Genre:     service.NewGenreService(st, logger),
	}

	router := chi.NewRouter()
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("Spinlist API Test", "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:    st,
		services: services,
		storage: &StorageServices{
			UserImages: userStorage,
			DjImages:   djStorage,
		},
		router: router,
		api:    api,
		logger: logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerDjRoutes()
	s.registerFavouriteRoutes()
	s.registerGenreRoutes()

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, api),
	}
}

// signup creates an account and returns the session cookie header value.
func (ts *testServer) signup(t *testing.T, username string, isAdmin bool) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"username": username,
		"password": "password123",
		"is_admin": isAdmin,
	})
	require.Equal(t, http.StatusOK, resp.Code, "Signup failed: %s", resp.Body.String())

	return sessionCookieHeader(t, resp.Result().Cookies())
}

// sessionCookieHeader builds the Cookie request header from Set-Cookie.
func sessionCookieHeader(t *testing.T, cookies []*http.Cookie) string {
	t.Helper()

	for _, c := range cookies {
		if c.Name == SessionCookieName {
			return "Cookie: " + SessionCookieName + "=" + c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}
