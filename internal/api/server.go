// Package api provides the HTTP API server and handlers for the Spinlist application.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spinlist/spinlist-server/internal/http/response"
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *sqlite.Store
	services        *Services
	storage         *StorageServices
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// Options configures the API server.
type Options struct {
	Store       *sqlite.Store
	Services    *Services
	Storage     *StorageServices
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Use(authMiddleware(opts.Services.Auth))

	// Credential endpoints get a tighter rate limit than the rest of the API.
	authRateLimiter := NewRateLimiter(20, time.Minute, 10)
	limitAuth := RateLimitMiddleware(authRateLimiter, opts.Logger)
	router.Use(func(next http.Handler) http.Handler {
		limited := limitAuth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	humaConfig := huma.DefaultConfig("Spinlist API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"session": {
			Type: "apiKey",
			In:   "cookie",
			Name: SessionCookieName,
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           opts.Store,
		services:        opts.Services,
		storage:         opts.Storage,
		router:          router,
		api:             api,
		logger:          opts.Logger,
		authRateLimiter: authRateLimiter,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerDjRoutes()
	s.registerFavouriteRoutes()
	s.registerGenreRoutes()

	// Image serving stays on chi directly for streaming and caching.
	router.Get("/images/{subdir}/{file}", s.handleServeImage)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleServeImage streams a stored profile image.
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	subdir := chi.URLParam(r, "subdir")
	file := chi.URLParam(r, "file")
	if subdir == "" || file == "" {
		response.Error(w, http.StatusBadRequest, "path required", s.logger)
		return
	}

	storage := s.storageFor(subdir)
	if storage == nil {
		response.NotFound(w, "image not found", s.logger)
		return
	}

	data, err := storage.Get(file)
	if err != nil {
		response.NotFound(w, "image not found", s.logger)
		return
	}

	w.Header().Set("Content-Type", contentTypeByExtension(file))
	w.Header().Set("Cache-Control", CacheOneWeek)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// storageFor maps an image subdirectory to its storage.
func (s *Server) storageFor(subdir string) *images.Storage {
	switch {
	case s.storage == nil:
		return nil
	case s.storage.UserImages != nil && s.storage.UserImages.Subdir() == subdir:
		return s.storage.UserImages
	case s.storage.DjImages != nil && s.storage.DjImages.Subdir() == subdir:
		return s.storage.DjImages
	}
	return nil
}

// contentTypeByExtension picks the Content-Type for a stored image file.
func contentTypeByExtension(file string) string {
	switch {
	case strings.HasSuffix(file, ".png"):
		return "image/png"
	case strings.HasSuffix(file, ".webp"):
		return "image/webp"
	case strings.HasSuffix(file, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
