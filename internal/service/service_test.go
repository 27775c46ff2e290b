package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spinlist/spinlist-server/internal/auth"
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/search"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// testKeyHex is a fixed 32-byte key for token tests.
var testKeyHex = strings.Repeat("0123456789abcdef", 4)

type testEnv struct {
	store      *sqlite.Store
	auth       *AuthService
	users      *UserService
	djs        *DjService
	favourites *FavouriteService
	genres     *GenreService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: dir, Logger: logger})
	if err != nil {
		t.Fatalf("create search index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	storage, err := images.NewStorage(filepath.Join(dir, "images"), "dj-profiles")
	if err != nil {
		t.Fatalf("create image storage: %v", err)
	}
	pictures := images.NewProcessor(storage, logger)

	tokens, err := auth.NewTokenService(testKeyHex, time.Hour)
	if err != nil {
		t.Fatalf("create token service: %v", err)
	}

	env := &testEnv{store: s}
	env.auth = NewAuthService(s, tokens, logger)
	env.users = NewUserService(s, pictures, logger)
	env.djs = NewDjService(s, idx, pictures, logger)
	env.favourites = NewFavouriteService(s, env.djs, logger)
	env.genres = NewGenreService(s, logger)
	return env
}
