package api

import (
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth      *service.AuthService
	User      *service.UserService
	Dj        *service.DjService
	Favourite *service.FavouriteService
	Genre     *service.GenreService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	UserImages *images.Storage // User profile pictures
	DjImages   *images.Storage // DJ profile pictures
}
