package providers

import (
	"github.com/samber/do/v2"

	"github.com/spinlist/spinlist-server/internal/auth"
	"github.com/spinlist/spinlist-server/internal/logger"
	"github.com/spinlist/spinlist-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideUserService provides the user account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processors := do.MustInvoke[*ImageProcessors](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, processors.Users, log.Logger), nil
}

// ProvideDjService provides the DJ profile service.
func ProvideDjService(i do.Injector) (*service.DjService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	processors := do.MustInvoke[*ImageProcessors](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDjService(storeHandle.Store, indexHandle.Index, processors.Djs, log.Logger), nil
}

// ProvideFavouriteService provides the favourites service.
func ProvideFavouriteService(i do.Injector) (*service.FavouriteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	djService := do.MustInvoke[*service.DjService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFavouriteService(storeHandle.Store, djService, log.Logger), nil
}

// ProvideGenreService provides the genre taxonomy service.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGenreService(storeHandle.Store, log.Logger), nil
}
