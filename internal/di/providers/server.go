package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/spinlist/spinlist-server/internal/api"
	"github.com/spinlist/spinlist-server/internal/config"
	"github.com/spinlist/spinlist-server/internal/logger"
	"github.com/spinlist/spinlist-server/internal/service"
)

// HTTPServerHandle wraps the HTTP server with shutdown capability.
type HTTPServerHandle struct {
	server *http.Server
	logger *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Shutting down HTTP server")
	return h.server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*ImageStorages](i)

	services := &api.Services{
		Auth:      do.MustInvoke[*service.AuthService](i),
		User:      do.MustInvoke[*service.UserService](i),
		Dj:        do.MustInvoke[*service.DjService](i),
		Favourite: do.MustInvoke[*service.FavouriteService](i),
		Genre:     do.MustInvoke[*service.GenreService](i),
	}

	apiServer := api.NewServer(api.Options{
		Store:    storeHandle.Store,
		Services: services,
		Storage: &api.StorageServices{
			UserImages: storages.Users,
			DjImages:   storages.Djs,
		},
		Logger:      log.Logger,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "name", cfg.Server.Name, "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{
		server: server,
		logger: log,
	}, nil
}
