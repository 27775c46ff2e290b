package providers

import (
	"fmt"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/spinlist/spinlist-server/internal/config"
	"github.com/spinlist/spinlist-server/internal/logger"
	"github.com/spinlist/spinlist-server/internal/media/images"
)

// ImageStorages groups all image storage services.
type ImageStorages struct {
	Users *images.Storage // User profile pictures
	Djs   *images.Storage // DJ profile pictures
}

// ImageProcessors groups the per-storage image processors.
type ImageProcessors struct {
	Users *images.Processor
	Djs   *images.Processor
}

// ProvideImageStorages provides all image storage services.
func ProvideImageStorages(i do.Injector) (*ImageStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	basePath := filepath.Join(cfg.Data.BasePath, "images")

	users, err := images.NewStorage(basePath, "user-profiles")
	if err != nil {
		return nil, fmt.Errorf("user image storage: %w", err)
	}

	djs, err := images.NewStorage(basePath, "dj-profiles")
	if err != nil {
		return nil, fmt.Errorf("dj image storage: %w", err)
	}

	log.Info("Image storages initialized", "path", basePath)

	return &ImageStorages{
		Users: users,
		Djs:   djs,
	}, nil
}

// ProvideImageProcessors provides the image processors for profile pictures.
func ProvideImageProcessors(i do.Injector) (*ImageProcessors, error) {
	storages := do.MustInvoke[*ImageStorages](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &ImageProcessors{
		Users: images.NewProcessor(storages.Users, log.Logger),
		Djs:   images.NewProcessor(storages.Djs, log.Logger),
	}, nil
}
