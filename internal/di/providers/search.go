package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/spinlist/spinlist-server/internal/config"
	"github.com/spinlist/spinlist-server/internal/logger"
	"github.com/spinlist/spinlist-server/internal/search"
	"github.com/spinlist/spinlist-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds the search index when it is empty
// but the database has DJs. This happens after an index rebuild on startup.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	djService := do.MustInvoke[*service.DjService](i)

	ctx := context.Background()

	docCount, err := indexHandle.DocumentCount()
	if err != nil {
		log.Warn("Failed to read search index document count", "error", err)
		return
	}

	djCount, err := storeHandle.CountDjs(ctx)
	if err != nil {
		log.Warn("Failed to count DJs for reindex check", "error", err)
		return
	}

	if docCount > 0 || djCount == 0 {
		return
	}

	log.Info("Search index is empty, reindexing", "dj_count", djCount)

	if err := djService.Reindex(ctx); err != nil {
		log.Error("Search reindex failed", "error", err)
	}
}
