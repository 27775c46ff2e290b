package store

import "github.com/spinlist/spinlist-server/internal/domain"

// DjAggregate is the write model for a DJ profile and its associations.
// All titles are canonical before the aggregate reaches the store: the
// service resolves aliases and title-cases names, and drops subgenre map
// keys that do not match a supplied genre.
type DjAggregate struct {
	Dj        *domain.Dj
	Genres    []string            // canonical genre titles, in request order
	Subgenres map[string][]string // genre title -> canonical subgenre titles
	Venues    []string            // canonical venue names, in request order
}
