// Package search provides full-text search over DJ profiles using Bleve.
package search

import "github.com/spinlist/spinlist-server/internal/domain"

// DjDocument is the document structure for the Bleve index. Genre,
// subgenre, and venue titles are denormalized into the document so one
// query covers everything a listener might type.
type DjDocument struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	City      string   `json:"city"`
	Produces  bool     `json:"produces"`
	Genres    []string `json:"genres,omitempty"`
	Subgenres []string `json:"subgenres,omitempty"`
	Venues    []string `json:"venues,omitempty"`
	UpdatedAt int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *DjDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"city":       d.City,
		"produces":   d.Produces,
		"updated_at": d.UpdatedAt,
	}

	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if len(d.Subgenres) > 0 {
		m["subgenres"] = d.Subgenres
	}
	if len(d.Venues) > 0 {
		m["venues"] = d.Venues
	}

	return m
}

// DjToDocument converts a DJ view to a search document. The view already
// carries the denormalized genre, subgenre, and venue titles.
func DjToDocument(view *domain.DjView, updatedAtMillis int64) *DjDocument {
	var subgenres []string
	for _, titles := range view.Subgenres {
		subgenres = append(subgenres, titles...)
	}

	return &DjDocument{
		ID:        view.ID,
		Name:      view.Name,
		City:      view.City,
		Produces:  view.Produces,
		Genres:    view.AllGenres,
		Subgenres: subgenres,
		Venues:    view.Venues,
		UpdatedAt: updatedAtMillis,
	}
}
