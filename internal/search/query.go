package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query  string // User's search query
	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:  20,
		Offset: 0,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Name  string  `json:"name"`
	City  string  `json:"city"`
}

// Search executes a search query against the DJ index.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"id", "name", "city"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if n, ok := hit.Fields["name"].(string); ok {
			h.Name = n
		}
		if c, ok := hit.Fields["city"].(string); ok {
			h.City = c
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params. Name matches
// rank highest, then city and the denormalized taxonomy fields; a fuzzy
// and a prefix clause on name give typo tolerance and autocomplete.
func buildSearchQuery(params Params) query.Query {
	if params.Query == "" {
		return bleve.NewMatchAllQuery()
	}

	var textQueries []query.Query

	nameMatch := bleve.NewMatchQuery(params.Query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)
	textQueries = append(textQueries, nameMatch)

	cityMatch := bleve.NewMatchQuery(params.Query)
	cityMatch.SetField("city")
	cityMatch.SetBoost(1.5)
	textQueries = append(textQueries, cityMatch)

	for _, field := range []string{"genres", "subgenres", "venues"} {
		fieldMatch := bleve.NewMatchQuery(params.Query)
		fieldMatch.SetField(field)
		textQueries = append(textQueries, fieldMatch)
	}

	fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("name")
	fuzzyQuery.SetBoost(0.8)
	textQueries = append(textQueries, fuzzyQuery)

	if len(params.Query) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
		prefixQuery.SetField("name")
		prefixQuery.SetBoost(0.5)
		textQueries = append(textQueries, prefixQuery)
	}

	return bleve.NewDisjunctionQuery(textQueries...)
}
