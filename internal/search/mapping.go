package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for DJ documents.
//
// Names and cities use the simple analyzer: DJ names are proper nouns and
// stemming them does more harm than good. Genre and venue fields use the
// English analyzer so "breaks" matches "break".
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = simple.Name
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	cityFieldMapping := bleve.NewTextFieldMapping()
	cityFieldMapping.Analyzer = simple.Name
	cityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("city", cityFieldMapping)

	genreFieldMapping := bleve.NewTextFieldMapping()
	genreFieldMapping.Analyzer = en.AnalyzerName
	genreFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genres", genreFieldMapping)

	subgenreFieldMapping := bleve.NewTextFieldMapping()
	subgenreFieldMapping.Analyzer = en.AnalyzerName
	subgenreFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("subgenres", subgenreFieldMapping)

	venueFieldMapping := bleve.NewTextFieldMapping()
	venueFieldMapping.Analyzer = en.AnalyzerName
	venueFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("venues", venueFieldMapping)

	updatedFieldMapping := bleve.NewNumericFieldMapping()
	updatedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping
}
