package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for catalog documents.
//
// Titles get the English analyzer with term vectors for highlighting; the
// native-script title uses the simple analyzer since English stemming would
// mangle it. Media type, genres and air status are exact-match keywords so
// they can drive filters and facets.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleField)

	englishField := bleve.NewTextFieldMapping()
	englishField.Analyzer = en.AnalyzerName
	englishField.Store = true
	englishField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title_english", englishField)

	nativeField := bleve.NewTextFieldMapping()
	nativeField.Analyzer = simple.Name
	nativeField.Store = true
	docMapping.AddFieldMappingsAt("title_native", nativeField)

	// Searchable but not stored: synopses are large and never displayed
	// from search results.
	synopsisField := bleve.NewTextFieldMapping()
	synopsisField.Analyzer = en.AnalyzerName
	synopsisField.Store = false
	docMapping.AddFieldMappingsAt("synopsis", synopsisField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	mediaField := bleve.NewTextFieldMapping()
	mediaField.Analyzer = keyword.Name
	mediaField.Store = true
	docMapping.AddFieldMappingsAt("media_type", mediaField)

	genresField := bleve.NewTextFieldMapping()
	genresField.Analyzer = keyword.Name
	genresField.Store = true
	genresField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("genres", genresField)

	airStatusField := bleve.NewTextFieldMapping()
	airStatusField.Analyzer = keyword.Name
	airStatusField.Store = true
	docMapping.AddFieldMappingsAt("air_status", airStatusField)

	yearField := bleve.NewNumericFieldMapping()
	yearField.Store = true
	docMapping.AddFieldMappingsAt("year", yearField)

	unitCountField := bleve.NewNumericFieldMapping()
	unitCountField.Store = true
	docMapping.AddFieldMappingsAt("unit_count", unitCountField)

	meanScoreField := bleve.NewNumericFieldMapping()
	meanScoreField.Store = true
	docMapping.AddFieldMappingsAt("mean_score", meanScoreField)

	updatedAtField := bleve.NewNumericFieldMapping()
	updatedAtField.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
