package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for saved book documents.
// Text fields use English stemming; user_id, book_id, tags and status stay
// keyword-analyzed for exact filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Authors - searchable
	authorsFieldMapping := bleve.NewTextFieldMapping()
	authorsFieldMapping.Analyzer = en.AnalyzerName
	authorsFieldMapping.Store = true
	authorsFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("authors", authorsFieldMapping)

	// Categories - searchable text, stored for display
	categoriesFieldMapping := bleve.NewTextFieldMapping()
	categoriesFieldMapping.Analyzer = en.AnalyzerName
	categoriesFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("categories", categoriesFieldMapping)

	// Notes - the user's own words, searchable but not stored
	notesFieldMapping := bleve.NewTextFieldMapping()
	notesFieldMapping.Analyzer = en.AnalyzerName
	notesFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("notes", notesFieldMapping)

	// Tags - keyword analyzer keeps compound tags intact (e.g., "slow-burn")
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// user_id - exact filtering only, never full-text matched
	userIDFieldMapping := bleve.NewTextFieldMapping()
	userIDFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("user_id", userIDFieldMapping)

	// book_id - stored so results can be resolved back to the store
	bookIDFieldMapping := bleve.NewTextFieldMapping()
	bookIDFieldMapping.Analyzer = keyword.Name
	bookIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("book_id", bookIDFieldMapping)

	// status - exact filtering
	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
