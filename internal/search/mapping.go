package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Field names in the index. They match the catalog column names.
const (
	fieldShowID      = "show_id"
	fieldType        = "type"
	fieldTitle       = "title"
	fieldCast        = "cast"
	fieldDirector    = "director"
	fieldDescription = "description"
	fieldListedIn    = "listed_in"
	fieldYear        = "release_year"
)

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	text := func(name string, store bool) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = en.AnalyzerName
		fm.Store = store
		doc.AddFieldMappingsAt(name, fm)
	}
	text(fieldTitle, true)
	text(fieldCast, false)
	text(fieldDirector, false)
	text(fieldListedIn, false)
	// descriptions are long; searchable only
	text(fieldDescription, false)

	for _, name := range []string{fieldShowID, fieldType} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		doc.AddFieldMappingsAt(name, fm)
	}

	year := bleve.NewNumericFieldMapping()
	year.Store = true
	doc.AddFieldMappingsAt(fieldYear, year)

	indexMapping.DefaultMapping = doc
	return indexMapping
}
