// Package extract defines the table-extraction collaborator consumed by
// ingestion: a document file yields pages, each page an ordered sequence
// of rows of cell strings. Implementations live in subpackages.
package extract

import "context"

// Page is one document page's table rows. A nil Page is the no-table
// signal for a page without a recognizable table.
type Page [][]string

// Extractor turns a statement document into table pages.
type Extractor interface {
	// Name returns the extractor identifier (e.g. "pdftable").
	Name() string

	// CanExtract checks if this extractor handles the file.
	CanExtract(path string) bool

	// Extract returns the table pages of the document.
	Extract(ctx context.Context, path string) ([]Page, error)
}

// Flatten concatenates the rows of all pages that carry a table into the
// single row sequence the transaction builder consumes. Pages with the
// no-table signal are skipped.
func Flatten(pages []Page) [][]string {
	var rows [][]string
	for _, page := range pages {
		if page == nil {
			continue
		}
		rows = append(rows, page...)
	}
	return rows
}
