// Package pdftable extracts statement tables from PDF documents by
// reconstructing rows from text positions.
package pdftable

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rumor-ml/commons.systems/releve/internal/extract"
)

// Column boundaries (in PDF points) splitting a statement row into the
// five table columns: date, value date, description, debit, credit.
// They match the fixed layout of the statement sources.
var defaultBounds = [4]float64{80, 150, 400, 490}

// Extractor implements extract.Extractor for fixed-layout PDF statements.
type Extractor struct {
	bounds [4]float64
}

// New creates a PDF table extractor with the default column layout.
func New() *Extractor {
	return &Extractor{bounds: defaultBounds}
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string { return "pdftable" }

// CanExtract checks the file extension (.pdf, case-insensitive).
func (e *Extractor) CanExtract(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extract opens the document and rebuilds one table per page. A page
// without any positioned text yields a nil page (the no-table signal).
// The pdf library can panic on malformed documents, so the whole pass is
// wrapped in a recover.
func (e *Extractor) Extract(ctx context.Context, path string) (pages []extract.Page, err error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf library crashed on %s: %v", filepath.Base(path), r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		textRows, rowErr := page.GetTextByRow()
		if rowErr != nil || len(textRows) == 0 {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, e.tableFromRows(textRows))
	}

	return pages, nil
}

// tableFromRows converts positioned text rows into five-column cell rows.
// Words falling into the same column are joined with single spaces in
// reading order.
func (e *Extractor) tableFromRows(textRows pdf.Rows) extract.Page {
	table := make(extract.Page, 0, len(textRows))
	for _, row := range textRows {
		cells := make([]string, 5)
		for _, word := range row.Content {
			col := e.columnFor(word.X)
			if cells[col] == "" {
				cells[col] = word.S
			} else {
				cells[col] += " " + word.S
			}
		}
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		table = append(table, cells)
	}
	return table
}

func (e *Extractor) columnFor(x float64) int {
	for i, bound := range e.bounds {
		if x < bound {
			return i
		}
	}
	return len(e.bounds)
}
