// Package parser extracts records from the fixed report templates.
//
// Every extractor reads a few anchor cells whose values are repeated into
// each record, then walks a bounded row range until a template-specific
// stop condition holds.
package parser

import (
	"fmt"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/grid"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// DefaultMaxScanRows bounds how many rows past its start a scan may visit.
const DefaultMaxScanRows = 100

// Options configures extraction.
type Options struct {
	// MaxScanRows bounds every row scan. Zero or negative selects DefaultMaxScanRows.
	MaxScanRows int
}

// ScanLimit returns the effective row bound.
func (o Options) ScanLimit() int {
	if o.MaxScanRows > 0 {
		return o.MaxScanRows
	}
	return DefaultMaxScanRows
}

// Result is the output of one extractor run.
type Result struct {
	// Records holds the extracted rows in sheet order.
	Records []models.Record
	// Warnings holds non-fatal problems found while reading anchors.
	Warnings []models.Notice
	// Tier is the relocation fallback tier that produced Records, 0 otherwise.
	Tier int
}

// Extractor reads records of one document type from a grid.
type Extractor func(g grid.Grid, file string, opts Options) Result

var extractors = map[models.DocumentType]Extractor{
	models.MCInfo:        ExtractMCInfo,
	models.Relocation:    ExtractRelocation,
	models.StockNormal:   ExtractStockNormal,
	models.StockCombined: ExtractStockCombined,
}

// For returns the extractor registered for t.
func For(t models.DocumentType) (Extractor, error) {
	ex, ok := extractors[t]
	if !ok {
		return nil, fmt.Errorf("no extractor for document type %q", t)
	}
	return ex, nil
}

// Extract runs the extractor registered for t.
func Extract(t models.DocumentType, g grid.Grid, file string, opts Options) (Result, error) {
	ex, err := For(t)
	if err != nil {
		return Result{}, err
	}
	return ex(g, file, opts), nil
}

// scan walks rows [start, start+limit) that exist in the grid and stops
// early at the first row for which stop returns true.
type scan struct {
	start int
	limit int
	stop  func(g grid.Grid, r int) bool
}

func (s scan) each(g grid.Grid, fn func(r int)) {
	end := s.start + s.limit
	for r := s.start; r < g.Rows() && r < end; r++ {
		if s.stop != nil && s.stop(g, r) {
			return
		}
		fn(r)
	}
}

// whenEmpty returns a stop condition that holds once all cols are empty.
func whenEmpty(cols ...int) func(g grid.Grid, r int) bool {
	return func(g grid.Grid, r int) bool {
		return grid.AllEmpty(g, r, cols...)
	}
}

func record(file string, values ...string) models.Record {
	return models.Record{Values: values, SourceFile: file}
}

// anyValue reports whether at least one value is non-empty.
func anyValue(values ...string) bool {
	return !models.BlankValues(values)
}
