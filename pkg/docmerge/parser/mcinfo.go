package parser

import (
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/grid"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// MC Info layout, zero-indexed.
const (
	mcInfoCDRow    = 10
	mcInfoCDCol    = 3
	mcInfoStartRow = 20
	mcInfoTypeCol  = 2
	mcInfoSerial   = 3
)

// ExtractMCInfo reads an MC Info sheet. Rows blank in columns A-D are
// skipped without ending the scan; only the grid end or the scan bound stop it.
func ExtractMCInfo(g grid.Grid, file string, opts Options) Result {
	cd := g.Cell(mcInfoCDRow, mcInfoCDCol)

	var records []models.Record
	scan{start: mcInfoStartRow, limit: opts.ScanLimit()}.each(g, func(r int) {
		if grid.AllEmpty(g, r, 0, 1, 2, 3) {
			return
		}
		records = append(records, record(file, cd, g.Cell(r, mcInfoTypeCol), g.Cell(r, mcInfoSerial)))
	})
	return Result{Records: records}
}
