package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/grid"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// Stock machine layouts, zero-indexed.
const (
	stockNormalCDRow     = 14
	stockNormalCDCol     = 2
	stockNormalStartRow  = 20
	stockNormalTypeCol   = 1
	stockNormalSerialCol = 4

	stockCombinedEndUserRow = 14
	stockCombinedDistRow    = 15
	stockCombinedAnchorCol  = 3
	stockCombinedStartRow   = 21
	stockCombinedStopCol    = 9
	stockCombinedTypeCol    = 2
	stockCombinedSerialCol  = 5
)

// bracketPattern matches half- and full-width parentheses in any pairing.
var bracketPattern = regexp.MustCompile(`[（(]([^）)]+)[）)]`)

// BracketCode returns the content of the last parenthesised group in s.
func BracketCode(s string) (string, bool) {
	matches := bracketPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.TrimSpace(matches[len(matches)-1][1]), true
}

// ExtractStockNormal reads a single-party stock machine sheet. The CD code is
// taken from the brackets of cell C15; without one it is left empty and a
// warning is returned.
func ExtractStockNormal(g grid.Grid, file string, opts Options) Result {
	var res Result

	raw := g.Cell(stockNormalCDRow, stockNormalCDCol)
	cd, ok := BracketCode(raw)
	if !ok {
		res.Warnings = append(res.Warnings, models.Notice{
			Level:   models.LevelWarning,
			Kind:    models.KindMissingBracket,
			File:    file,
			Message: fmt.Sprintf("cell C15 holds no bracketed CD code: %q", raw),
		})
	}

	scan{start: stockNormalStartRow, limit: opts.ScanLimit(), stop: whenEmpty(8, 9)}.each(g, func(r int) {
		mt, sn := g.Cell(r, stockNormalTypeCol), g.Cell(r, stockNormalSerialCol)
		if anyValue(mt, sn) {
			res.Records = append(res.Records, record(file, cd, mt, sn))
		}
	})
	return res
}

// ExtractStockCombined reads a 二合一 sheet carrying both end user and
// distributor CD codes. The scan ends at the first row with column J empty.
func ExtractStockCombined(g grid.Grid, file string, opts Options) Result {
	endUser := g.Cell(stockCombinedEndUserRow, stockCombinedAnchorCol)
	dist := g.Cell(stockCombinedDistRow, stockCombinedAnchorCol)

	var res Result
	scan{start: stockCombinedStartRow, limit: opts.ScanLimit(), stop: whenEmpty(stockCombinedStopCol)}.each(g, func(r int) {
		mt, sn := g.Cell(r, stockCombinedTypeCol), g.Cell(r, stockCombinedSerialCol)
		if anyValue(mt, sn) {
			res.Records = append(res.Records, record(file, endUser, dist, mt, sn))
		}
	})
	return res
}
