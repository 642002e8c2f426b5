package parser

import (
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/grid"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// Relocation layout, zero-indexed.
const (
	relocationFromRow   = 24
	relocationToRow     = 26
	relocationAnchorCol = 3
	relocationTypeCol   = 1
	relocationSerialCol = 4

	// relocationWideScan is the bound of the split-column tier.
	relocationWideScan = 200
)

// relocationTier is one layout variant. It returns nil when it finds nothing.
type relocationTier func(g grid.Grid, file, from, to string, opts Options) []models.Record

// relocationTiers are tried in order until one yields records.
var relocationTiers = []relocationTier{
	relocationTier1,
	relocationTier2,
	relocationTier3,
	relocationTier4,
}

// ExtractRelocation reads a relocation sheet, falling back through the
// known layout variants until one of them produces rows.
func ExtractRelocation(g grid.Grid, file string, opts Options) Result {
	from := g.Cell(relocationFromRow, relocationAnchorCol)
	to := g.Cell(relocationToRow, relocationAnchorCol)

	for i, tier := range relocationTiers {
		if records := tier(g, file, from, to, opts); len(records) > 0 {
			return Result{Records: records, Tier: i + 1}
		}
	}
	return Result{}
}

// relocationTier1 is the current layout: rows from 33 (row index 32) while
// H or I hold a value. Every such row is kept.
//
// The later tiers only make progress when tier 1 returned nothing, which
// means row 33 already had H and I empty. Tier 2 gets past that by starting
// one row lower; tiers 3 and 4 read different stop columns. A later tier
// with tier 1's start row and stop pair plus a stricter guard could never
// yield a row.
func relocationTier1(g grid.Grid, file, from, to string, opts Options) []models.Record {
	var records []models.Record
	scan{start: 32, limit: opts.ScanLimit(), stop: whenEmpty(7, 8)}.each(g, func(r int) {
		records = append(records, record(file, from, to, g.Cell(r, relocationTypeCol), g.Cell(r, relocationSerialCol)))
	})
	return records
}

// relocationTier2 starts one row lower and keeps only rows with a machine type or serial.
func relocationTier2(g grid.Grid, file, from, to string, opts Options) []models.Record {
	var records []models.Record
	scan{start: 33, limit: opts.ScanLimit(), stop: whenEmpty(7, 8)}.each(g, func(r int) {
		mt, sn := g.Cell(r, relocationTypeCol), g.Cell(r, relocationSerialCol)
		if anyValue(mt, sn) {
			records = append(records, record(file, from, to, mt, sn))
		}
	})
	return records
}

// relocationTier3 handles sheets where machine types and serials sit on
// separate rows. The layout is one column wider, so rows run while I or J
// hold a value. Types and serials are collected in two passes and emitted
// as partial records, types first.
func relocationTier3(g grid.Grid, file, from, to string, _ Options) []models.Record {
	s := scan{start: 33, limit: relocationWideScan, stop: whenEmpty(8, 9)}

	var records []models.Record
	s.each(g, func(r int) {
		if mt := g.Cell(r, relocationTypeCol); mt != "" {
			records = append(records, record(file, from, to, mt, ""))
		}
	})
	s.each(g, func(r int) {
		if sn := g.Cell(r, relocationSerialCol); sn != "" {
			records = append(records, record(file, from, to, "", sn))
		}
	})
	return records
}

// relocationTier4 is the oldest layout: rows from 33 (index 32) while G or H
// hold a value, keeping rows with a machine type or serial. Its stop pair is
// shifted one column left of tier 1's; with tier 1's pair it would stop on
// the same row tier 1 did.
func relocationTier4(g grid.Grid, file, from, to string, opts Options) []models.Record {
	var records []models.Record
	scan{start: 32, limit: opts.ScanLimit(), stop: whenEmpty(6, 7)}.each(g, func(r int) {
		mt, sn := g.Cell(r, relocationTypeCol), g.Cell(r, relocationSerialCol)
		if anyValue(mt, sn) {
			records = append(records, record(file, from, to, mt, sn))
		}
	})
	return records
}
