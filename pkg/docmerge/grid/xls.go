package grid

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// loadXLS reads the first sheet of a legacy BIFF workbook.
// The decoder panics on some malformed streams, so panics are turned into errors.
func loadXLS(data []byte) (g Grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("decode xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheets
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheets
	}
	// ReadAllCells skips a sheet whose MaxRow is 0 and would continue with
	// the next one, so a single-row first sheet is treated as empty.
	if sheet.MaxRow == 0 {
		return NewMatrix(0), nil
	}

	// WorkSheet.Row dereferences rows without a record, so cells are read
	// through ReadAllCells, which walks only the populated rows. The limit
	// stops it at the end of the first sheet.
	return FromRows(wb.ReadAllCells(int(sheet.MaxRow) + 1)), nil
}
