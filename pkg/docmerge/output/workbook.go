// Package output writes extracted datasets as workbooks or JSON.
package output

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
)

// blankCheckColumns is how many leading semantic columns must all be blank
// for a row to be dropped on export.
const blankCheckColumns = 4

// columnPadding is added to the measured width of every column.
const columnPadding = 2

// Sheet is a named dataset to be written as one worksheet.
type Sheet struct {
	Name string
	Set  models.RecordSet
}

// WriteWorkbook writes every sheet with at least one row to a new xlsx
// workbook. Header rows are frozen and columns sized to their content.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	written := 0
	for _, sh := range sheets {
		rows := exportRows(sh.Set)
		if len(rows) == 0 {
			continue
		}
		if written == 0 {
			if err := f.SetSheetName(defaultSheet, sh.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh.Name, sh.Set.Type.Header(), rows); err != nil {
			return err
		}
		written++
	}
	if written == 0 {
		return fmt.Errorf("no rows to write")
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// exportRows returns the rows of set minus those blank in the leading semantic columns.
func exportRows(set models.RecordSet) [][]string {
	var rows [][]string
	for _, r := range set.Records {
		lead := r.Values
		if len(lead) > blankCheckColumns {
			lead = lead[:blankCheckColumns]
		}
		if models.BlankValues(lead) {
			continue
		}
		rows = append(rows, r.Row())
	}
	return rows
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = cellValue(v)
			if c < len(widths) {
				widths[c] = max(widths[c], utf8.RuneCountInString(v))
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i+2, name, err)
		}
	}

	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header of %q: %w", name, err)
	}

	for c, width := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(name, col, col, float64(width+columnPadding)); err != nil {
			return fmt.Errorf("size column %s of %q: %w", col, name, err)
		}
	}
	return nil
}

// cellValue writes plain integers as numbers and everything else as text.
// Only values that print back identically are converted, so serials with
// leading zeros or more than 15 digits keep their exact text.
func cellValue(s string) interface{} {
	if len(s) == 0 || len(s) > 15 {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return i
	}
	return s
}
