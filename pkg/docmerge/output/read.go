package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Table is a worksheet read back as a header plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadWorkbook reads every sheet of an xlsx workbook produced by
// WriteWorkbook, keyed by sheet name, along with the sheet order.
func ReadWorkbook(r io.Reader) (map[string]Table, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	tables := make(map[string]Table, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		var t Table
		if len(rows) > 0 {
			t.Header = rows[0]
			width := len(t.Header)
			for _, row := range rows[1:] {
				for len(row) < width {
					row = append(row, "")
				}
				t.Rows = append(t.Rows, row)
			}
		}
		tables[name] = t
	}
	return tables, names, nil
}
