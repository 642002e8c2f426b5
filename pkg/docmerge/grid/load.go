package grid

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the container format of a spreadsheet file.
type Format string

const (
	// FormatXLS is the legacy BIFF format stored in an OLE2 compound document.
	FormatXLS Format = "xls"
	// FormatOOXML is the zip based xlsx/xlsm format.
	FormatOOXML Format = "xlsx"
	// FormatUnknown means neither signature matched.
	FormatUnknown Format = ""
)

var (
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipSignature = []byte("PK\x03\x04")
)

// ErrNoSheets indicates the workbook contains no worksheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// Detect inspects the leading bytes of data and falls back to the file
// extension when the content carries no known signature.
func Detect(name string, data []byte) Format {
	switch {
	case bytes.HasPrefix(data, oleSignature):
		return FormatXLS
	case bytes.HasPrefix(data, zipSignature):
		return FormatOOXML
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xls":
		return FormatXLS
	case ".xlsx", ".xlsm":
		return FormatOOXML
	}
	return FormatUnknown
}

// Load parses the first worksheet of a spreadsheet file held in memory.
func Load(name string, data []byte) (Grid, error) {
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	switch Detect(name, data) {
	case FormatXLS:
		return loadXLS(data)
	case FormatOOXML:
		return loadXLSX(data)
	default:
		return nil, fmt.Errorf("unrecognised spreadsheet format for %q", name)
	}
}
