// Package models defines data structures for template extraction.
package models

import "strings"

// DocumentType identifies which report template a file follows.
type DocumentType string

const (
	// MCInfo is the "MC Info" machine information sheet.
	MCInfo DocumentType = "mc_info"
	// Relocation is the machine relocation sheet.
	Relocation DocumentType = "relocation"
	// StockNormal is the single-party stock machine shipping sheet.
	StockNormal DocumentType = "stock_normal"
	// StockCombined is the 二合一 (end user + distributor) stock machine sheet.
	StockCombined DocumentType = "stock_combined"
)

// SourceColumn is the header of the provenance column appended to every record.
const SourceColumn = "File_name"

// DocumentTypes lists every type in export order.
var DocumentTypes = []DocumentType{MCInfo, Relocation, StockNormal, StockCombined}

var columns = map[DocumentType][]string{
	MCInfo:        {"CD Code", "Machine Type", "S/N#"},
	Relocation:    {"From_CD Code", "To_CD Code", "Machine Type", "S/N#"},
	StockNormal:   {"CD Code", "Machine Type", "S/N#"},
	StockCombined: {"CD Code_End User", "CD Code_Distributor", "Machine Type", "S/N#"},
}

var sheetNames = map[DocumentType]string{
	MCInfo:        "MC Info",
	Relocation:    "Relocation",
	StockNormal:   "STOCK MACHINE SHIPPING INFO",
	StockCombined: "二合一STOCK MACHINE SHIPPING INFO",
}

// Columns returns the semantic field names of the type, without provenance.
func (t DocumentType) Columns() []string {
	return append([]string(nil), columns[t]...)
}

// Header returns the exported header row: the semantic fields followed by SourceColumn.
func (t DocumentType) Header() []string {
	return append(t.Columns(), SourceColumn)
}

// SheetName returns the worksheet name used when the type is exported.
func (t DocumentType) SheetName() string {
	return sheetNames[t]
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	_, ok := columns[t]
	return ok
}

// Record is one extracted row.
type Record struct {
	// Values holds the semantic fields, aligned with DocumentType.Columns.
	Values []string `json:"values"`
	// SourceFile is the uploaded file name the row was read from.
	SourceFile string `json:"source_file"`
}

// Blank reports whether every semantic field is empty or whitespace.
func (r Record) Blank() bool {
	return BlankValues(r.Values)
}

// Row returns the values followed by the source file name.
func (r Record) Row() []string {
	row := make([]string, 0, len(r.Values)+1)
	row = append(row, r.Values...)
	return append(row, r.SourceFile)
}

// BlankValues reports whether every value is empty after trimming.
func BlankValues(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RecordSet is an ordered collection of records sharing one DocumentType.
type RecordSet struct {
	Type    DocumentType `json:"type"`
	Records []Record     `json:"records"`
}

// NewRecordSet returns an empty set for t.
func NewRecordSet(t DocumentType) *RecordSet {
	return &RecordSet{Type: t}
}

// Append adds records in order.
func (s *RecordSet) Append(records ...Record) {
	s.Records = append(s.Records, records...)
}

// Len returns the number of records.
func (s RecordSet) Len() int {
	return len(s.Records)
}

// Empty reports whether the set holds no records.
func (s RecordSet) Empty() bool {
	return len(s.Records) == 0
}

// Clone returns a deep copy safe to hand to callers.
func (s *RecordSet) Clone() RecordSet {
	out := RecordSet{Type: s.Type, Records: make([]Record, len(s.Records))}
	for i, r := range s.Records {
		out.Records[i] = Record{
			Values:     append([]string(nil), r.Values...),
			SourceFile: r.SourceFile,
		}
	}
	return out
}

// Rows returns every record as a string row including provenance.
func (s RecordSet) Rows() [][]string {
	rows := make([][]string, 0, len(s.Records))
	for _, r := range s.Records {
		rows = append(rows, r.Row())
	}
	return rows
}
