// Package grid provides a zero-indexed, bounds-safe view over the first
// worksheet of a spreadsheet file.
package grid

import "strings"

// Grid is a read-only row/column view of a worksheet.
// Cell never fails: positions outside the grid read as "".
type Grid interface {
	Rows() int
	Cols() int
	Cell(r, c int) string
}

// Matrix is an in-memory Grid backed by ragged string rows.
type Matrix struct {
	rows [][]string
	cols int
}

// NewMatrix returns an empty matrix with rows rows pre-allocated.
func NewMatrix(rows int) *Matrix {
	return &Matrix{rows: make([][]string, rows)}
}

// FromRows builds a matrix from raw rows as returned by a sheet reader.
// Values are trimmed and trailing blank rows are dropped.
func FromRows(rows [][]string) *Matrix {
	m := NewMatrix(len(rows))
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, v)
		}
	}
	m.trim()
	return m
}

// Set stores v at (r, c), growing the matrix as needed. Negative positions are ignored.
func (m *Matrix) Set(r, c int, v string) {
	if r < 0 || c < 0 {
		return
	}
	v = strings.TrimSpace(v)
	for len(m.rows) <= r {
		m.rows = append(m.rows, nil)
	}
	row := m.rows[r]
	if v == "" && c >= len(row) {
		return
	}
	for len(row) <= c {
		row = append(row, "")
	}
	row[c] = v
	m.rows[r] = row
	if c+1 > m.cols {
		m.cols = c + 1
	}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// Cols returns the width of the widest row.
func (m *Matrix) Cols() int {
	return m.cols
}

// Cell returns the value at (r, c) or "" when out of range.
func (m *Matrix) Cell(r, c int) string {
	if r < 0 || r >= len(m.rows) || c < 0 {
		return ""
	}
	row := m.rows[r]
	if c >= len(row) {
		return ""
	}
	return row[c]
}

// trim drops trailing rows that hold no data.
func (m *Matrix) trim() {
	last := lastDataRow(m.rows)
	m.rows = m.rows[:last+1]
}

// lastDataRow returns the index of the last row with a non-empty cell, or -1.
func lastDataRow(rows [][]string) int {
	for r := len(rows) - 1; r >= 0; r-- {
		for _, v := range rows[r] {
			if v != "" {
				return r
			}
		}
	}
	return -1
}

// Empty reports whether the cell at (r, c) of g is empty.
func Empty(g Grid, r, c int) bool {
	return g.Cell(r, c) == ""
}

// AllEmpty reports whether every listed column of row r is empty.
func AllEmpty(g Grid, r int, cols ...int) bool {
	for _, c := range cols {
		if !Empty(g, r, c) {
			return false
		}
	}
	return true
}
