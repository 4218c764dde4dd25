// pkg/model/table.go
package model

import "strings"

// RawTable holds one post-log spreadsheet exactly as read from disk:
// the raw header row plus every data row as strings. Header labels at
// this stage may carry inconsistent casing, whitespace and punctuation.
type RawTable struct {
	SourceFile string     // Base filename the table was read from
	Headers    []string   // Raw header labels, row 1 of the sheet
	Rows       [][]string // Data rows, padded to the header width
}

// ColumnIndex returns the index of the named header (case-insensitive)
// or -1 if the table has no such column.
func (t *RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns the value at the given row/column, or "" when the row
// is shorter than the header width.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
