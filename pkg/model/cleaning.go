// pkg/model/cleaning.go
package model

import (
	"time"
)

// DropRecord documents a single row excluded during cleaning or
// augmentation. Every dropped row produces exactly one record so a
// run's exclusions are auditable after the fact.
type DropRecord struct {
	SourceFile    string    // File the row came from
	RowNumber     int       // 1-based spreadsheet row number
	ColumnName    string    // Column that failed validation, if any
	OriginalValue string    // Offending value (may be empty)
	DropOperation string    // Type of drop performed (e.g. "subtotal_row")
	DropReason    string    // Reason for the drop (e.g. "unparseable_date")
	DroppedAt     time.Time // When the drop occurred
}

// NewDropRecord creates a drop record stamped with the current time.
func NewDropRecord(sourceFile string, rowNumber int, operation, reason string) DropRecord {
	return DropRecord{
		SourceFile:    sourceFile,
		RowNumber:     rowNumber,
		DropOperation: operation,
		DropReason:    reason,
		DroppedAt:     time.Now(),
	}
}

// WithColumn attaches the failing column and value to the record.
func (r DropRecord) WithColumn(column, value string) DropRecord {
	r.ColumnName = column
	r.OriginalValue = value
	return r
}
