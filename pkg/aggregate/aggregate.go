// pkg/aggregate/aggregate.go
package aggregate

import (
	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// Table is the aggregated output: the canonical column set followed by
// every passthrough column seen across the inputs, one row per aired
// spot.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Aggregator merges per-file spot slices into one output table. Rows
// keep their input order: grouped by file in directory-listing order,
// then original row order within each file. No deduplication is
// performed.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger.Named("aggregator")}
}

// Merge unions the station and market buckets. Column sets are
// reconciled against the canonical set: a passthrough column present
// in one source and absent from another is filled with the explicit
// not-applicable marker, never silently omitted.
func (a *Aggregator) Merge(buckets ...[]model.Spot) *Table {
	columns := append([]string(nil), model.CanonicalColumns...)
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		seen[col] = struct{}{}
	}

	// Collect passthrough columns in first-seen order so output stays
	// deterministic for a fixed input directory.
	total := 0
	for _, bucket := range buckets {
		total += len(bucket)
		for _, spot := range bucket {
			for _, col := range spot.ExtraColumns() {
				if _, ok := seen[col]; ok {
					continue
				}
				seen[col] = struct{}{}
				columns = append(columns, col)
			}
		}
	}

	rows := make([][]string, 0, total)
	for _, bucket := range buckets {
		for i := range bucket {
			rows = append(rows, renderRow(&bucket[i], columns))
		}
	}

	a.logger.Info("Merged aggregated table",
		zap.Int("buckets", len(buckets)),
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(rows)))

	return &Table{Columns: columns, Rows: rows}
}

// ColumnIndex returns the index of a column, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// WithColumn returns a copy of the table extended by one column, every
// existing row filled with the given values (by row index).
func (t *Table) WithColumn(name string, values []string) *Table {
	out := &Table{
		Columns: append(append([]string(nil), t.Columns...), name),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		out.Rows[i] = append(append([]string(nil), row...), value)
	}
	return out
}

func renderRow(spot *model.Spot, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		value := spot.Value(col)
		if value == "" && !isCanonical(col) {
			value = model.NotApplicable
		}
		if value == "" && (col == model.ColStation || col == model.ColRate) {
			// Canonical columns one shape lacks get the same marker.
			value = model.NotApplicable
		}
		row[i] = value
	}
	return row
}

func isCanonical(col string) bool {
	for _, c := range model.CanonicalColumns {
		if c == col {
			return true
		}
	}
	return false
}
