// pkg/sink/csv.go
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/aggregate"
)

// CSVSink writes the aggregated table to a single CSV file.
type CSVSink struct {
	logger *zap.Logger
}

// NewCSVSink creates a CSV sink.
func NewCSVSink(logger *zap.Logger) *CSVSink {
	return &CSVSink{logger: logger.Named("csv-sink")}
}

// Write persists the table to path, creating parent directories as
// needed. Any existing file is replaced.
func (s *CSVSink) Write(path string, table *aggregate.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output file %s: %w", path, err)
	}

	s.logger.Info("Wrote aggregated output",
		zap.String("path", path),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)))

	return nil
}
