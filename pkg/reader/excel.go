// pkg/reader/excel.go
package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// Reader loads one spreadsheet into a RawTable. The pipeline treats
// reading as an opaque synchronous collaborator; tests substitute an
// in-memory implementation.
type Reader interface {
	Read(path string) (*model.RawTable, error)
}

// ExcelReader reads .xlsx post-log files. The header row is expected
// in row 1 with no surrounding decorative formatting; files violating
// that precondition are rejected here.
type ExcelReader struct {
	logger *zap.Logger
}

// NewExcelReader creates a reader with the given logger.
func NewExcelReader(logger *zap.Logger) *ExcelReader {
	return &ExcelReader{logger: logger.Named("excel-reader")}
}

// Read opens the workbook and returns its first sheet as a RawTable.
func (r *ExcelReader) Read(path string) (*model.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet %s sheet %s is empty", path, sheet)
	}

	headers := rows[0]
	if !hasHeaderContent(headers) {
		return nil, fmt.Errorf("spreadsheet %s has no header row", path)
	}

	table := &model.RawTable{
		SourceFile: filepath.Base(path),
		Headers:    headers,
		Rows:       padRows(rows[1:], len(headers)),
	}

	r.logger.Info("Read spreadsheet",
		zap.String("file", table.SourceFile),
		zap.String("sheet", sheet),
		zap.Int("columns", len(table.Headers)),
		zap.Int("rows", len(table.Rows)))

	return table, nil
}

// hasHeaderContent reports whether at least one header cell is non-blank.
func hasHeaderContent(headers []string) bool {
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			return true
		}
	}
	return false
}

// padRows extends short rows to the header width. excelize trims
// trailing empty cells, which would otherwise shift column lookups.
func padRows(rows [][]string, width int) [][]string {
	padded := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) >= width {
			padded[i] = row
			continue
		}
		full := make([]string, width)
		copy(full, row)
		padded[i] = full
	}
	return padded
}
