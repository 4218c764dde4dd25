// pkg/normalizer/errors.go
package normalizer

import (
	"fmt"
	"strings"
)

// UnrecognizedHeaderError reports a file whose header row contains no
// match for a required semantic column. Fatal for that file; the run
// continues with the remaining files.
type UnrecognizedHeaderError struct {
	File    string   // Offending filename
	Missing string   // Canonical column that could not be resolved
	Headers []string // Normalized headers that were searched
}

func (e *UnrecognizedHeaderError) Error() string {
	return fmt.Sprintf("file %s: no header matches %s (headers: %s)",
		e.File, e.Missing, strings.Join(e.Headers, ", "))
}

// EmptyFileError reports a file in which every row was classified as a
// non-data row. Fatal for that file.
type EmptyFileError struct {
	File string
}

func (e *EmptyFileError) Error() string {
	return fmt.Sprintf("file %s: no data rows remain after cleaning", e.File)
}

// UnknownStationError reports a station-file filename containing none
// of the enumerated station codes. The message carries the filename so
// a human can extend the station lookup table.
type UnknownStationError struct {
	File  string
	Known []string // Enumerated codes, to guide the fix
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("file %s: filename matches none of the enumerated station codes [%s]",
		e.File, strings.Join(e.Known, ", "))
}

// UnknownMarketError reports a market identifier outside the
// enumerated market set. The message carries the unrecognized token so
// a human can extend the market lookup table.
type UnknownMarketError struct {
	File  string
	Token string // The unrecognized market identifier
}

func (e *UnknownMarketError) Error() string {
	return fmt.Sprintf("file %s: market %q is not in the enumerated market lookup", e.File, e.Token)
}

// DateTimeCombineError reports a row whose date and time components
// could not be combined. The row is dropped with a logged reason; the
// file is not fatal.
type DateTimeCombineError struct {
	File    string
	Row     int    // 1-based spreadsheet row number
	Missing string // Which component was absent
}

func (e *DateTimeCombineError) Error() string {
	return fmt.Sprintf("file %s row %d: cannot combine datetime, %s is missing", e.File, e.Row, e.Missing)
}
