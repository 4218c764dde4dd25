// pkg/pipeline/error.go
package pipeline

import (
	"errors"
	"fmt"

	"github.com/ChiefMedia/mintMeasureColab/pkg/normalizer"
)

// Action defines the recommended action after an error
type Action int

const (
	// ActionContinue indicates processing should continue despite the error
	ActionContinue Action = iota
	// ActionDropRow indicates the current row should be dropped with a
	// recorded reason
	ActionDropRow
	// ActionSkipFile indicates the current file should be skipped and
	// reported, with the rest of the batch continuing
	ActionSkipFile
	// ActionAbort indicates the entire run should be aborted
	ActionAbort
)

// String returns a string representation of the action
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "Continue"
	case ActionDropRow:
		return "DropRow"
	case ActionSkipFile:
		return "SkipFile"
	case ActionAbort:
		return "Abort"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// FileReadError wraps a spreadsheet read failure. Files the reading
// collaborator rejects are skipped and reported, not fatal to the run.
type FileReadError struct {
	File string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.File, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Classify maps an error to its pipeline action. Schema-level errors
// (unrecognized headers, empty files, unknown stations or markets) are
// fatal for the file but not the batch; malformed row components only
// drop the row. Anything unrecognized aborts the run, which in
// practice means configuration or output-sink failures.
func Classify(err error) Action {
	if err == nil {
		return ActionContinue
	}

	var headerErr *normalizer.UnrecognizedHeaderError
	var emptyErr *normalizer.EmptyFileError
	var stationErr *normalizer.UnknownStationError
	var marketErr *normalizer.UnknownMarketError
	var combineErr *normalizer.DateTimeCombineError
	var readErr *FileReadError

	switch {
	case errors.As(err, &headerErr),
		errors.As(err, &emptyErr),
		errors.As(err, &stationErr),
		errors.As(err, &marketErr),
		errors.As(err, &readErr):
		return ActionSkipFile
	case errors.As(err, &combineErr):
		return ActionDropRow
	default:
		return ActionAbort
	}
}
