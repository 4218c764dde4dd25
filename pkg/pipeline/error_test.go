package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChiefMedia/mintMeasureColab/pkg/normalizer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Action
	}{
		{name: "nil", err: nil, want: ActionContinue},
		{name: "unrecognized header", err: &normalizer.UnrecognizedHeaderError{File: "a.xlsx"}, want: ActionSkipFile},
		{name: "empty file", err: &normalizer.EmptyFileError{File: "a.xlsx"}, want: ActionSkipFile},
		{name: "unknown station", err: &normalizer.UnknownStationError{File: "a.xlsx"}, want: ActionSkipFile},
		{name: "unknown market", err: &normalizer.UnknownMarketError{File: "a.xlsx"}, want: ActionSkipFile},
		{name: "read failure", err: &FileReadError{File: "a.xlsx", Err: fmt.Errorf("bad zip")}, want: ActionSkipFile},
		{name: "datetime combine", err: &normalizer.DateTimeCombineError{File: "a.xlsx", Row: 3}, want: ActionDropRow},
		{name: "wrapped skip error", err: fmt.Errorf("processing: %w", &normalizer.EmptyFileError{File: "a.xlsx"}), want: ActionSkipFile},
		{name: "unrecognized error", err: fmt.Errorf("disk full"), want: ActionAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFileReadErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("zip: not a valid zip file")
	err := &FileReadError{File: "a.xlsx", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "a.xlsx")
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "Continue", ActionContinue.String())
	assert.Equal(t, "DropRow", ActionDropRow.String())
	assert.Equal(t, "SkipFile", ActionSkipFile.String())
	assert.Equal(t, "Abort", ActionAbort.String())
}
