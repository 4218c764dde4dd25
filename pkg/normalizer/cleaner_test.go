package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/config"
	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

func stationTable(rows [][]string) *model.RawTable {
	return &model.RawTable{
		SourceFile: "PostLog_KATU_Pierce.xlsx",
		Headers:    []string{model.ColAiredDate, model.ColAiredTime, model.ColLength, model.ColRate, "spot"},
		Rows:       rows,
	}
}

func TestCleanKeepsValidRows(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := stationTable([][]string{
		{"1/1/2024", "06:00:00", "30", "$150", "AdX"},
		{"1/2/2024", "605A", ":15", "$75.50", "AdY"},
	})

	rows, drops, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)
	assert.Empty(t, drops)
	require.Len(t, rows, 2)

	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(rows[0].AiredDate))
	assert.Equal(t, 6, rows[0].AiredTime.Hour())
	assert.Equal(t, 30, rows[0].Length)
	assert.Equal(t, "150", rows[0].Rate)
	assert.Equal(t, "AdX", rows[0].Extra["spot"])

	assert.Equal(t, 15, rows[1].Length)
	assert.Equal(t, "75.50", rows[1].Rate)
}

func TestCleanDropsSubtotalRows(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := stationTable([][]string{
		{"1/1/2024", "06:00:00", "30", "$150", "AdX"},
		{"", "", "", "", "Total"},
		{"Total", "", "1250", "", ""},
	})

	rows, drops, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, drops, 2)

	for _, drop := range drops {
		assert.Equal(t, "subtotal_row", drop.DropOperation)
		assert.Equal(t, "total_marker", drop.DropReason)
		assert.Equal(t, "PostLog_KATU_Pierce.xlsx", drop.SourceFile)
	}
}

func TestCleanDropsRowsWithMissingRequiredFields(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := stationTable([][]string{
		{"", "06:00:00", "30", "", "AdX"},       // blank date
		{"1/1/2024", "", "30", "", "AdX"},       // blank time
		{"1/1/2024", "06:00:00", "", "", "AdX"}, // blank length
		{"1/1/2024", "06:00:00", "30", "", "AdOK"},
	})

	rows, drops, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AdOK", rows[0].Extra["spot"])

	require.Len(t, drops, 3)
	columns := []string{drops[0].ColumnName, drops[1].ColumnName, drops[2].ColumnName}
	assert.Equal(t, []string{model.ColAiredDate, model.ColAiredTime, model.ColLength}, columns)
	for _, drop := range drops {
		assert.Equal(t, "missing_required_field", drop.DropReason)
	}
}

func TestCleanDropsUnparseableRows(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := stationTable([][]string{
		{"not a date", "06:00:00", "30", "", "AdX"},
		{"1/1/2024", "sunrise", "30", "", "AdX"},
		{"1/1/2024", "06:00:00", "thirty", "", "AdX"},
		{"1/1/2024", "06:00:00", "30", "", "AdOK"},
	})

	rows, drops, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, drops, 3)

	reasons := []string{drops[0].DropReason, drops[1].DropReason, drops[2].DropReason}
	assert.Equal(t, []string{"unparseable_date", "unparseable_time", "unparseable_length"}, reasons)
}

func TestCleanIsIdempotent(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := stationTable([][]string{
		{"1/1/2024", "06:00:00", "30", "$150", "AdX"},
		{"bad", "06:00:00", "30", "", "AdY"},
	})

	first, _, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)

	// Re-cleaning already-clean data must not change the row count.
	second, _, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}

func TestCleanMarketFileInjectsDefaultLength(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := &model.RawTable{
		SourceFile: "PostLog_Pierce_Q1.xlsx",
		Headers:    []string{model.ColStation, model.ColRate, model.ColAiredDate, model.ColAiredTime},
		Rows: [][]string{
			{"KIRO", "$150", "2024-01-01", "06:00:00"},
			{"KOMO", "$95", "2024-01-01", "19:30:00"},
			{"", "", "", ""}, // prettifying filler
		},
	}

	rows, drops, err := c.Clean(table, model.SourceMultiStationMarket)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, drops, 1)

	for _, row := range rows {
		assert.Equal(t, 30, row.Length)
	}
	assert.Equal(t, "KIRO", rows[0].Station)
	assert.Equal(t, "KOMO", rows[1].Station)
}

func TestCleanMarketFileCustomDefaultLength(t *testing.T) {
	c := NewRowCleaner(15, zap.NewNop())

	table := &model.RawTable{
		SourceFile: "PostLog_Spokane_Q1.xlsx",
		Headers:    []string{model.ColStation, model.ColAiredDate, model.ColAiredTime},
		Rows:       [][]string{{"KHQ", "2024-01-01", "06:00:00"}},
	}

	rows, _, err := c.Clean(table, model.SourceMultiStationMarket)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 15, rows[0].Length)
}

func TestCleanSplitDateColumns(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	table := &model.RawTable{
		SourceFile: "PostLog_KTVM_Spokane.xlsx",
		Headers:    []string{"m", "d", "y", model.ColAiredTime, model.ColLength},
		Rows:       [][]string{{"3", "5", "2024", "06:00:00", "30"}},
	}

	rows, drops, err := c.Clean(table, model.SourceIndividualStation)
	require.NoError(t, err)
	assert.Empty(t, drops)
	require.Len(t, rows, 1)
	assert.True(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC).Equal(rows[0].AiredDate))
	// The split columns are consumed, not passed through.
	assert.NotContains(t, rows[0].Extra, "m")
	assert.NotContains(t, rows[0].Extra, "y")
}

func TestCleanEmptyFile(t *testing.T) {
	c := NewRowCleaner(config.DefaultMarketFileSpotLengthSeconds, zap.NewNop())

	tests := []struct {
		name string
		rows [][]string
	}{
		{name: "header only", rows: nil},
		{name: "only subtotal rows", rows: [][]string{{"", "", "", "", "Total"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Clean(stationTable(tt.rows), model.SourceIndividualStation)
			require.Error(t, err)

			emptyErr, ok := err.(*EmptyFileError)
			require.True(t, ok, "expected EmptyFileError, got %T", err)
			assert.Equal(t, "PostLog_KATU_Pierce.xlsx", emptyErr.File)
		})
	}
}
