package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

func TestRunMetricsRecordResult(t *testing.T) {
	m := NewRunMetrics()

	ok := &FileResult{Filename: "KATU_Pierce.xlsx", Success: true, RowsRead: 10, RowsKept: 8}
	ok.AddDrops([]model.DropRecord{
		model.NewDropRecord("KATU_Pierce.xlsx", 4, "subtotal_row", "total_marker"),
		model.NewDropRecord("KATU_Pierce.xlsx", 9, "non_data_row", "unparseable_date"),
	})
	m.RecordResult(ok)

	bad := &FileResult{
		Filename: "KHQ_Spokane.xlsx",
		Success:  false,
		RowsRead: 3,
		Err:      fmt.Errorf("no date header"),
	}
	m.RecordResult(bad)

	assert.Equal(t, []string{"KATU_Pierce.xlsx"}, m.SucceededFiles)
	assert.Equal(t, "no date header", m.SkippedFiles["KHQ_Spokane.xlsx"])
	assert.Equal(t, 2, m.TotalFiles())
	assert.Equal(t, int64(13), m.RowsRead)
	assert.Equal(t, int64(8), m.RowsAggregated)
	assert.Equal(t, int64(2), m.RowsDropped)
	assert.Equal(t, int64(1), m.DropsByReason["total_marker"])
	assert.Equal(t, int64(1), m.DropsByReason["unparseable_date"])
}

func TestFileResultComplete(t *testing.T) {
	job := NewFileJob("/data/KATU_Pierce.xlsx", "KATU_Pierce.xlsx")
	assert.Equal(t, model.SourceIndividualStation, job.Source)
	assert.NotEmpty(t, job.ID)

	result := NewFileResult(job)
	result.Complete(true)

	assert.True(t, result.Success)
	assert.False(t, result.EndTime.IsZero())
	assert.GreaterOrEqual(t, result.Duration, result.EndTime.Sub(result.StartTime))
}
