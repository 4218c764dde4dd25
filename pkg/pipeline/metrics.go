// pkg/pipeline/metrics.go
package pipeline

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// RunMetrics tracks one batch run: which files succeeded, which were
// skipped and why, and row counts. The run produces this final report
// rather than a single pass/fail signal.
type RunMetrics struct {
	StartTime time.Time
	EndTime   time.Time

	SucceededFiles []string
	SkippedFiles   map[string]string // filename -> skip reason

	RowsRead       int64
	RowsAggregated int64
	RowsDropped    int64
	DropsByReason  map[string]int64
}

// NewRunMetrics creates a metrics tracker for a run starting now.
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		StartTime:      time.Now(),
		SucceededFiles: make([]string, 0),
		SkippedFiles:   make(map[string]string),
		DropsByReason:  make(map[string]int64),
	}
}

// RecordResult folds one file's result into the run totals.
func (m *RunMetrics) RecordResult(result *FileResult) {
	m.RowsRead += result.RowsRead
	m.RowsDropped += result.RowsDropped
	for _, drop := range result.Drops {
		m.DropsByReason[drop.DropReason]++
	}

	if result.Success {
		m.SucceededFiles = append(m.SucceededFiles, result.Filename)
		m.RowsAggregated += result.RowsKept
		return
	}

	reason := "unknown"
	if result.Err != nil {
		reason = result.Err.Error()
	}
	m.SkippedFiles[result.Filename] = reason
}

// Complete marks the run as finished.
func (m *RunMetrics) Complete() {
	m.EndTime = time.Now()
}

// Duration returns the total run duration.
func (m *RunMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// TotalFiles returns the number of files the run attempted.
func (m *RunMetrics) TotalFiles() int {
	return len(m.SucceededFiles) + len(m.SkippedFiles)
}

// LogSummary emits the final run report: succeeded and skipped files
// with enough context for a human to extend the lookup tables.
func (m *RunMetrics) LogSummary(logger *zap.Logger) {
	logger.Info("Run summary",
		zap.Duration("duration", m.Duration()),
		zap.Int("files_total", m.TotalFiles()),
		zap.Int("files_succeeded", len(m.SucceededFiles)),
		zap.Int("files_skipped", len(m.SkippedFiles)),
		zap.Int64("rows_read", m.RowsRead),
		zap.Int64("rows_aggregated", m.RowsAggregated),
		zap.Int64("rows_dropped", m.RowsDropped))

	for reason, count := range m.DropsByReason {
		logger.Info("Dropped rows by reason",
			zap.String("reason", reason),
			zap.Int64("count", count))
	}

	skipped := make([]string, 0, len(m.SkippedFiles))
	for filename := range m.SkippedFiles {
		skipped = append(skipped, filename)
	}
	sort.Strings(skipped)
	for _, filename := range skipped {
		logger.Warn("Skipped file",
			zap.String("file", filename),
			zap.String("reason", m.SkippedFiles[filename]))
	}
}
