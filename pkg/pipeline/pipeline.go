// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/aggregate"
	"github.com/ChiefMedia/mintMeasureColab/pkg/config"
	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
	"github.com/ChiefMedia/mintMeasureColab/pkg/normalizer"
	"github.com/ChiefMedia/mintMeasureColab/pkg/reader"
)

// Manager orchestrates one batch run: file discovery, the per-file
// normalize/clean/augment sequence, and the final merge. Files are
// processed one at a time, in directory-listing order; the only state
// shared across files is the read-only lookup tables.
type Manager struct {
	reader     reader.Reader
	headers    *normalizer.HeaderNormalizer
	cleaner    *normalizer.RowCleaner
	augmenter  *normalizer.FieldAugmenter
	aggregator *aggregate.Aggregator
	cfg        *config.Config
	logger     *zap.Logger
}

// NewManager wires the pipeline components together.
func NewManager(cfg *config.Config, lookup *config.Lookup, r reader.Reader, logger *zap.Logger) *Manager {
	return &Manager{
		reader:     r,
		headers:    normalizer.NewHeaderNormalizer(lookup, logger),
		cleaner:    normalizer.NewRowCleaner(cfg.MarketFileSpotLengthSeconds, logger),
		augmenter:  normalizer.NewFieldAugmenter(lookup, logger),
		aggregator: aggregate.NewAggregator(logger),
		cfg:        cfg,
		logger:     logger.Named("pipeline"),
	}
}

// Run processes every post-log file in the configured data directory
// and returns the aggregated table plus the run report. Per-file fatal
// errors skip the file and are reported; Run itself fails only when the
// directory cannot be listed, it contains no post logs, or the context
// is cancelled.
func (m *Manager) Run(ctx context.Context) (*aggregate.Table, *RunMetrics, error) {
	metrics := NewRunMetrics()
	defer metrics.Complete()

	jobs, err := m.discoverFiles()
	if err != nil {
		return nil, metrics, err
	}
	if len(jobs) == 0 {
		return nil, metrics, fmt.Errorf("no post-log files found in %s", m.cfg.DataDir)
	}

	m.logger.Info("Starting batch run",
		zap.String("data_dir", m.cfg.DataDir),
		zap.Int("files", len(jobs)))

	var stationBucket, marketBucket []model.Spot

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, metrics, fmt.Errorf("run cancelled: %w", err)
		}

		result, spots := m.processFile(job)
		metrics.RecordResult(result)
		if !result.Success {
			if Classify(result.Err) == ActionAbort {
				return nil, metrics, fmt.Errorf("processing %s: %w", job.Filename, result.Err)
			}
			continue
		}

		if job.Source == model.SourceIndividualStation {
			stationBucket = append(stationBucket, spots...)
		} else {
			marketBucket = append(marketBucket, spots...)
		}
	}

	if len(stationBucket) == 0 && len(marketBucket) == 0 {
		return nil, metrics, fmt.Errorf("no rows aggregated: all %d files were skipped", len(jobs))
	}

	table := m.aggregator.Merge(stationBucket, marketBucket)
	return table, metrics, nil
}

// discoverFiles lists the data directory and builds jobs in sorted
// order, keeping output deterministic for a fixed input directory.
func (m *Manager) discoverFiles() ([]FileJob, error) {
	entries, err := os.ReadDir(m.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory %s: %w", m.cfg.DataDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Excel lock files start with ~$
		if strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	jobs := make([]FileJob, len(names))
	for i, name := range names {
		jobs[i] = NewFileJob(filepath.Join(m.cfg.DataDir, name), name)
		m.logger.Info("Discovered post log",
			zap.String("file", name),
			zap.String("source_type", jobs[i].Source.String()))
	}
	return jobs, nil
}

// processFile runs one file through read -> normalize -> clean ->
// augment and returns its result plus the augmented spots.
func (m *Manager) processFile(job FileJob) (*FileResult, []model.Spot) {
	result := NewFileResult(job)

	raw, err := m.reader.Read(job.Path)
	if err != nil {
		// Malformed spreadsheets are rejected by the reader; the file
		// is skipped and reported, not fatal to the batch.
		m.logger.Error("Failed to read file", zap.String("file", job.Filename), zap.Error(err))
		result.Err = &FileReadError{File: job.Filename, Err: err}
		result.Complete(false)
		return result, nil
	}
	result.RowsRead = int64(len(raw.Rows))

	normalized, err := m.headers.Normalize(raw, job.Source)
	if err != nil {
		m.logger.Error("Failed to normalize headers", zap.String("file", job.Filename), zap.Error(err))
		result.Err = err
		result.Complete(false)
		return result, nil
	}

	cleaned, drops, err := m.cleaner.Clean(normalized, job.Source)
	result.AddDrops(drops)
	if err != nil {
		m.logger.Error("Failed to clean file", zap.String("file", job.Filename), zap.Error(err))
		result.Err = err
		result.Complete(false)
		return result, nil
	}

	spots, augDrops, err := m.augmenter.Augment(job.Filename, job.Source, cleaned)
	result.AddDrops(augDrops)
	if err != nil {
		m.logger.Error("Failed to augment file", zap.String("file", job.Filename), zap.Error(err))
		result.Err = err
		result.Complete(false)
		return result, nil
	}

	result.RowsKept = int64(len(spots))
	result.Complete(true)

	m.logger.Info("Processed file",
		zap.String("file", job.Filename),
		zap.Int64("rows_read", result.RowsRead),
		zap.Int64("rows_kept", result.RowsKept),
		zap.Int64("rows_dropped", result.RowsDropped),
		zap.Duration("duration", result.Duration))

	return result, spots
}
