// pkg/pipeline/job.go
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// FileJob represents one post-log file queued for processing.
type FileJob struct {
	ID        string           // Unique job identifier
	Path      string           // Full path to the spreadsheet
	Filename  string           // Base filename
	Source    model.SourceType // Shape detected from the filename
	CreatedAt time.Time        // Job creation timestamp
}

// NewFileJob creates a job for one discovered file.
func NewFileJob(path, filename string) FileJob {
	return FileJob{
		ID:        uuid.New().String(),
		Path:      path,
		Filename:  filename,
		Source:    model.DetectSourceType(filename),
		CreatedAt: time.Now(),
	}
}

// FileResult represents the outcome of processing one file.
type FileResult struct {
	JobID       string
	Filename    string
	Source      model.SourceType
	Success     bool
	RowsRead    int64 // Data rows read from the sheet
	RowsKept    int64 // Rows surviving cleaning and augmentation
	RowsDropped int64
	Drops       []model.DropRecord
	Err         error // Fatal per-file error, nil on success
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// NewFileResult initializes a result for a job.
func NewFileResult(job FileJob) *FileResult {
	return &FileResult{
		JobID:     job.ID,
		Filename:  job.Filename,
		Source:    job.Source,
		StartTime: time.Now(),
	}
}

// Complete marks the result as finished and calculates duration.
func (r *FileResult) Complete(success bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Success = success
}

// AddDrops records row-level exclusions against the result.
func (r *FileResult) AddDrops(drops []model.DropRecord) {
	r.Drops = append(r.Drops, drops...)
	r.RowsDropped += int64(len(drops))
}
