// pkg/attribution/attribution.go
package attribution

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/aggregate"
	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// Log is an attribution output log: per-spot session totals broken
// down by DMA.
type Log struct {
	Spots []SpotEntry `json:"spots"`
}

// SpotEntry holds one spot's attribution results. Spot IDs are the
// UUIDs assigned during aggregation.
type SpotEntry struct {
	SpotID  string     `json:"spot_id"`
	DMAData []DMAEntry `json:"dma_data"`
}

// DMAEntry holds the session total attributed to one DMA for a spot.
type DMAEntry struct {
	DMACode         json.Number `json:"dma_code"`
	DMASessionTotal int64       `json:"dma_session_total"`
}

// SessionCountColumn is the column the join appends to the aggregated
// table.
const SessionCountColumn = "session_count"

// ParseLog reads an attribution log from disk.
func ParseLog(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attribution log: %w", err)
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to parse attribution log %s: %w", path, err)
	}
	return &log, nil
}

// SessionCounts sums the attributed sessions per spot across all DMAs.
func SessionCounts(log *Log) map[string]int64 {
	counts := make(map[string]int64, len(log.Spots))
	for _, spot := range log.Spots {
		var total int64
		for _, dma := range spot.DMAData {
			total += dma.DMASessionTotal
		}
		counts[spot.SpotID] += total
	}
	return counts
}

// Join appends a session_count column to the aggregated table, matched
// on spot_id. Spots absent from the attribution log get a count of 0.
func Join(logger *zap.Logger, table *aggregate.Table, counts map[string]int64) (*aggregate.Table, error) {
	idCol := table.ColumnIndex(model.ColSpotID)
	if idCol < 0 {
		return nil, fmt.Errorf("aggregated table has no %s column", model.ColSpotID)
	}

	matched := 0
	values := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		count := int64(0)
		if c, ok := counts[row[idCol]]; ok {
			count = c
			matched++
		}
		values[i] = strconv.FormatInt(count, 10)
	}

	logger.Named("attribution").Info("Joined attribution sessions",
		zap.Int("spots", len(table.Rows)),
		zap.Int("matched", matched),
		zap.Int("log_spots", len(counts)))

	return table.WithColumn(SessionCountColumn, values), nil
}
