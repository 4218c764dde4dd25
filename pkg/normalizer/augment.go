// pkg/normalizer/augment.go
package normalizer

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChiefMedia/mintMeasureColab/pkg/config"
	"github.com/ChiefMedia/mintMeasureColab/pkg/model"
)

// FieldAugmenter derives the datetime, station and dma_code fields for
// cleaned rows, using the process-wide lookup tables.
//
// National spots, which would carry dma_code "999", are never produced
// by current inputs and are not detected here: a row whose true market
// is national is misclassified or rejected with UnknownMarketError.
// Known limitation, preserved deliberately.
type FieldAugmenter struct {
	lookup *config.Lookup
	logger *zap.Logger
}

// NewFieldAugmenter creates an augmenter over the loaded lookup tables.
func NewFieldAugmenter(lookup *config.Lookup, logger *zap.Logger) *FieldAugmenter {
	return &FieldAugmenter{
		lookup: lookup,
		logger: logger.Named("field-augmenter"),
	}
}

// Augment derives fields for every cleaned row of one file. Rows whose
// date/time components cannot be combined are dropped with a recorded
// reason; unknown stations or markets are fatal for the file.
func (a *FieldAugmenter) Augment(sourceFile string, source model.SourceType, rows []CleanedRow) ([]model.Spot, []model.DropRecord, error) {
	var fileStation, fileDMA string

	if source == model.SourceIndividualStation {
		station, ok := a.stationFromFilename(sourceFile)
		if !ok {
			return nil, nil, &UnknownStationError{File: sourceFile, Known: a.lookup.StationCodes()}
		}
		fileStation = station

		dma, ok := a.marketFromFilename(sourceFile)
		if !ok {
			return nil, nil, &UnknownMarketError{File: sourceFile, Token: sourceFile}
		}
		fileDMA = dma
	}

	spots := make([]model.Spot, 0, len(rows))
	var drops []model.DropRecord

	for _, row := range rows {
		if row.AiredDate.IsZero() || row.AiredTime.IsZero() {
			missing := model.ColAiredDate
			if !row.AiredDate.IsZero() {
				missing = model.ColAiredTime
			}
			combineErr := &DateTimeCombineError{File: sourceFile, Row: row.RowNumber, Missing: missing}
			a.logger.Warn("Dropped row", zap.Error(combineErr))
			drops = append(drops, model.NewDropRecord(sourceFile, row.RowNumber, "datetime_combine", combineErr.Error()).
				WithColumn(missing, ""))
			continue
		}

		spot := model.Spot{
			SpotID:    uuid.New().String(),
			AiredDate: row.AiredDate,
			AiredTime: row.AiredTime,
			DateTime:  combineDateTime(row.AiredDate, row.AiredTime),
			Rate:      row.Rate,
			Length:    row.Length,
			Extra:     row.Extra,
		}

		if source == model.SourceIndividualStation {
			spot.Station = fileStation
			spot.DMACode = fileDMA
		} else {
			spot.Station = row.Station

			dma, err := a.marketForRow(sourceFile, row)
			if err != nil {
				return nil, drops, err
			}
			spot.DMACode = dma
		}

		spots = append(spots, spot)
	}

	a.logger.Info("Augmented rows",
		zap.String("file", sourceFile),
		zap.String("source_type", source.String()),
		zap.Int("spots", len(spots)),
		zap.Int("rows_dropped", len(drops)))

	return spots, drops, nil
}

// combineDateTime merges the date and time-of-day components into one
// canonical timestamp.
func combineDateTime(date, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC)
}

// stationFromFilename matches the enumerated station codes against the
// filename (case-insensitive substring match). This is the extension
// point for new stations: add the code to the lookup file.
func (a *FieldAugmenter) stationFromFilename(filename string) (string, bool) {
	lower := strings.ToLower(filename)

	// Longest codes first so e.g. KHQ cannot shadow a longer call sign.
	codes := a.lookup.StationCodes()
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})

	for _, code := range codes {
		if strings.Contains(lower, code) {
			return strings.ToUpper(code), true
		}
	}
	return "", false
}

// marketFromFilename resolves the buy market embedded in the filename.
func (a *FieldAugmenter) marketFromFilename(filename string) (string, bool) {
	for _, token := range model.FilenameTokens(filename) {
		if dma, ok := a.lookup.MarketDMA(token); ok {
			return dma, true
		}
	}
	return "", false
}

// marketForRow resolves a market file row's DMA code: a market column
// when the file carries one, the filename token otherwise.
func (a *FieldAugmenter) marketForRow(sourceFile string, row CleanedRow) (string, error) {
	for header, value := range row.Extra {
		if !strings.Contains(header, "market") {
			continue
		}
		token := collapseWhitespace(value)
		if token == "" {
			continue
		}
		dma, ok := a.lookup.MarketDMA(token)
		if !ok {
			return "", &UnknownMarketError{File: sourceFile, Token: token}
		}
		return dma, nil
	}

	if dma, ok := a.marketFromFilename(sourceFile); ok {
		return dma, nil
	}
	return "", &UnknownMarketError{File: sourceFile, Token: sourceFile}
}
