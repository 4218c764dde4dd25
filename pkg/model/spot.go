// pkg/model/spot.go
package model

import (
	"sort"
	"strconv"
	"time"
)

// NotApplicable marks a column that one source shape carries and the
// other does not. Missing columns are filled explicitly rather than
// silently omitted from the aggregated output.
const NotApplicable = "N/A"

// Canonical column names shared by every aggregated row.
const (
	ColSpotID    = "spot_id"
	ColDateTime  = "datetime"
	ColAiredDate = "aired_date"
	ColAiredTime = "aired_time"
	ColStation   = "station"
	ColDMACode   = "dma_code"
	ColRate      = "rate"
	ColLength    = "length"
)

// CanonicalColumns is the fixed leading column set of the aggregated
// output, in output order. Passthrough business columns follow.
var CanonicalColumns = []string{
	ColSpotID,
	ColDateTime,
	ColAiredDate,
	ColAiredTime,
	ColStation,
	ColDMACode,
	ColRate,
	ColLength,
}

// Spot is one canonical aired-spot row. Every Spot carries a non-zero
// aired date and time, a positive length and a resolved DMA code.
type Spot struct {
	SpotID    string            // Assigned UUID, join key for attribution
	AiredDate time.Time         // Date component only
	AiredTime time.Time         // Time-of-day component only
	DateTime  time.Time         // AiredDate + AiredTime combined
	Station   string            // Station call sign
	DMACode   string            // Zero-padded Nielsen DMA code
	Rate      string            // Spot rate, punctuation stripped
	Length    int               // Spot length in seconds
	Extra     map[string]string // Passthrough business columns
}

// ExtraColumns returns the passthrough column names in sorted order,
// keeping aggregated output deterministic.
func (s *Spot) ExtraColumns() []string {
	cols := make([]string, 0, len(s.Extra))
	for col := range s.Extra {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Value renders the named canonical column as its output string.
// Passthrough columns are looked up in Extra; absent values yield "".
func (s *Spot) Value(col string) string {
	switch col {
	case ColSpotID:
		return s.SpotID
	case ColDateTime:
		return s.DateTime.Format("2006-01-02 15:04:05")
	case ColAiredDate:
		return s.AiredDate.Format("2006-01-02")
	case ColAiredTime:
		return s.AiredTime.Format("15:04:05")
	case ColStation:
		return s.Station
	case ColDMACode:
		return s.DMACode
	case ColRate:
		return s.Rate
	case ColLength:
		return strconv.Itoa(s.Length)
	default:
		return s.Extra[col]
	}
}
