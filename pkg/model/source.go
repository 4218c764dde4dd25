// pkg/model/source.go
package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SourceType identifies the shape of a post-log file.
type SourceType int

const (
	// SourceIndividualStation is a post log covering a single station.
	// The filename embeds the station call sign and the buy market.
	SourceIndividualStation SourceType = iota
	// SourceMultiStationMarket is a post log covering several stations
	// in one market. These files lack a spot-length column.
	SourceMultiStationMarket
)

// String returns a human-readable name for the source type.
func (s SourceType) String() string {
	switch s {
	case SourceIndividualStation:
		return "individual_station"
	case SourceMultiStationMarket:
		return "multi_station_market"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// DetectSourceType classifies a post-log file by its filename.
// Station call signs start with K and are at most 4 characters, and no
// market name matches that pattern, so a filename containing such a
// token between underscores is an individual-station log.
func DetectSourceType(filename string) SourceType {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	for _, token := range strings.Split(base, "_") {
		if token == "" {
			continue
		}
		if len(token) <= 4 && (token[0] == 'K' || token[0] == 'k') {
			return SourceIndividualStation
		}
	}
	return SourceMultiStationMarket
}

// FilenameTokens splits a post-log filename into its underscore-separated
// tokens with the extension removed. Station and market identifiers are
// matched against these tokens.
func FilenameTokens(filename string) []string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	tokens := make([]string, 0, 4)
	for _, token := range strings.Split(base, "_") {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
