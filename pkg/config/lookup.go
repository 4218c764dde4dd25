// pkg/config/lookup.go
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Default header synonym lists, used when the lookup file does not
// override them. Matching is case- and whitespace-insensitive.
var (
	DefaultDateSynonyms = []string{"aired_date", "air_date", "date"}
	DefaultTimeSynonyms = []string{"aired_time", "air_time", "time", "actual_time_when_spot_aired"}
)

// StationInfo holds the descriptive metadata for one station code.
type StationInfo struct {
	Name    string // Human-readable station description
	DMACode string // Home Nielsen DMA, zero-padded
}

// Lookup holds the station and market DMA tables plus the header
// synonym lists. It is loaded once at process start and never mutated
// afterwards, so it needs no synchronization.
type Lookup struct {
	Stations     map[string]StationInfo // lowercased station code -> metadata
	Markets      map[string]string      // lowercased market name -> DMA code
	DateSynonyms []string
	TimeSynonyms []string
}

// lookupFile mirrors the YAML layout. Station and market values are
// either a bare DMA code or a mapping with dma_code and, for markets,
// an optional subgeographies list that inherits the parent code.
type lookupFile struct {
	Stations map[string]interface{} `yaml:"stations"`
	Markets  map[string]interface{} `yaml:"markets"`
	Synonyms struct {
		Date []string `yaml:"date"`
		Time []string `yaml:"time"`
	} `yaml:"synonyms"`
}

// LoadLookup reads and flattens the station/market DMA lookup file.
// Flattening promotes every subgeography to a top-level market entry
// carrying the parent's DMA code, so callers resolve any geographic
// name with a single map lookup. All keys are lowercased.
func LoadLookup(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup file: %w", err)
	}

	var file lookupFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lookup file %s: %w", path, err)
	}

	lookup := &Lookup{
		Stations:     make(map[string]StationInfo),
		Markets:      make(map[string]string),
		DateSynonyms: file.Synonyms.Date,
		TimeSynonyms: file.Synonyms.Time,
	}
	if len(lookup.DateSynonyms) == 0 {
		lookup.DateSynonyms = DefaultDateSynonyms
	}
	if len(lookup.TimeSynonyms) == 0 {
		lookup.TimeSynonyms = DefaultTimeSynonyms
	}

	for code, value := range file.Stations {
		info, err := parseStationEntry(value)
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", code, err)
		}
		lookup.Stations[normalizeKey(code)] = info
	}

	for name, value := range file.Markets {
		if err := flattenMarketEntry(lookup.Markets, name, value); err != nil {
			return nil, fmt.Errorf("market %s: %w", name, err)
		}
	}

	if len(lookup.Stations) == 0 {
		return nil, fmt.Errorf("lookup file %s defines no stations", path)
	}
	if len(lookup.Markets) == 0 {
		return nil, fmt.Errorf("lookup file %s defines no markets", path)
	}

	return lookup, nil
}

// StationDMA returns the metadata for a station code (case-insensitive).
func (l *Lookup) StationDMA(code string) (StationInfo, bool) {
	info, ok := l.Stations[normalizeKey(code)]
	return info, ok
}

// MarketDMA returns the DMA code for a market or subgeography name
// (case-insensitive).
func (l *Lookup) MarketDMA(name string) (string, bool) {
	code, ok := l.Markets[normalizeKey(name)]
	return code, ok
}

// StationCodes returns the enumerated station codes in sorted order.
func (l *Lookup) StationCodes() []string {
	codes := make([]string, 0, len(l.Stations))
	for code := range l.Stations {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// parseStationEntry accepts either a bare DMA code or a mapping with
// name and dma_code keys.
func parseStationEntry(value interface{}) (StationInfo, error) {
	if code, ok := asInt(value); ok {
		return StationInfo{DMACode: formatDMACode(code)}, nil
	}

	mapping, ok := asMapping(value)
	if !ok {
		return StationInfo{}, fmt.Errorf("expected DMA code or mapping, got %T", value)
	}

	info := StationInfo{}
	if name, ok := mapping["name"]; ok {
		info.Name = fmt.Sprintf("%v", name)
	}
	code, ok := asInt(mapping["dma_code"])
	if !ok {
		return StationInfo{}, fmt.Errorf("missing or invalid dma_code")
	}
	info.DMACode = formatDMACode(code)
	return info, nil
}

// flattenMarketEntry adds the market and any subgeographies to the
// flattened table, all carrying the same DMA code.
func flattenMarketEntry(markets map[string]string, name string, value interface{}) error {
	if code, ok := asInt(value); ok {
		markets[normalizeKey(name)] = formatDMACode(code)
		return nil
	}

	mapping, ok := asMapping(value)
	if !ok {
		return fmt.Errorf("expected DMA code or mapping, got %T", value)
	}

	code, ok := asInt(mapping["dma_code"])
	if !ok {
		return fmt.Errorf("missing or invalid dma_code")
	}
	markets[normalizeKey(name)] = formatDMACode(code)

	subs, ok := mapping["subgeographies"]
	if !ok {
		return nil
	}
	list, ok := subs.([]interface{})
	if !ok {
		return fmt.Errorf("subgeographies must be a list, got %T", subs)
	}
	for _, sub := range list {
		markets[normalizeKey(fmt.Sprintf("%v", sub))] = formatDMACode(code)
	}
	return nil
}

// formatDMACode renders a numeric DMA code as its zero-padded string form.
func formatDMACode(code int) string {
	return fmt.Sprintf("%03d", code)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// asInt unwraps the numeric forms the YAML decoder may produce.
func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// asMapping unwraps a YAML mapping into string keys.
func asMapping(value interface{}) (map[string]interface{}, bool) {
	raw, ok := value.(map[interface{}]interface{})
	if !ok {
		return nil, false
	}
	mapping := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		mapping[normalizeKey(fmt.Sprintf("%v", k))] = v
	}
	return mapping, true
}
