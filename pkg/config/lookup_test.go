package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLookupFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLookup(t *testing.T) {
	path := writeLookupFile(t, `
stations:
  KATU:
    name: KATU Portland
    dma_code: 820
  KBOI: 757
markets:
  seattle:
    dma_code: 819
    subgeographies:
      - pierce
      - thurston
  spokane: 881
`)

	lookup, err := LoadLookup(path)
	require.NoError(t, err)

	info, ok := lookup.StationDMA("katu")
	require.True(t, ok)
	assert.Equal(t, "KATU Portland", info.Name)
	assert.Equal(t, "820", info.DMACode)

	info, ok = lookup.StationDMA("KBOI")
	require.True(t, ok)
	assert.Equal(t, "757", info.DMACode)

	// Subgeographies are promoted to top-level entries with the
	// parent's code.
	for _, name := range []string{"seattle", "Pierce", "THURSTON"} {
		dma, ok := lookup.MarketDMA(name)
		require.True(t, ok, "market %q", name)
		assert.Equal(t, "819", dma)
	}

	dma, ok := lookup.MarketDMA("spokane")
	require.True(t, ok)
	assert.Equal(t, "881", dma)

	_, ok = lookup.MarketDMA("atlantis")
	assert.False(t, ok)
}

func TestLoadLookupZeroPadsDMACodes(t *testing.T) {
	path := writeLookupFile(t, `
stations:
  KXYZ: 42
markets:
  smallville: 7
`)

	lookup, err := LoadLookup(path)
	require.NoError(t, err)

	info, _ := lookup.StationDMA("kxyz")
	assert.Equal(t, "042", info.DMACode)

	dma, _ := lookup.MarketDMA("smallville")
	assert.Equal(t, "007", dma)
}

func TestLoadLookupDefaultSynonyms(t *testing.T) {
	path := writeLookupFile(t, `
stations:
  KATU: 820
markets:
  pierce: 819
`)

	lookup, err := LoadLookup(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDateSynonyms, lookup.DateSynonyms)
	assert.Equal(t, DefaultTimeSynonyms, lookup.TimeSynonyms)
}

func TestLoadLookupSynonymOverride(t *testing.T) {
	path := writeLookupFile(t, `
stations:
  KATU: 820
markets:
  pierce: 819
synonyms:
  date:
    - broadcast_date
  time:
    - broadcast_time
`)

	lookup, err := LoadLookup(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"broadcast_date"}, lookup.DateSynonyms)
	assert.Equal(t, []string{"broadcast_time"}, lookup.TimeSynonyms)
}

func TestLoadLookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no stations", content: "markets:\n  pierce: 819\n"},
		{name: "no markets", content: "stations:\n  KATU: 820\n"},
		{name: "station missing dma_code", content: "stations:\n  KATU:\n    name: KATU Portland\nmarkets:\n  pierce: 819\n"},
		{name: "not yaml", content: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLookup(writeLookupFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadLookupMissingFile(t *testing.T) {
	_, err := LoadLookup(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestStationCodes(t *testing.T) {
	lookup := &Lookup{Stations: map[string]StationInfo{
		"ktvz": {DMACode: "821"},
		"katu": {DMACode: "820"},
	}}
	assert.Equal(t, []string{"katu", "ktvz"}, lookup.StationCodes())
}
