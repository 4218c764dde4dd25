package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSourceType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     SourceType
	}{
		{name: "station with market", filename: "KATU_Pierce_20240101.xlsx", want: SourceIndividualStation},
		{name: "lowercase call sign", filename: "ktvz_spokane.xlsx", want: SourceIndividualStation},
		{name: "three letter call sign", filename: "PostLog_KHQ_Q1.xlsx", want: SourceIndividualStation},
		{name: "market only", filename: "PostLog_Pierce_Q1.xlsx", want: SourceMultiStationMarket},
		{name: "market with path", filename: "/data/inbox/Thurston_2024.xlsx", want: SourceMultiStationMarket},
		{name: "long K token is not a call sign", filename: "Kalamazoo_2024.xlsx", want: SourceMultiStationMarket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSourceType(tt.filename))
		})
	}
}

func TestFilenameTokens(t *testing.T) {
	assert.Equal(t, []string{"KATU", "Pierce", "20240101"}, FilenameTokens("/inbox/KATU_Pierce_20240101.xlsx"))
	assert.Equal(t, []string{"Pierce"}, FilenameTokens("__Pierce__.xlsx"))
}

func TestSourceTypeString(t *testing.T) {
	assert.Equal(t, "individual_station", SourceIndividualStation.String())
	assert.Equal(t, "multi_station_market", SourceMultiStationMarket.String())
}
