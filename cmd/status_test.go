package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brady-data/crimegun-cli/internal/store"
)

func sampleStats() *store.Stats {
	return &store.Stats{
		Total:       100,
		Classified:  60,
		Remaining:   40,
		ProgressPct: 60.0,
		ZIPDistribution: []store.ZIPCount{
			{ZIP: "19801", Count: 12},
			{ZIP: "19805", Count: 4},
		},
	}
}

func TestFormatStatsText(t *testing.T) {
	out, err := formatStats(sampleStats(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "total:      100")
	assert.Contains(t, out, "progress:   60.0%")
	assert.Contains(t, out, "19801: 12")
}

func TestFormatStatsYAML(t *testing.T) {
	out, err := formatStats(sampleStats(), "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "total: 100")
	assert.Contains(t, out, "zip: \"19801\"")
}

func TestFormatStatsUnknown(t *testing.T) {
	_, err := formatStats(sampleStats(), "xml")
	assert.Error(t, err)
}
