package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brady-data/crimegun-cli/internal/batch"
)

func TestRenderSummary(t *testing.T) {
	out := renderSummary(&batch.Summary{
		RunID:     "run-1",
		Batches:   2,
		Total:     25,
		Processed: 24,
		Failed:    1,
	})

	assert.Contains(t, out, "run run-1")
	assert.Contains(t, out, "batches:   2")
	assert.Contains(t, out, "processed: 24")
	assert.Contains(t, out, "success:   96.0%")
}
