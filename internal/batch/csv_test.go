package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brady-data/crimegun-cli/internal/classify"
	"github.com/brady-data/crimegun-cli/internal/model"
)

const testCSV = `source_dataset,jurisdiction_state,case_number,case_summary
DE_GUNSTAT,,30-23-063056,robbery on Market St
DE_GUNSTAT,DE,30-23-063057,already classified
PA_TRACE,,,shooting in Philadelphia
DE_GUNSTAT,,31-22-000001,
`

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	records, header, skipped, err := LoadCSV(writeTestCSV(t), CSVOptions{SkipExisting: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"source_dataset", "jurisdiction_state", "case_number", "case_summary"}, header)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 3)

	// First data row is source row 2; the classified row 3 was skipped.
	assert.Equal(t, 2, records[0].SourceRow())
	assert.Equal(t, 4, records[1].SourceRow())
	assert.Equal(t, "30-23-063056", records[0].Text("case_number"))

	// Empty cells are omitted, not stored as empty strings.
	_, hasSummary := records[2]["case_summary"]
	assert.False(t, hasSummary)
}

func TestLoadCSV_RowRange(t *testing.T) {
	records, _, _, err := LoadCSV(writeTestCSV(t), CSVOptions{StartRow: 4, EndRow: 4})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].SourceRow())
}

func TestLoadCSV_KeepExisting(t *testing.T) {
	records, _, skipped, err := LoadCSV(writeTestCSV(t), CSVOptions{})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, records, 4)
}

func TestSplitBatches(t *testing.T) {
	records := makeRecords(45)

	batches := SplitBatches(records, 20)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 20)
	assert.Len(t, batches[2], 5)

	// Requested size above the cap is clamped.
	batches = SplitBatches(records, 100)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], MaxBatchSize)
}

func TestBuildPrompt(t *testing.T) {
	rec := model.Record{
		model.SourceRowKey: 7,
		"source_dataset":   "DE_GUNSTAT",
		"case_summary":     strings.Repeat("x", 3000),
	}

	prompt, err := BuildPrompt(rec)
	require.NoError(t, err)
	assert.Contains(t, prompt, "**Source Row:** 7")
	assert.Contains(t, prompt, "... [truncated]")
	assert.NotContains(t, prompt, model.SourceRowKey)
	assert.NotContains(t, prompt, strings.Repeat("x", 2001))
}

func TestBuildDispatch(t *testing.T) {
	records, _, _, err := LoadCSV(writeTestCSV(t), CSVOptions{SkipExisting: true})
	require.NoError(t, err)

	d, err := BuildDispatch(1, records)
	require.NoError(t, err)
	assert.Equal(t, 1, d.BatchID)
	require.Len(t, d.Prompts, 3)
	assert.Equal(t, 2, d.Prompts[0].SourceRow)
	assert.Contains(t, d.Prompts[0].Prompt, "DE_GUNSTAT")
}

func TestClassifyCSVAndWrite(t *testing.T) {
	in := writeTestCSV(t)
	records, header, skipped, err := LoadCSV(in, CSVOptions{SkipExisting: true})
	require.NoError(t, err)

	results, summary := ClassifyCSV(classify.NewResolver(), records, skipped)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	require.Contains(t, results, 2)
	assert.Equal(t, "DE", results[2].State)

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, err)
	require.NoError(t, WriteCSV(out, header, records, results))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "crime_location_state")
	assert.Contains(t, content, "Dataset default: DE_GUNSTAT implies DE")
}
