package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEventsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadEventsCSV(t *testing.T) {
	path := writeEventsCSV(t, `source_dataset,source_row,dealer_name,is_revoked,time_to_crime,case_number,ignored_column
DE_GUNSTAT,12,Acme Firearms,Yes,45 days,30-23-063056,whatever
PA_TRACE,,Keystone Arms,,,,
`)

	events, err := ReadEventsCSV(path)
	require.NoError(t, err)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "DE_GUNSTAT", first.SourceDataset)
	assert.Equal(t, 12, first.SourceRow)
	assert.Equal(t, "Acme Firearms", first.DealerName)
	require.NotNil(t, first.IsRevoked)
	assert.True(t, *first.IsRevoked)
	require.NotNil(t, first.TimeToCrime)
	assert.Equal(t, 45, *first.TimeToCrime)
	assert.Equal(t, "30-23-063056", first.CaseNumber)

	// Missing source_row falls back to the file row number.
	second := events[1]
	assert.Equal(t, 3, second.SourceRow)
	assert.Nil(t, second.IsRevoked)
	assert.Nil(t, second.TimeToCrime)
}

func TestReadEventsCSV_RequiresDataset(t *testing.T) {
	path := writeEventsCSV(t, `source_dataset,dealer_name
,Acme Firearms
`)

	_, err := ReadEventsCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source_dataset")
}

func TestReadEventsCSV_MissingFile(t *testing.T) {
	_, err := ReadEventsCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
